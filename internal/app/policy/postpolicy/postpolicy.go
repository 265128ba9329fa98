// Package postpolicy provides authorization predicates for need posts and
// the groups formed from them.
//
// Authorization rules:
//   - The post's creator is the sole authority for closing the post,
//     reviewing interest details, and managing the derived group.
//   - Admins get a view-only indicator on posts; they do not see interest
//     contact details and are excluded from the student-facing interest
//     action.
//   - Everyone else sees only an aggregate interest count.
//
// Predicates never mutate state.
package postpolicy

import (
	"net/http"

	"github.com/dalemusser/grouphub/internal/app/system/authz"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsCreator reports whether userID authored the post.
func IsCreator(userID primitive.ObjectID, post models.NeedPost) bool {
	return userID != primitive.NilObjectID && post.CreatedBy == userID
}

// CanViewInterestDetails reports whether the current request's user may
// read the interest list with contact fields (name, email, message).
// Creator only: admins get a view-only badge, not the contact list.
func CanViewInterestDetails(r *http.Request, post models.NeedPost) bool {
	_, _, uid, ok := authz.UserCtx(r)
	return ok && IsCreator(uid, post)
}

// CanExpressInterest reports whether the current request's user may express
// interest on the post. Signed in, not the creator, post still open, and
// not an admin. The admin exclusion is enforced here, server-side, rather
// than left to the client.
func CanExpressInterest(r *http.Request, post models.NeedPost) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if role == "admin" {
		return false
	}
	return !IsCreator(uid, post) && post.IsOpen()
}

// CanManageGroup reports whether the current request's user may create the
// group for this post, admit members into it, or reject interests on it.
func CanManageGroup(r *http.Request, post models.NeedPost) bool {
	_, _, uid, ok := authz.UserCtx(r)
	return ok && IsCreator(uid, post)
}

// CanViewGroup reports whether the current request's user may read the
// group's member list. Public groups are readable by any signed-in user;
// private (transport) groups only by the creator and current members.
func CanViewGroup(r *http.Request, group models.Group) bool {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	if group.Visibility == models.GroupVisibilityPublic {
		return true
	}
	return group.CreatedBy == uid || group.HasMember(uid)
}
