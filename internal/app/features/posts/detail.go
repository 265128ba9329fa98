// internal/app/features/posts/detail.go
package posts

import (
	"context"
	"net/http"

	"github.com/dalemusser/grouphub/internal/app/policy/postpolicy"
	groupstore "github.com/dalemusser/grouphub/internal/app/store/groups"
	intereststore "github.com/dalemusser/grouphub/internal/app/store/interests"
	poststore "github.com/dalemusser/grouphub/internal/app/store/posts"
	"github.com/dalemusser/grouphub/internal/app/system/authz"
	"github.com/dalemusser/grouphub/internal/app/system/timeouts"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// postDetailResponse shapes GET /posts/{postID}. InterestedUsers is only
// populated for the post's creator; everyone else gets the count. Admins
// additionally get the view-only indicator.
type postDetailResponse struct {
	Post            models.NeedPost             `json:"post"`
	InterestCount   int64                       `json:"interest_count"`
	InterestedUsers []models.InterestExpression `json:"interested_users,omitempty"`
	GroupID         string                      `json:"group_id,omitempty"`
	ViewOnly        bool                        `json:"view_only,omitempty"`
}

// HandlePostDetail returns a post with role-scoped interest visibility.
// GET /posts/{postID}
func (h *Handler) HandlePostDetail(w http.ResponseWriter, r *http.Request) {
	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "postID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "post not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	post, err := poststore.New(h.DB).GetByID(ctx, postID)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "not_found", "post not found")
		return
	}
	if err != nil {
		h.Log.Error("get post failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "could not load post")
		return
	}

	resp := postDetailResponse{Post: post}

	interests := intereststore.New(h.DB)
	count, err := interests.CountByPost(ctx, postID)
	if err != nil {
		h.Log.Error("count interests failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "could not load post")
		return
	}
	resp.InterestCount = count

	if postpolicy.CanViewInterestDetails(r, post) {
		list, err := interests.ListByPost(ctx, postID)
		if err != nil {
			h.Log.Error("list interests failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal", "could not load post")
			return
		}
		resp.InterestedUsers = list
	} else if authz.IsAdmin(r) {
		resp.ViewOnly = true
	}

	// Surface the formed group's id when one exists so the client can link
	// to it; absence is not an error.
	if g, err := groupstore.New(h.DB).GetByPost(ctx, postID); err == nil {
		resp.GroupID = g.ID.Hex()
	} else if err != mongo.ErrNoDocuments {
		h.Log.Warn("lookup group for post failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, resp)
}
