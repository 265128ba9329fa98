// internal/app/features/posts/interest.go
package posts

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/grouphub/internal/app/service/formation"
	intereststore "github.com/dalemusser/grouphub/internal/app/store/interests"
	poststore "github.com/dalemusser/grouphub/internal/app/store/posts"
	userstore "github.com/dalemusser/grouphub/internal/app/store/users"
	"github.com/dalemusser/grouphub/internal/app/system/authz"
	"github.com/dalemusser/grouphub/internal/app/system/sanitize"
	"github.com/dalemusser/grouphub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// expressInterestRequest is the JSON body for POST /posts/{postID}/interests.
type expressInterestRequest struct {
	Message string `json:"message"`
}

// HandleExpressInterest records the current user's interest on an open post.
// POST /posts/{postID}/interests
//
// Admin accounts are excluded from this student-facing action; the check is
// enforced here on the server, not just hidden in the client.
func (h *Handler) HandleExpressInterest(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}
	if role == "admin" {
		writeError(w, http.StatusForbidden, "forbidden", "admin accounts cannot express interest")
		return
	}

	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "postID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "post not found")
		return
	}

	var req expressInterestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
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

	user, err := userstore.New(h.DB).GetByID(ctx, uid)
	if err != nil {
		h.Log.Error("get user failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "could not load user")
		return
	}

	ie, err := intereststore.New(h.DB).Express(ctx, post, user, sanitize.Text(req.Message))
	switch err {
	case nil:
		writeJSON(w, http.StatusCreated, ie)
	case intereststore.ErrAlreadyExpressed:
		// Informational, not an error banner: the client renders
		// "already interested".
		writeError(w, http.StatusConflict, "already_expressed", "you have already expressed interest in this post")
	case intereststore.ErrOwnPost:
		writeError(w, http.StatusForbidden, "forbidden", "creators cannot express interest in their own post")
	case intereststore.ErrPostNotOpen:
		writeError(w, http.StatusConflict, "post_not_open", "post is no longer open for interest")
	case intereststore.ErrEmptyMessage:
		writeError(w, http.StatusBadRequest, "bad_request", "message must not be empty")
	default:
		h.Log.Error("express interest failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "could not record interest")
	}
}

// HandleRejectInterest transitions a pending interest to rejected.
// POST /posts/{postID}/interests/{userID}/reject
func (h *Handler) HandleRejectInterest(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "postID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "post not found")
		return
	}
	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "interest not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err = h.Svc.RejectInterest(ctx, postID, uid, targetID)
	switch err {
	case nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
	case formation.ErrPostNotFound:
		writeError(w, http.StatusNotFound, "not_found", "post not found")
	case formation.ErrForbidden:
		writeError(w, http.StatusForbidden, "forbidden", "only the post's creator can reject interests")
	case formation.ErrNoPendingInterest:
		writeError(w, http.StatusNotFound, "not_found", "no pending interest for this user")
	default:
		h.Log.Error("reject interest failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "could not reject interest")
	}
}
