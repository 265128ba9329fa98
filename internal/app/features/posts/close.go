// internal/app/features/posts/close.go
package posts

import (
	"context"
	"encoding/json"
	"net/http"

	poststore "github.com/dalemusser/grouphub/internal/app/store/posts"
	"github.com/dalemusser/grouphub/internal/app/system/authz"
	"github.com/dalemusser/grouphub/internal/app/system/timeouts"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// patchPostRequest is the JSON body for PATCH /posts/{postID}.
// Closing is the only mutation a creator can apply after publishing.
type patchPostRequest struct {
	Status string `json:"status"`
}

// HandlePatchPost closes an open post.
// PATCH /posts/{postID} with {"status":"closed"}
func (h *Handler) HandlePatchPost(w http.ResponseWriter, r *http.Request) {
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

	var req patchPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.Status != models.PostStatusClosed {
		writeError(w, http.StatusBadRequest, "bad_request", `status must be "closed"`)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	post, err := poststore.New(h.DB).Close(ctx, postID, uid)
	switch err {
	case nil:
		writeJSON(w, http.StatusOK, post)
	case mongo.ErrNoDocuments:
		writeError(w, http.StatusNotFound, "not_found", "post not found")
	case poststore.ErrNotCreator:
		writeError(w, http.StatusForbidden, "forbidden", "only the post's creator can close it")
	case poststore.ErrNotOpen:
		// Include the current state so the client can refresh its view.
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":   "invalid_state",
			"message": "post is not open",
			"status":  post.Status,
		})
	default:
		h.Log.Error("close post failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "could not close post")
	}
}
