// internal/app/features/posts/group.go
package posts

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/grouphub/internal/app/service/formation"
	"github.com/dalemusser/grouphub/internal/app/system/authz"
	"github.com/dalemusser/grouphub/internal/app/system/sanitize"
	"github.com/dalemusser/grouphub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// createGroupRequest is the JSON body for POST /posts/{postID}/groups.
type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreateGroup forms the group for a post. Idempotent by intent:
// 201 when a group was created, 200 with the existing group otherwise.
// POST /posts/{postID}/groups
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
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

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res, err := h.Svc.CreateGroupFromPost(ctx, postID, uid,
		sanitize.Text(req.Name), sanitize.Text(req.Description))
	switch err {
	case nil:
	case formation.ErrPostNotFound:
		writeError(w, http.StatusNotFound, "not_found", "post not found")
		return
	case formation.ErrForbidden:
		writeError(w, http.StatusForbidden, "forbidden", "only the post's creator can form its group")
		return
	default:
		h.Log.Error("create group from post failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "could not create group")
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, res.Group)
}
