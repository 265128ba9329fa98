// internal/app/features/posts/create.go
package posts

import (
	"context"
	"encoding/json"
	"net/http"

	poststore "github.com/dalemusser/grouphub/internal/app/store/posts"
	"github.com/dalemusser/grouphub/internal/app/system/authz"
	"github.com/dalemusser/grouphub/internal/app/system/sanitize"
	"github.com/dalemusser/grouphub/internal/app/system/timeouts"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.uber.org/zap"
)

// createPostRequest is the JSON body for POST /posts.
type createPostRequest struct {
	Kind             string                  `json:"kind"`
	Title            string                  `json:"title"`
	Description      string                  `json:"description"`
	Study            *models.StudyDetail     `json:"study,omitempty"`
	Transport        *models.TransportDetail `json:"transport,omitempty"`
	GenderPreference string                  `json:"gender_preference"`
	MaxMembers       int                     `json:"max_members"`
}

// HandleCreatePost creates a need post owned by the current user.
// POST /posts
func (h *Handler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "title is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	post := models.NeedPost{
		Kind:             req.Kind,
		Title:            sanitize.Text(req.Title),
		Description:      sanitize.Text(req.Description),
		Study:            req.Study,
		Transport:        req.Transport,
		GenderPreference: req.GenderPreference,
		MaxMembers:       req.MaxMembers,
		CreatedBy:        uid,
	}

	created, err := poststore.New(h.DB).Create(ctx, post)
	switch err {
	case nil:
	case poststore.ErrBadKind, poststore.ErrDetailMismatch, poststore.ErrMaxMembers:
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	default:
		h.Log.Error("create post failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "could not create post")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}
