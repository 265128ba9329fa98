// internal/app/features/posts/list.go
package posts

import (
	"context"
	"net/http"

	poststore "github.com/dalemusser/grouphub/internal/app/store/posts"
	"github.com/dalemusser/grouphub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const listLimit = 100

// HandleListPosts returns posts newest first, optionally filtered by
// ?kind=study|transport and ?status=open|fulfilled|closed.
// GET /posts
func (h *Handler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	q := r.URL.Query()
	filter := poststore.ListFilter{
		Kind:   q.Get("kind"),
		Status: q.Get("status"),
		Limit:  listLimit,
	}

	items, err := poststore.New(h.DB).List(ctx, filter)
	if err != nil {
		h.Log.Error("list posts failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "could not list posts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"posts": items})
}
