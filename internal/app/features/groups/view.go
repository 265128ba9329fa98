// internal/app/features/groups/view.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/grouphub/internal/app/policy/postpolicy"
	groupstore "github.com/dalemusser/grouphub/internal/app/store/groups"
	"github.com/dalemusser/grouphub/internal/app/system/authz"
	"github.com/dalemusser/grouphub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleGroupView returns the group with its member list. Private
// (transport) groups are only visible to the creator and members; other
// callers get a 404 rather than a 403 so private groups do not leak.
// GET /groups/{groupID}
func (h *Handler) HandleGroupView(w http.ResponseWriter, r *http.Request) {
	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "group not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	group, err := groupstore.New(h.DB).GetByID(ctx, groupID)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "not_found", "group not found")
		return
	}
	if err != nil {
		h.Log.Error("get group failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "could not load group")
		return
	}

	if !postpolicy.CanViewGroup(r, group) {
		writeError(w, http.StatusNotFound, "not_found", "group not found")
		return
	}

	writeJSON(w, http.StatusOK, group)
}

// HandleListMyGroups returns the groups the current user belongs to or created.
// GET /groups
func (h *Handler) HandleListMyGroups(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := groupstore.New(h.DB).ListForUser(ctx, uid)
	if err != nil {
		h.Log.Error("list groups failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "could not list groups")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"groups": items})
}
