// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/grouphub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// MINE
		pr.Get("/", h.HandleListMyGroups)

		// VIEW
		pr.Get("/{groupID}", h.HandleGroupView)

		// ADMISSION
		pr.Post("/{groupID}/members", h.HandleAdmitMembers)
	})

	return r
}
