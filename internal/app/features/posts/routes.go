// internal/app/features/posts/routes.go
package posts

import (
	"github.com/dalemusser/grouphub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /posts requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// LIST + CREATE
		pr.Get("/", h.HandleListPosts)
		pr.Post("/", h.HandleCreatePost)

		// DETAIL
		pr.Get("/{postID}", h.HandlePostDetail)

		// LIFECYCLE (close)
		pr.Patch("/{postID}", h.HandlePatchPost)

		// INTEREST
		pr.Post("/{postID}/interests", h.HandleExpressInterest)
		pr.Post("/{postID}/interests/{userID}/reject", h.HandleRejectInterest)

		// GROUP FORMATION
		pr.Post("/{postID}/groups", h.HandleCreateGroup)
	})

	return r
}
