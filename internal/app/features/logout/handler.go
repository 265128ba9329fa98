// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/grouphub/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler clears the session cookie.
type Handler struct {
	Sessions *auth.SessionManager
	Log      *zap.Logger
}

func NewHandler(sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Sessions: sm, Log: logger}
}

// HandleLogout signs the user out.
// POST /logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Log.Warn("logout: session clear failed", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
