// internal/app/features/posts/handler.go
package posts

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/grouphub/internal/app/service/formation"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the posts feature.
// It holds the Mongo database, the formation service, and the logger so
// the per-operation handlers (create, list, detail, close, interest)
// share the same core dependencies.
type Handler struct {
	DB  *mongo.Database
	Svc *formation.Service
	Log *zap.Logger
}

// NewHandler constructs a posts Handler. It is typically called from the
// bootstrap BuildHandler function, where the application's DB, services,
// and logger are already initialized.
func NewHandler(db *mongo.Database, svc *formation.Service, logger *zap.Logger) *Handler {
	return &Handler{
		DB:  db,
		Svc: svc,
		Log: logger,
	}
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the standard error envelope: {"error": code, "message": msg}.
func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": code, "message": msg})
}
