// internal/app/features/groups/handler.go
package groups

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/grouphub/internal/app/service/formation"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the groups feature.
type Handler struct {
	DB  *mongo.Database
	Svc *formation.Service
	Log *zap.Logger
}

// NewHandler constructs a groups Handler.
func NewHandler(db *mongo.Database, svc *formation.Service, logger *zap.Logger) *Handler {
	return &Handler{
		DB:  db,
		Svc: svc,
		Log: logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": code, "message": msg})
}
