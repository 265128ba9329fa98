// internal/app/features/groups/admit.go
package groups

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/grouphub/internal/app/service/formation"
	groupstore "github.com/dalemusser/grouphub/internal/app/store/groups"
	"github.com/dalemusser/grouphub/internal/app/system/authz"
	"github.com/dalemusser/grouphub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// admitRequest is the JSON body for POST /groups/{groupID}/members.
type admitRequest struct {
	UserIDs []string `json:"user_ids"`
}

// admitResponse reports per-user outcomes after a successful admission.
type admitResponse struct {
	GroupID    string                    `json:"group_id"`
	Members    int                       `json:"members"`
	MaxMembers int                       `json:"max_members"`
	Results    []formation.MemberOutcome `json:"results"`
}

// HandleAdmitMembers admits pending interested users into the group.
// POST /groups/{groupID}/members
//
// The batch is all-or-nothing: when it would exceed capacity the whole
// request fails with capacity_exceeded and current counts so the caller
// can adjust the selection.
func (h *Handler) HandleAdmitMembers(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}

	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "group not found")
		return
	}

	var req admitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if len(req.UserIDs) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "user_ids must not be empty")
		return
	}
	userIDs := make([]primitive.ObjectID, 0, len(req.UserIDs))
	for _, hex := range req.UserIDs {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid user id: "+hex)
			return
		}
		userIDs = append(userIDs, id)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	// The admission service is keyed by (group, post); the post comes from
	// the group's canonical back-reference.
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

	res, err := h.Svc.AdmitMembers(ctx, groupID, group.CreatedFromPost, uid, userIDs)
	switch err {
	case nil:
	case formation.ErrForbidden:
		writeError(w, http.StatusForbidden, "forbidden", "only the post's creator can admit members")
		return
	case formation.ErrPostNotFound, formation.ErrGroupNotFound, formation.ErrWrongPost:
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	case formation.ErrNoPendingInterest:
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	case formation.ErrCapacityExceeded:
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":       "capacity_exceeded",
			"message":     "admitting this batch would exceed the group's capacity",
			"members":     len(group.Members),
			"max_members": group.MaxMembers,
		})
		return
	default:
		h.Log.Error("admit members failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "could not admit members")
		return
	}

	writeJSON(w, http.StatusOK, admitResponse{
		GroupID:    res.Group.ID.Hex(),
		Members:    len(res.Group.Members),
		MaxMembers: res.Group.MaxMembers,
		Results:    res.Outcomes,
	})
}
