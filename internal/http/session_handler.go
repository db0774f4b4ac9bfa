package http

import (
	"encoding/json"
	"net/http"

	"github.com/freshmart/storefront/internal/identity"
)

// SessionHandler activates and deactivates the identity session the cart
// engine listens to. Stands in for the auth provider's sign-in callback.
type SessionHandler struct {
	sessions *identity.Sessions
}

func NewSessionHandler(sessions *identity.Sessions) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type StartSessionRequestDTO struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// POST /api/v1/session
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "user_id is required")
		return
	}

	role, err := identity.ParseRole(req.Role)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_role", err.Error())
		return
	}

	h.sessions.Activate(identity.Identity{ID: req.UserID, Role: role})
	respondJSON(w, http.StatusCreated, map[string]string{"user_id": req.UserID, "role": string(role)})
}

// DELETE /api/v1/session
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Deactivate()
	respondJSON(w, http.StatusNoContent, nil)
}
