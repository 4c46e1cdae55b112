package http

import (
	"encoding/json"
	"net/http"
)

// IdentitySession is the login/logout surface of the identity provider.
type IdentitySession interface {
	Establish(userID string)
	Clear()
	Current() (string, bool)
}

type SessionHandler struct {
	session IdentitySession
}

func NewSessionHandler(session IdentitySession) *SessionHandler {
	return &SessionHandler{session: session}
}

type SessionRequestDTO struct {
	UserID string `json:"user_id"`
}

type SessionResponseDTO struct {
	UserID string `json:"user_id"`
	Active bool   `json:"active"`
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req SessionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "user_id is required")
		return
	}

	h.session.Establish(req.UserID)
	respondJSON(w, http.StatusOK, SessionResponseDTO{UserID: req.UserID, Active: true})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.Clear()
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.session.Current()
	respondJSON(w, http.StatusOK, SessionResponseDTO{UserID: userID, Active: ok})
}
