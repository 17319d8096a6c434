package handlers

import (
	"net/http"

	"winter-of-code-backend/internal/logging"
	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/service"
)

// AuthHandler serves POST /auth/github/callback.
type AuthHandler struct {
	auth *service.AuthService
	log  logging.Logger
}

// NewAuthHandler returns an AuthHandler bound to the given service.
func NewAuthHandler(auth *service.AuthService, log logging.Logger) *AuthHandler {
	return &AuthHandler{
		auth: auth,
		log:  log,
	}
}

// GithubCallback exchanges a GitHub OAuth session for an application
// session.
func (h *AuthHandler) GithubCallback(w http.ResponseWriter, r *http.Request) {
	var req models.AuthCallbackRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.auth.GithubCallback(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
