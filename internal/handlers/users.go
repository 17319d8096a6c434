package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"winter-of-code-backend/internal/logging"
	"winter-of-code-backend/internal/service"
)

// UserHandler serves user profiles and the public verification lookup.
type UserHandler struct {
	users *service.UserService
	log   logging.Logger
}

// NewUserHandler returns a UserHandler bound to the given service.
func NewUserHandler(users *service.UserService, log logging.Logger) *UserHandler {
	return &UserHandler{
		users: users,
		log:   log,
	}
}

// Get returns a user profile with badges.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.GetProfile(mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Verify answers GET /verify?id=. An unknown id is a valid negative
// answer with HTTP 200, not an error.
func (h *UserHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, service.CodeInvalidRequest, "id parameter is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.users.Verify(id))
}
