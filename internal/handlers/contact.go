package handlers

import (
	"net/http"

	"winter-of-code-backend/internal/logging"
	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/service"
)

// ContactHandler serves POST /contact/submit.
type ContactHandler struct {
	contact *service.ContactService
	log     logging.Logger
}

// NewContactHandler returns a ContactHandler bound to the given service.
func NewContactHandler(contact *service.ContactService, log logging.Logger) *ContactHandler {
	return &ContactHandler{
		contact: contact,
		log:     log,
	}
}

// Submit stores a contact-form message.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var message models.ContactMessage
	if !decodeBody(w, r, &message) {
		return
	}

	if err := h.contact.Submit(&message); err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"message": "thanks, we'll get back to you"})
}
