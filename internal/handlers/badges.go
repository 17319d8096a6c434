package handlers

import (
	"net/http"

	"winter-of-code-backend/internal/logging"
	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/repository"
)

// BadgeHandler serves GET /badges.
type BadgeHandler struct {
	badges repository.BadgeRepository
	log    logging.Logger
}

// NewBadgeHandler returns a BadgeHandler bound to the given repository.
func NewBadgeHandler(badges repository.BadgeRepository, log logging.Logger) *BadgeHandler {
	return &BadgeHandler{
		badges: badges,
		log:    log,
	}
}

// Catalog returns the full badge catalog.
func (h *BadgeHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.badges.Catalog()
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	if catalog == nil {
		catalog = []models.Badge{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": catalog})
}
