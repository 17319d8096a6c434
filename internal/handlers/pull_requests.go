package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"winter-of-code-backend/internal/logging"
	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/service"
)

// PRHandler serves the /pull-requests routes.
type PRHandler struct {
	prs *service.PRService
	log logging.Logger
}

// NewPRHandler returns a PRHandler bound to the given service.
func NewPRHandler(prs *service.PRService, log logging.Logger) *PRHandler {
	return &PRHandler{
		prs: prs,
		log: log,
	}
}

// List returns one page of tracked pull requests.
func (h *PRHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.prs.List(queryInt(r, "page", 1), queryInt(r, "limit", 10))
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Track records a newly observed pull request.
func (h *PRHandler) Track(w http.ResponseWriter, r *http.Request) {
	var pr models.PullRequest
	if !decodeBody(w, r, &pr) {
		return
	}

	created, err := h.prs.Track(&pr)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Merge transitions a pull request to merged and applies the scoring
// rules. Safe to call more than once.
func (h *PRHandler) Merge(w http.ResponseWriter, r *http.Request) {
	merged, err := h.prs.Merge(mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, merged)
}
