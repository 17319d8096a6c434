package handlers

import (
	"net/http"

	"winter-of-code-backend/internal/logging"
	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/service"
)

// AdminHandler serves the /admin routes. Role enforcement happens in the
// middleware; every handler here can assume an admin session.
type AdminHandler struct {
	stats    *service.StatsService
	users    *service.UserService
	projects *service.ProjectService
	prs      *service.PRService
	contact  *service.ContactService
	importer *service.ImportService
	log      logging.Logger
}

// NewAdminHandler returns an AdminHandler bound to the given services.
func NewAdminHandler(
	stats *service.StatsService,
	users *service.UserService,
	projects *service.ProjectService,
	prs *service.PRService,
	contact *service.ContactService,
	importer *service.ImportService,
	log logging.Logger,
) *AdminHandler {
	return &AdminHandler{
		stats:    stats,
		users:    users,
		projects: projects,
		prs:      prs,
		contact:  contact,
		importer: importer,
		log:      log,
	}
}

// Overview returns the admin console counters.
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.stats.Overview()
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// Users returns one page of registered users.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, pagination, err := h.users.List(queryInt(r, "page", 1), queryInt(r, "limit", 10))
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":       users,
		"pagination": pagination,
	})
}

// Projects returns one page of projects without public filtering.
func (h *AdminHandler) Projects(w http.ResponseWriter, r *http.Request) {
	page, err := h.projects.List(models.ProjectQuery{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 10),
	})
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// PullRequests returns one page of tracked PRs.
func (h *AdminHandler) PullRequests(w http.ResponseWriter, r *http.Request) {
	page, err := h.prs.List(queryInt(r, "page", 1), queryInt(r, "limit", 10))
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Contacts returns one page of contact-form submissions.
func (h *AdminHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	messages, pagination, err := h.contact.List(queryInt(r, "page", 1), queryInt(r, "limit", 10))
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":       messages,
		"pagination": pagination,
	})
}

// ImportProjects runs the CSV bulk import. A 2xx response with row errors
// is still a successful import overall; only request-level failures use
// the error branch.
func (h *AdminHandler) ImportProjects(w http.ResponseWriter, r *http.Request) {
	var req models.CsvImportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.importer.ImportProjects(req.CsvData, req.Overwrite)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
