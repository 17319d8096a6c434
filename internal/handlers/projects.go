package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"winter-of-code-backend/internal/logging"
	"winter-of-code-backend/internal/middleware"
	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/service"
)

// ProjectHandler serves the /projects routes.
type ProjectHandler struct {
	projects *service.ProjectService
	log      logging.Logger
}

// NewProjectHandler returns a ProjectHandler bound to the given service.
func NewProjectHandler(projects *service.ProjectService, log logging.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		log:      log,
	}
}

// List returns one filtered page of projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	query := models.ProjectQuery{
		Search:     r.URL.Query().Get("search"),
		Difficulty: r.URL.Query().Get("difficulty"),
		Tech:       r.URL.Query().Get("tech"),
		Tag:        r.URL.Query().Get("tag"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 10),
	}

	page, err := h.projects.List(query)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Featured returns the curated subset.
func (h *ProjectHandler) Featured(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.Featured()
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": projects})
}

// Filters returns the available facet values.
func (h *ProjectHandler) Filters(w http.ResponseWriter, r *http.Request) {
	filters, err := h.projects.Filters()
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, filters)
}

// Get returns a single project by id.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.Get(mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// MyProjects lists the authenticated mentor's own projects.
func (h *ProjectHandler) MyProjects(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r)
	if !ok {
		writeError(w, service.CodeUnauthorized, "missing session", http.StatusUnauthorized)
		return
	}

	projects, err := h.projects.ByMentor(user.GithubUsername)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": projects})
}

// Create stores a new project.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if !decodeBody(w, r, &project) {
		return
	}

	created, err := h.projects.Create(&project)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	h.log.Infof("project created: %s (%s)", created.Name, created.ID)
	writeJSON(w, http.StatusCreated, created)
}

// Update replaces an existing project.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if !decodeBody(w, r, &project) {
		return
	}

	updated, err := h.projects.Update(mux.Vars(r)["id"], &project)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Sync re-syncs a project from GitHub.
func (h *ProjectHandler) Sync(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.Sync(mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}
