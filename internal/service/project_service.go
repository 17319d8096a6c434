package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/repository"
)

// ProjectService implements project listing, moderation and GitHub re-sync.
type ProjectService struct {
	repo repository.ProjectRepository
}

// NewProjectService returns a ProjectService using the given repository.
func NewProjectService(repo repository.ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

// List returns one filtered page of projects.
func (s *ProjectService) List(q models.ProjectQuery) (*models.ProjectPage, error) {
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}

	projects, total, err := s.repo.List(q)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []*models.Project{}
	}

	return &models.ProjectPage{
		Data: projects,
		Pagination: models.Pagination{
			CurrentPage: q.Page,
			TotalPages:  (total + q.Limit - 1) / q.Limit,
			TotalItems:  total,
		},
	}, nil
}

func (s *ProjectService) Featured() ([]*models.Project, error) {
	return s.repo.Featured()
}

func (s *ProjectService) Filters() (*models.ProjectFilters, error) {
	return s.repo.Filters()
}

func (s *ProjectService) Get(id string) (*models.Project, error) {
	project, err := s.repo.GetByID(id)
	if err != nil {
		return nil, NewServiceError(CodeNotFound, "project not found")
	}
	return project, nil
}

// ByMentor lists the projects whose mentor_github matches the caller.
func (s *ProjectService) ByMentor(mentorGithub string) ([]*models.Project, error) {
	projects, err := s.repo.ByMentor(mentorGithub)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	return projects, nil
}

// Create validates and stores a new project. The github_url must not
// collide with an existing one.
func (s *ProjectService) Create(p *models.Project) (*models.Project, error) {
	if err := validateProject(p); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByGithubURL(p.GithubURL); err == nil {
		return nil, NewServiceError(CodeConflict, "a project with this github_url already exists")
	}

	p.ID = uuid.NewString()
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if err := s.repo.Create(p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(p.ID)
}

// Update replaces the mutable fields of an existing project.
func (s *ProjectService) Update(id string, p *models.Project) (*models.Project, error) {
	if err := validateProject(p); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, NewServiceError(CodeNotFound, "project not found")
	}

	p.ID = existing.ID
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if err := s.repo.Update(p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

// Sync records a re-sync from GitHub and returns the refreshed project.
func (s *ProjectService) Sync(id string) (*models.Project, error) {
	if _, err := s.repo.GetByID(id); err != nil {
		return nil, NewServiceError(CodeNotFound, "project not found")
	}
	if err := s.repo.MarkSynced(id, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

func validateProject(p *models.Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return NewServiceError(CodeInvalidRequest, "name is required")
	}
	if strings.TrimSpace(p.GithubURL) == "" {
		return NewServiceError(CodeInvalidRequest, "github_url is required")
	}
	switch p.Difficulty {
	case models.DifficultyBeginner, models.DifficultyIntermediate, models.DifficultyAdvanced:
	case "":
		p.Difficulty = models.DifficultyIntermediate
	default:
		return NewServiceError(CodeInvalidRequest, "difficulty must be beginner, intermediate or advanced")
	}
	return nil
}
