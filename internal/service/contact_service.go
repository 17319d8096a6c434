package service

import (
	"strings"

	"github.com/google/uuid"

	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/repository"
)

// ContactService stores contact-form submissions.
type ContactService struct {
	repo repository.ContactRepository
}

// NewContactService returns a ContactService using the given repository.
func NewContactService(repo repository.ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

// Submit validates and stores one submission.
func (s *ContactService) Submit(m *models.ContactMessage) error {
	if strings.TrimSpace(m.Name) == "" {
		return NewServiceError(CodeInvalidRequest, "name is required")
	}
	if strings.TrimSpace(m.Email) == "" || !strings.Contains(m.Email, "@") {
		return NewServiceError(CodeInvalidRequest, "a valid email is required")
	}
	if strings.TrimSpace(m.Message) == "" {
		return NewServiceError(CodeInvalidRequest, "message is required")
	}

	m.ID = uuid.NewString()
	return s.repo.Create(m)
}

// List returns one page of submissions for the admin console.
func (s *ContactService) List(page, limit int) ([]*models.ContactMessage, models.Pagination, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	messages, total, err := s.repo.List((page-1)*limit, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	if messages == nil {
		messages = []*models.ContactMessage{}
	}
	return messages, models.Pagination{
		CurrentPage: page,
		TotalPages:  (total + limit - 1) / limit,
		TotalItems:  total,
	}, nil
}
