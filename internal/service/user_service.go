package service

import (
	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/repository"
)

// UserProfile is a user together with the badges they have earned.
type UserProfile struct {
	*models.User
	Badges []models.Badge `json:"badges"`
}

// UserService reads participant profiles and manages the ID-card quota.
type UserService struct {
	users  repository.UserRepository
	badges repository.BadgeRepository
}

// NewUserService returns a UserService using the given repositories.
func NewUserService(users repository.UserRepository, badges repository.BadgeRepository) *UserService {
	return &UserService{
		users:  users,
		badges: badges,
	}
}

// GetProfile returns a user with their badge list.
func (s *UserService) GetProfile(id string) (*UserProfile, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		return nil, NewServiceError(CodeNotFound, "user not found")
	}
	badges, err := s.badges.UserBadges(id)
	if err != nil {
		return nil, err
	}
	if badges == nil {
		badges = []models.Badge{}
	}
	return &UserProfile{User: user, Badges: badges}, nil
}

// List returns one page of users for the admin console.
func (s *UserService) List(page, limit int) ([]*models.User, models.Pagination, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	users, total, err := s.users.List((page-1)*limit, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, models.Pagination{
		CurrentPage: page,
		TotalPages:  (total + limit - 1) / limit,
		TotalItems:  total,
	}, nil
}

// ConsumeGeneration spends one ID-card generation and reports how many are
// left. Returns QUOTA_EXCEEDED once the quota hits zero.
func (s *UserService) ConsumeGeneration(userID string) (int, error) {
	left, err := s.users.ConsumeGeneration(userID)
	if err != nil {
		return 0, NewServiceError(CodeQuotaExceeded, "ID card generation quota exhausted")
	}
	return left, nil
}

// SetLinkedin records the LinkedIn handle captured by the ID-card form.
func (s *UserService) SetLinkedin(userID, linkedin string) error {
	return s.users.SetLinkedin(userID, linkedin)
}

// Verify answers the public ID-card verification lookup. Unknown ids are a
// valid negative answer, not an error.
func (s *UserService) Verify(id string) *models.VerifyResponse {
	user, err := s.users.GetByID(id)
	if err != nil {
		return &models.VerifyResponse{
			Valid:   false,
			Message: "no participant found for this ID",
		}
	}
	return &models.VerifyResponse{
		Valid:    true,
		Name:     user.FullName,
		Role:     user.Role,
		Github:   user.GithubUsername,
		Linkedin: user.LinkedinID,
		Message:  "participant verified",
	}
}
