package service

import (
	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/repository"
)

// StatsService serves the admin overview counters.
type StatsService struct {
	repo repository.StatsRepository
}

// NewStatsService returns a StatsService using the given repository.
func NewStatsService(repo repository.StatsRepository) *StatsService {
	return &StatsService{repo: repo}
}

func (s *StatsService) Overview() (*models.AdminOverview, error) {
	return s.repo.Overview()
}
