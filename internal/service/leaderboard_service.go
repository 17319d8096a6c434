package service

import (
	"context"
	"fmt"

	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/repository"
	"winter-of-code-backend/internal/swr"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// LeaderboardService builds ranked pages. The whole-dataset summary is
// served through the SWR cache so repeated page hits inside the fresh
// window do not re-aggregate.
type LeaderboardService struct {
	repo  repository.LeaderboardRepository
	cache *swr.Cache
}

// NewLeaderboardService returns a LeaderboardService using the given
// repository and cache.
func NewLeaderboardService(repo repository.LeaderboardRepository, cache *swr.Cache) *LeaderboardService {
	return &LeaderboardService{
		repo:  repo,
		cache: cache,
	}
}

// GetLeaderboard returns one ranked page with pagination metadata and the
// dataset-wide summary. Out-of-range page/limit fall back to defaults;
// limit is capped. Unknown filters are rejected.
func (s *LeaderboardService) GetLeaderboard(page, limit int, filter string) (*models.LeaderboardPage, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if filter == "" {
		filter = models.FilterOverall
	}
	if filter != models.FilterOverall && filter != models.FilterWeekly {
		return nil, NewServiceError(CodeInvalidRequest, "filter must be overall or weekly")
	}

	total, err := s.repo.Count(filter)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	entries, err := s.repo.Page(filter, offset, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}

	summary, err := s.getSummary()
	if err != nil {
		return nil, err
	}

	totalPages := (total + limit - 1) / limit
	return &models.LeaderboardPage{
		Data: entries,
		Pagination: models.Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  total,
		},
		Summary: summary,
	}, nil
}

func (s *LeaderboardService) getSummary() (*models.LeaderboardSummary, error) {
	value, err := s.cache.Get(context.Background(), "leaderboard:summary", func(context.Context) (interface{}, error) {
		return s.repo.Summary()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard summary: %w", err)
	}
	return value.(*models.LeaderboardSummary), nil
}
