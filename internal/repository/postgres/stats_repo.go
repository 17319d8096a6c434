package postgres

import (
	"database/sql"
	"fmt"

	"winter-of-code-backend/internal/models"
)

// StatsRepository aggregates the counters shown on the admin console.
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository returns a StatsRepository backed by the given database.
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Overview() (*models.AdminOverview, error) {
	var overview models.AdminOverview
	err := r.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM projects),
			(SELECT COUNT(*) FROM pull_requests),
			(SELECT COUNT(*) FROM pull_requests WHERE state = 'merged'),
			(SELECT COUNT(*) FROM contact_messages),
			(SELECT COALESCE(SUM(points), 0) FROM users)
	`).Scan(
		&overview.Users, &overview.Projects, &overview.PullRequests,
		&overview.MergedPRs, &overview.Contacts, &overview.TotalPoints,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query admin overview: %w", err)
	}
	return &overview, nil
}
