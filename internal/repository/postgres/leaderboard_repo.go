package postgres

import (
	"database/sql"
	"fmt"

	"winter-of-code-backend/internal/models"
)

// LeaderboardRepository computes ranked pages straight from the users table.
// Rank is never stored; it is derived per query so it stays consistent with
// the current points.
type LeaderboardRepository struct {
	db *sql.DB
}

// NewLeaderboardRepository returns a LeaderboardRepository backed by the
// given database.
func NewLeaderboardRepository(db *sql.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// scoreExpr selects the scoring column for a filter. The weekly filter
// ranks points earned since the last weekly snapshot.
func scoreExpr(filter string) string {
	if filter == models.FilterWeekly {
		return "points - weekly_baseline"
	}
	return "points"
}

// Page returns entries for [offset, offset+limit). Ties on score break on
// merged PRs descending, then earliest account creation, so rank is
// deterministic.
func (r *LeaderboardRepository) Page(filter string, offset, limit int) ([]models.LeaderboardEntry, error) {
	query := fmt.Sprintf(`
		WITH ranked_users AS (
			SELECT
				id, full_name, github_username, avatar_url,
				%s AS score, merged_prs,
				ROW_NUMBER() OVER (
					ORDER BY %s DESC, merged_prs DESC, created_at ASC
				) AS rank
			FROM users
		)
		SELECT id, full_name, github_username, avatar_url, rank, score, merged_prs
		FROM ranked_users
		ORDER BY rank
		OFFSET $1 LIMIT $2
	`, scoreExpr(filter), scoreExpr(filter))

	rows, err := r.db.Query(query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		var avatar sql.NullString
		if err := rows.Scan(
			&entry.ID, &entry.FullName, &entry.GithubUsername, &avatar,
			&entry.Rank, &entry.Stats.Points, &entry.Stats.MergedPRs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entry.AvatarURL = avatar.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard rows: %w", err)
	}
	return entries, nil
}

func (r *LeaderboardRepository) Count(filter string) (int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count leaderboard entries: %w", err)
	}
	return total, nil
}

// Summary aggregates over every user, not just a page.
func (r *LeaderboardRepository) Summary() (*models.LeaderboardSummary, error) {
	var summary models.LeaderboardSummary
	err := r.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(points), 0), COALESCE(SUM(merged_prs), 0)
		FROM users
	`).Scan(&summary.Contributors, &summary.TotalPoints, &summary.TotalMergedPRs)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard summary: %w", err)
	}
	return &summary, nil
}
