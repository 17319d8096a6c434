package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/repository"
)

// PRRepository is the Postgres implementation of repository.PRRepository.
type PRRepository struct {
	db *sql.DB
}

// NewPRRepository returns a PRRepository backed by the given database.
func NewPRRepository(db *sql.DB) *PRRepository {
	return &PRRepository{db: db}
}

const prColumns = `id, user_id, project_id, title, url, state, merged_at, created_at`

func scanPR(row interface{ Scan(...interface{}) error }) (*models.PullRequest, error) {
	var pr models.PullRequest
	var merged sql.NullTime
	err := row.Scan(&pr.ID, &pr.UserID, &pr.ProjectID, &pr.Title, &pr.URL,
		&pr.State, &merged, &pr.CreatedAt)
	if err != nil {
		return nil, err
	}
	if merged.Valid {
		t := merged.Time
		pr.MergedAt = &t
	}
	return &pr, nil
}

func (r *PRRepository) Create(pr *models.PullRequest) error {
	_, err := r.db.Exec(`
		INSERT INTO pull_requests (id, user_id, project_id, title, url, state)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, pr.ID, pr.UserID, pr.ProjectID, pr.Title, pr.URL, pr.State)
	if err != nil {
		return fmt.Errorf("failed to create pull request: %w", err)
	}
	return nil
}

func (r *PRRepository) GetByID(id string) (*models.PullRequest, error) {
	pr, err := scanPR(r.db.QueryRow(`
		SELECT `+prColumns+` FROM pull_requests WHERE id = $1
	`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("pull request %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get pull request: %w", err)
	}
	return pr, nil
}

func (r *PRRepository) List(offset, limit int) ([]*models.PullRequest, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM pull_requests`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pull requests: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT `+prColumns+` FROM pull_requests
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query pull requests: %w", err)
	}
	defer rows.Close()

	var prs []*models.PullRequest
	for rows.Next() {
		pr, err := scanPR(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan pull request: %w", err)
		}
		prs = append(prs, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating pull requests: %w", err)
	}
	return prs, total, nil
}

func (r *PRRepository) UpdateState(id, state string, mergedAt *time.Time) error {
	result, err := r.db.Exec(`
		UPDATE pull_requests SET state = $1, merged_at = $2 WHERE id = $3
	`, state, mergedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update pull request state: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("pull request %w", repository.ErrNotFound)
	}
	return nil
}
