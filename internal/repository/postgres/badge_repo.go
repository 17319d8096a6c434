package postgres

import (
	"database/sql"
	"fmt"

	"winter-of-code-backend/internal/models"
)

// BadgeRepository is the Postgres implementation of
// repository.BadgeRepository.
type BadgeRepository struct {
	db *sql.DB
}

// NewBadgeRepository returns a BadgeRepository backed by the given database.
func NewBadgeRepository(db *sql.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

func (r *BadgeRepository) Catalog() ([]models.Badge, error) {
	rows, err := r.db.Query(`
		SELECT id, slug, name, description, threshold
		FROM badges
		ORDER BY threshold ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query badges: %w", err)
	}
	defer rows.Close()
	return collectBadges(rows)
}

// Award is idempotent; awarding the same badge twice is a no-op.
func (r *BadgeRepository) Award(userID, badgeID string) error {
	_, err := r.db.Exec(`
		INSERT INTO user_badges (user_id, badge_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, badge_id) DO NOTHING
	`, userID, badgeID)
	if err != nil {
		return fmt.Errorf("failed to award badge: %w", err)
	}
	return nil
}

func (r *BadgeRepository) UserBadges(userID string) ([]models.Badge, error) {
	rows, err := r.db.Query(`
		SELECT b.id, b.slug, b.name, b.description, b.threshold
		FROM badges b
		INNER JOIN user_badges ub ON b.id = ub.badge_id
		WHERE ub.user_id = $1
		ORDER BY b.threshold ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user badges: %w", err)
	}
	defer rows.Close()
	return collectBadges(rows)
}

func collectBadges(rows *sql.Rows) ([]models.Badge, error) {
	var badges []models.Badge
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.Slug, &b.Name, &b.Description, &b.Threshold); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating badges: %w", err)
	}
	return badges, nil
}
