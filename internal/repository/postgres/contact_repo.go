package postgres

import (
	"database/sql"
	"fmt"

	"winter-of-code-backend/internal/models"
)

// ContactRepository is the Postgres implementation of
// repository.ContactRepository.
type ContactRepository struct {
	db *sql.DB
}

// NewContactRepository returns a ContactRepository backed by the given
// database.
func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(m *models.ContactMessage) error {
	_, err := r.db.Exec(`
		INSERT INTO contact_messages (id, name, email, subject, message)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
	`, m.ID, m.Name, m.Email, m.Subject, m.Message)
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

func (r *ContactRepository) List(offset, limit int) ([]*models.ContactMessage, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM contact_messages`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contact messages: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT id, name, email, COALESCE(subject, ''), message, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query contact messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.ContactMessage
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan contact message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating contact messages: %w", err)
	}
	return messages, total, nil
}
