package postgres

import (
	"database/sql"
	"fmt"

	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/repository"
)

// UserRepository is the Postgres implementation of repository.UserRepository.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository returns a UserRepository backed by the given database.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, full_name, email, github_username, linkedin_id, avatar_url,
	role, points, merged_prs, weekly_baseline, generations_left, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	var linkedin, avatar sql.NullString
	err := row.Scan(
		&u.ID, &u.FullName, &u.Email, &u.GithubUsername, &linkedin, &avatar,
		&u.Role, &u.Points, &u.MergedPRs, &u.WeeklyBaseline, &u.GenerationsLeft,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.LinkedinID = linkedin.String
	u.AvatarURL = avatar.String
	return &u, nil
}

func (r *UserRepository) Create(user *models.User) error {
	_, err := r.db.Exec(`
		INSERT INTO users (id, full_name, email, github_username, linkedin_id, avatar_url,
			role, points, merged_prs, weekly_baseline, generations_left)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, $10, $11)
	`, user.ID, user.FullName, user.Email, user.GithubUsername, user.LinkedinID,
		user.AvatarURL, user.Role, user.Points, user.MergedPRs,
		user.WeeklyBaseline, user.GenerationsLeft)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(id string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(`
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByGithub(username string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(`
		SELECT `+userColumns+` FROM users WHERE github_username = $1
	`, username))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Update(user *models.User) error {
	result, err := r.db.Exec(`
		UPDATE users
		SET full_name = $1, email = $2, linkedin_id = NULLIF($3, ''),
			avatar_url = NULLIF($4, ''), role = $5, updated_at = NOW()
		WHERE id = $6
	`, user.FullName, user.Email, user.LinkedinID, user.AvatarURL, user.Role, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %w", repository.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) List(offset, limit int) ([]*models.User, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT `+userColumns+` FROM users
		ORDER BY created_at ASC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating users: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) AddMergedPR(userID string, points int) error {
	result, err := r.db.Exec(`
		UPDATE users
		SET points = points + $1, merged_prs = merged_prs + 1, updated_at = NOW()
		WHERE id = $2
	`, points, userID)
	if err != nil {
		return fmt.Errorf("failed to add merged PR: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %w", repository.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) ConsumeGeneration(userID string) (int, error) {
	var left int
	err := r.db.QueryRow(`
		UPDATE users
		SET generations_left = generations_left - 1, updated_at = NOW()
		WHERE id = $1 AND generations_left > 0
		RETURNING generations_left
	`, userID).Scan(&left)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("generation quota exhausted")
		}
		return 0, fmt.Errorf("failed to consume generation: %w", err)
	}
	return left, nil
}

func (r *UserRepository) SetLinkedin(userID, linkedin string) error {
	_, err := r.db.Exec(`
		UPDATE users SET linkedin_id = NULLIF($1, ''), updated_at = NOW() WHERE id = $2
	`, linkedin, userID)
	if err != nil {
		return fmt.Errorf("failed to set linkedin: %w", err)
	}
	return nil
}

func (r *UserRepository) SnapshotWeeklyBaselines() error {
	_, err := r.db.Exec(`UPDATE users SET weekly_baseline = points`)
	if err != nil {
		return fmt.Errorf("failed to snapshot weekly baselines: %w", err)
	}
	return nil
}
