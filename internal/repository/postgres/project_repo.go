package postgres

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/repository"
)

// ProjectRepository is the Postgres implementation of
// repository.ProjectRepository. tech_stack and tags are text[] columns.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository returns a ProjectRepository backed by the given
// database.
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, name, github_url, description, difficulty, mentor_github,
	tech_stack, tags, featured, last_synced_at, created_at, updated_at`

func scanProject(row interface{ Scan(...interface{}) error }) (*models.Project, error) {
	var p models.Project
	var description, mentor sql.NullString
	var synced sql.NullTime
	err := row.Scan(
		&p.ID, &p.Name, &p.GithubURL, &description, &p.Difficulty, &mentor,
		pq.Array(&p.TechStack), pq.Array(&p.Tags), &p.Featured, &synced,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Description = description.String
	p.MentorGithub = mentor.String
	if synced.Valid {
		t := synced.Time
		p.LastSyncedAt = &t
	}
	return &p, nil
}

func (r *ProjectRepository) Create(p *models.Project) error {
	_, err := r.db.Exec(`
		INSERT INTO projects (id, name, github_url, description, difficulty,
			mentor_github, tech_stack, tags, featured)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7, $8, $9)
	`, p.ID, p.Name, p.GithubURL, p.Description, p.Difficulty, p.MentorGithub,
		pq.Array(p.TechStack), pq.Array(p.Tags), p.Featured)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) GetByID(id string) (*models.Project, error) {
	p, err := scanProject(r.db.QueryRow(`
		SELECT `+projectColumns+` FROM projects WHERE id = $1
	`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (r *ProjectRepository) GetByGithubURL(url string) (*models.Project, error) {
	p, err := scanProject(r.db.QueryRow(`
		SELECT `+projectColumns+` FROM projects WHERE github_url = $1
	`, url))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (r *ProjectRepository) Update(p *models.Project) error {
	result, err := r.db.Exec(`
		UPDATE projects
		SET name = $1, description = NULLIF($2, ''), difficulty = $3,
			mentor_github = NULLIF($4, ''), tech_stack = $5, tags = $6,
			featured = $7, updated_at = NOW()
		WHERE id = $8
	`, p.Name, p.Description, p.Difficulty, p.MentorGithub,
		pq.Array(p.TechStack), pq.Array(p.Tags), p.Featured, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("project %w", repository.ErrNotFound)
	}
	return nil
}

// List applies the ANDed query filters and returns one page plus the total
// matching count.
func (r *ProjectRepository) List(q models.ProjectQuery) ([]*models.Project, int, error) {
	var conditions []string
	var args []interface{}

	add := func(condition string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if q.Search != "" {
		add("(name ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%[1]d || '%%')", q.Search)
	}
	if q.Difficulty != "" {
		add("difficulty = $%d", q.Difficulty)
	}
	if q.Tech != "" {
		add("$%d = ANY(tech_stack)", q.Tech)
	}
	if q.Tag != "" {
		add("$%d = ANY(tags)", q.Tag)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM projects "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	offset := (q.Page - 1) * q.Limit
	args = append(args, offset, q.Limit)
	rows, err := r.db.Query(fmt.Sprintf(`
		SELECT %s FROM projects %s
		ORDER BY created_at DESC
		OFFSET $%d LIMIT $%d
	`, projectColumns, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects, err := collectProjects(rows)
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *ProjectRepository) Featured() ([]*models.Project, error) {
	rows, err := r.db.Query(`
		SELECT ` + projectColumns + ` FROM projects
		WHERE featured = true
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query featured projects: %w", err)
	}
	defer rows.Close()
	return collectProjects(rows)
}

func (r *ProjectRepository) Filters() (*models.ProjectFilters, error) {
	filters := &models.ProjectFilters{
		Difficulties: []string{
			models.DifficultyBeginner,
			models.DifficultyIntermediate,
			models.DifficultyAdvanced,
		},
	}

	rows, err := r.db.Query(`SELECT DISTINCT unnest(tech_stack) FROM projects ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tech facets: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tech string
		if err := rows.Scan(&tech); err != nil {
			return nil, fmt.Errorf("failed to scan tech facet: %w", err)
		}
		filters.TechStack = append(filters.TechStack, tech)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tech facets: %w", err)
	}

	tagRows, err := r.db.Query(`SELECT DISTINCT unnest(tags) FROM projects ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tag facets: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var tag string
		if err := tagRows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag facet: %w", err)
		}
		filters.Tags = append(filters.Tags, tag)
	}
	if err := tagRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag facets: %w", err)
	}

	return filters, nil
}

func (r *ProjectRepository) ByMentor(mentorGithub string) ([]*models.Project, error) {
	rows, err := r.db.Query(`
		SELECT `+projectColumns+` FROM projects
		WHERE mentor_github = $1
		ORDER BY created_at DESC
	`, mentorGithub)
	if err != nil {
		return nil, fmt.Errorf("failed to query mentor projects: %w", err)
	}
	defer rows.Close()
	return collectProjects(rows)
}

func (r *ProjectRepository) MarkSynced(id string, at time.Time) error {
	result, err := r.db.Exec(`
		UPDATE projects SET last_synced_at = $1, updated_at = NOW() WHERE id = $2
	`, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark project synced: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("project %w", repository.ErrNotFound)
	}
	return nil
}

func collectProjects(rows *sql.Rows) ([]*models.Project, error) {
	var projects []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return projects, nil
}
