package repository

import (
	"errors"
	"time"

	"winter-of-code-backend/internal/models"
)

// ErrNotFound marks a lookup that matched no row. Callers that need to
// tell a missing record apart from a failing database check with
// errors.Is.
var ErrNotFound = errors.New("not found")

// UserRepository persists participant accounts.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByGithub(username string) (*models.User, error)
	Update(user *models.User) error
	List(offset, limit int) ([]*models.User, int, error)
	// AddMergedPR atomically adds points and increments the merged counter.
	AddMergedPR(userID string, points int) error
	// ConsumeGeneration decrements the ID-card quota and returns what is left.
	ConsumeGeneration(userID string) (int, error)
	SetLinkedin(userID, linkedin string) error
	// SnapshotWeeklyBaselines copies current points into the weekly baseline.
	SnapshotWeeklyBaselines() error
}

// LeaderboardRepository reads ranked pages. Rank ties break on merged PRs
// descending, then earliest account creation.
type LeaderboardRepository interface {
	Page(filter string, offset, limit int) ([]models.LeaderboardEntry, error)
	Count(filter string) (int, error)
	Summary() (*models.LeaderboardSummary, error)
}

// ProjectRepository persists event projects. GithubURL is unique.
type ProjectRepository interface {
	Create(p *models.Project) error
	GetByID(id string) (*models.Project, error)
	GetByGithubURL(url string) (*models.Project, error)
	Update(p *models.Project) error
	List(q models.ProjectQuery) ([]*models.Project, int, error)
	Featured() ([]*models.Project, error)
	Filters() (*models.ProjectFilters, error)
	ByMentor(mentorGithub string) ([]*models.Project, error)
	MarkSynced(id string, at time.Time) error
}

// PRRepository persists pull requests.
type PRRepository interface {
	Create(pr *models.PullRequest) error
	GetByID(id string) (*models.PullRequest, error)
	List(offset, limit int) ([]*models.PullRequest, int, error)
	UpdateState(id, state string, mergedAt *time.Time) error
}

// BadgeRepository reads the badge catalog and records awards.
type BadgeRepository interface {
	Catalog() ([]models.Badge, error)
	Award(userID, badgeID string) error
	UserBadges(userID string) ([]models.Badge, error)
}

// ContactRepository stores contact-form submissions.
type ContactRepository interface {
	Create(m *models.ContactMessage) error
	List(offset, limit int) ([]*models.ContactMessage, int, error)
}

// StatsRepository aggregates the admin overview counters.
type StatsRepository interface {
	Overview() (*models.AdminOverview, error)
}
