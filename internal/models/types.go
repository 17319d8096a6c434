package models

import "time"

// ErrorResponse is the standard error envelope returned by every endpoint.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// User roles, assigned server-side and trusted by clients.
const (
	RoleContributor = "contributor"
	RoleMentor      = "mentor"
	RoleAdmin       = "admin"
)

// User is a registered participant. Points are monotonically
// non-decreasing; normal operation never decrements them.
type User struct {
	ID              string    `json:"id"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	GithubUsername  string    `json:"github_username"`
	LinkedinID      string    `json:"linkedin_id,omitempty"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	Role            string    `json:"role"`
	Points          int       `json:"points"`
	MergedPRs       int       `json:"mergedPRs"`
	WeeklyBaseline  int       `json:"-"`
	GenerationsLeft int       `json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Project difficulty levels accepted by the CSV import and project API.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Project is an open-source repository contributors can work on.
// GithubURL is the unique match key for the CSV bulk import.
type Project struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	GithubURL    string     `json:"github_url"`
	Description  string     `json:"description,omitempty"`
	Difficulty   string     `json:"difficulty"`
	MentorGithub string     `json:"mentor_github,omitempty"`
	TechStack    []string   `json:"tech_stack"`
	Tags         []string   `json:"tags"`
	Featured     bool       `json:"featured"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ProjectFilters lists the distinct facets available for project search.
type ProjectFilters struct {
	TechStack    []string `json:"tech_stack"`
	Tags         []string `json:"tags"`
	Difficulties []string `json:"difficulties"`
}

// ProjectQuery captures the supported list filters; zero values mean
// "no constraint".
type ProjectQuery struct {
	Search     string
	Difficulty string
	Tech       string
	Tag        string
	Page       int
	Limit      int
}

// Pull request states.
const (
	PRStateOpen   = "open"
	PRStateMerged = "merged"
	PRStateClosed = "closed"
)

// PullRequest tracks a contributor's PR against an event project.
type PullRequest struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	ProjectID string     `json:"project_id"`
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	State     string     `json:"state"`
	MergedAt  *time.Time `json:"mergedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Badge is a catalog entry awarded at a merged-PR threshold.
type Badge struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Threshold   int    `json:"threshold"`
}

// ContactMessage is a stored contact-form submission.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthCallbackRequest is the body of POST /auth/github/callback.
type AuthCallbackRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IntendedRole string `json:"intended_role"`
}

// AuthCallbackResponse returns the application session for a verified
// GitHub identity.
type AuthCallbackResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// AdminOverview aggregates the counters shown on the admin console.
type AdminOverview struct {
	Users        int `json:"users"`
	Projects     int `json:"projects"`
	PullRequests int `json:"pullRequests"`
	MergedPRs    int `json:"mergedPRs"`
	Contacts     int `json:"contacts"`
	TotalPoints  int `json:"totalPoints"`
}

// VerifyResponse is the payload of the ID-card verification lookup.
type VerifyResponse struct {
	Valid    bool   `json:"valid"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
	Github   string `json:"github,omitempty"`
	Linkedin string `json:"linkedin,omitempty"`
	Message  string `json:"message"`
}
