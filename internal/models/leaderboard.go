package models

// Leaderboard filters.
const (
	FilterOverall = "overall"
	FilterWeekly  = "weekly"
)

// EntryStats holds the scoring counters shown per leaderboard row.
type EntryStats struct {
	Points    int `json:"points"`
	MergedPRs int `json:"mergedPRs"`
}

// LeaderboardEntry is one ranked row. Rank is 1-based and absolute:
// page 2 with limit 30 starts at rank 31.
type LeaderboardEntry struct {
	Rank           int        `json:"rank"`
	ID             string     `json:"id"`
	FullName       string     `json:"fullName"`
	GithubUsername string     `json:"github_username"`
	AvatarURL      string     `json:"avatar_url,omitempty"`
	Stats          EntryStats `json:"stats"`
}

// Pagination describes the position of a page within the full result set.
// TotalPages is always ceil(TotalItems/limit).
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
}

// LeaderboardSummary aggregates over the entire dataset, never just the
// visible page.
type LeaderboardSummary struct {
	Contributors   int `json:"contributors"`
	TotalPoints    int `json:"totalPoints"`
	TotalMergedPRs int `json:"totalMergedPRs"`
}

// LeaderboardPage is the response envelope of GET /users/leaderboard.
type LeaderboardPage struct {
	Data       []LeaderboardEntry  `json:"data"`
	Pagination Pagination          `json:"pagination"`
	Summary    *LeaderboardSummary `json:"summary,omitempty"`
}

// ProjectPage is the paginated envelope of GET /projects.
type ProjectPage struct {
	Data       []*Project `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// PullRequestPage is the paginated envelope of GET /pull-requests.
type PullRequestPage struct {
	Data       []*PullRequest `json:"data"`
	Pagination Pagination     `json:"pagination"`
}
