package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winter-of-code-backend/internal/logging"
	"winter-of-code-backend/internal/models"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s not found", id)
	}
	return u, nil
}

func (f *fakeUserRepo) GetByGithub(username string) (*models.User, error) {
	for _, u := range f.users {
		if u.GithubUsername == username {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s not found", username)
}

func (f *fakeUserRepo) Update(u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) List(offset, limit int) ([]*models.User, int, error) {
	return nil, len(f.users), nil
}

func (f *fakeUserRepo) AddMergedPR(userID string, points int) error {
	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("user %s not found", userID)
	}
	u.Points += points
	u.MergedPRs++
	return nil
}

func (f *fakeUserRepo) ConsumeGeneration(userID string) (int, error) {
	u, ok := f.users[userID]
	if !ok {
		return 0, fmt.Errorf("user %s not found", userID)
	}
	if u.GenerationsLeft <= 0 {
		return 0, fmt.Errorf("no generations left")
	}
	u.GenerationsLeft--
	return u.GenerationsLeft, nil
}

func (f *fakeUserRepo) SetLinkedin(userID, linkedin string) error {
	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("user %s not found", userID)
	}
	u.LinkedinID = linkedin
	return nil
}

func (f *fakeUserRepo) SnapshotWeeklyBaselines() error {
	for _, u := range f.users {
		u.WeeklyBaseline = u.Points
	}
	return nil
}

type fakePRRepo struct {
	prs map[string]*models.PullRequest
}

func newFakePRRepo() *fakePRRepo {
	return &fakePRRepo{prs: make(map[string]*models.PullRequest)}
}

func (f *fakePRRepo) Create(pr *models.PullRequest) error {
	cp := *pr
	cp.CreatedAt = time.Now()
	f.prs[pr.ID] = &cp
	return nil
}

func (f *fakePRRepo) GetByID(id string) (*models.PullRequest, error) {
	pr, ok := f.prs[id]
	if !ok {
		return nil, fmt.Errorf("pull request %s not found", id)
	}
	cp := *pr
	return &cp, nil
}

func (f *fakePRRepo) List(offset, limit int) ([]*models.PullRequest, int, error) {
	out := make([]*models.PullRequest, 0, len(f.prs))
	for _, pr := range f.prs {
		out = append(out, pr)
	}
	return out, len(out), nil
}

func (f *fakePRRepo) UpdateState(id, state string, mergedAt *time.Time) error {
	pr, ok := f.prs[id]
	if !ok {
		return fmt.Errorf("pull request %s not found", id)
	}
	pr.State = state
	pr.MergedAt = mergedAt
	return nil
}

type fakeBadgeRepo struct {
	catalog []models.Badge
	awarded map[string]map[string]bool
}

func newFakeBadgeRepo() *fakeBadgeRepo {
	return &fakeBadgeRepo{
		catalog: []models.Badge{
			{ID: "b1", Slug: "first-contribution", Threshold: 1},
			{ID: "b2", Slug: "rising-star", Threshold: 5},
			{ID: "b3", Slug: "code-wizard", Threshold: 10},
		},
		awarded: make(map[string]map[string]bool),
	}
}

func (f *fakeBadgeRepo) Catalog() ([]models.Badge, error) { return f.catalog, nil }

func (f *fakeBadgeRepo) Award(userID, badgeID string) error {
	if f.awarded[userID] == nil {
		f.awarded[userID] = make(map[string]bool)
	}
	f.awarded[userID][badgeID] = true
	return nil
}

func (f *fakeBadgeRepo) UserBadges(userID string) ([]models.Badge, error) {
	var out []models.Badge
	for _, b := range f.catalog {
		if f.awarded[userID][b.ID] {
			out = append(out, b)
		}
	}
	return out, nil
}

func prFixture(users *fakeUserRepo, prs *fakePRRepo, badges *fakeBadgeRepo) *PRService {
	return NewPRService(prs, users, badges, logging.NewNop())
}

func TestTrackCreatesOpenPR(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: "u1", GithubUsername: "alice"})
	prs := newFakePRRepo()
	svc := prFixture(users, prs, newFakeBadgeRepo())

	pr, err := svc.Track(&models.PullRequest{
		UserID:    "u1",
		ProjectID: "p1",
		Title:     "Fix pagination",
		URL:       "https://github.com/dsc/aurora/pull/7",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pr.ID)
	assert.Equal(t, models.PRStateOpen, pr.State)
	assert.Nil(t, pr.MergedAt)
}

func TestTrackRejectsUnknownUser(t *testing.T) {
	svc := prFixture(newFakeUserRepo(), newFakePRRepo(), newFakeBadgeRepo())

	_, err := svc.Track(&models.PullRequest{
		UserID:    "ghost",
		ProjectID: "p1",
		URL:       "https://github.com/dsc/aurora/pull/1",
	})
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, CodeNotFound, svcErr.Code)
}

func TestMergeAwardsPointsOnce(t *testing.T) {
	user := &models.User{ID: "u1", GithubUsername: "alice"}
	users := newFakeUserRepo(user)
	prs := newFakePRRepo()
	svc := prFixture(users, prs, newFakeBadgeRepo())

	tracked, err := svc.Track(&models.PullRequest{
		UserID: "u1", ProjectID: "p1", URL: "https://github.com/dsc/aurora/pull/1",
	})
	require.NoError(t, err)

	merged, err := svc.Merge(tracked.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PRStateMerged, merged.State)
	require.NotNil(t, merged.MergedAt)
	assert.Equal(t, PointsPerMergedPR, user.Points)
	assert.Equal(t, 1, user.MergedPRs)

	// Merging again must not double-count.
	again, err := svc.Merge(tracked.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PRStateMerged, again.State)
	assert.Equal(t, PointsPerMergedPR, user.Points)
	assert.Equal(t, 1, user.MergedPRs)
}

func TestMergeAwardsThresholdBadges(t *testing.T) {
	user := &models.User{ID: "u1", GithubUsername: "alice"}
	users := newFakeUserRepo(user)
	prs := newFakePRRepo()
	badges := newFakeBadgeRepo()
	svc := prFixture(users, prs, badges)

	for i := 0; i < 5; i++ {
		tracked, err := svc.Track(&models.PullRequest{
			UserID: "u1", ProjectID: "p1",
			URL: fmt.Sprintf("https://github.com/dsc/aurora/pull/%d", i+1),
		})
		require.NoError(t, err)
		_, err = svc.Merge(tracked.ID)
		require.NoError(t, err)
	}

	earned, err := badges.UserBadges("u1")
	require.NoError(t, err)
	require.Len(t, earned, 2)
	assert.Equal(t, "first-contribution", earned[0].Slug)
	assert.Equal(t, "rising-star", earned[1].Slug)
}

func TestMergeUnknownPR(t *testing.T) {
	svc := prFixture(newFakeUserRepo(), newFakePRRepo(), newFakeBadgeRepo())

	_, err := svc.Merge("missing")
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, CodeNotFound, svcErr.Code)
}
