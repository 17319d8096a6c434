package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/swr"
)

func leaderboardFixture(total int) *models.LeaderboardPage {
	entries := make([]models.LeaderboardEntry, 0, total)
	for i := 0; i < total; i++ {
		entries = append(entries, models.LeaderboardEntry{
			Rank:           i + 1,
			ID:             "user",
			GithubUsername: "contributor",
			Stats:          models.EntryStats{Points: 100 - i},
		})
	}
	return &models.LeaderboardPage{
		Data:       entries,
		Pagination: models.Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: total},
	}
}

func TestClientOmitsAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(leaderboardFixture(1))
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL))
	_, err := c.Leaderboard(context.Background(), 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, "", gotAuth.Load(), "no token store means no Authorization header")
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(leaderboardFixture(1))
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL), WithTokenStore(StaticToken("session-token")))
	_, err := c.Leaderboard(context.Background(), 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer session-token", gotAuth.Load())
}

func TestClientDistinguishesApiErrorFromNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(models.ErrorResponse{
			Error: models.ErrorDetail{Code: "FORBIDDEN", Message: "admin only"},
		})
	}))

	c := New(WithBaseURL(server.URL))
	_, err := c.ImportProjects(context.Background(), "project_name,github_url\n", false)
	var apiErr *ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "FORBIDDEN", apiErr.Code)
	assert.Equal(t, "admin only", apiErr.Message)

	// Same call against a dead server must fail differently.
	server.Close()
	_, err = c.ImportProjects(context.Background(), "project_name,github_url\n", false)
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestLeaderboardServedFromCacheWithinFreshWindow(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		assert.Equal(t, "/users/leaderboard", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "overall", r.URL.Query().Get("filter"))
		json.NewEncoder(w).Encode(leaderboardFixture(3))
	}))
	defer server.Close()

	mock := clock.NewMock()
	c := New(WithBaseURL(server.URL), WithCacheOptions(swr.Options{Clock: mock}))

	for i := 0; i < 3; i++ {
		page, err := c.Leaderboard(context.Background(), 2, 10, models.FilterOverall)
		require.NoError(t, err)
		assert.Len(t, page.Data, 3)
	}
	assert.EqualValues(t, 1, atomic.LoadInt64(&hits), "fresh window must serve from cache")

	// A different page is a different cache key.
	_, err := c.Leaderboard(context.Background(), 3, 10, models.FilterOverall)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt64(&hits))

	// Invalidation forces the next lookup back onto the network.
	c.InvalidateLeaderboard()
	_, err = c.Leaderboard(context.Background(), 2, 10, models.FilterOverall)
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt64(&hits))
}

func TestLeaderboardRevalidatesAfterFreshWindow(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&hits, 1)
		json.NewEncoder(w).Encode(leaderboardFixture(int(n)))
	}))
	defer server.Close()

	mock := clock.NewMock()
	c := New(WithBaseURL(server.URL), WithCacheOptions(swr.Options{Clock: mock}))

	page, err := c.Leaderboard(context.Background(), 1, 10, models.FilterOverall)
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)

	mock.Add(6 * time.Minute)

	// Stale window: the cached page comes back immediately while the
	// refresh runs behind it.
	page, err = c.Leaderboard(context.Background(), 1, 10, models.FilterOverall)
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&hits) == 2
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		page, err := c.Leaderboard(context.Background(), 1, 10, models.FilterOverall)
		return err == nil && len(page.Data) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestImportProjectsPostsCSV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/import/projects", r.URL.Path)

		var req models.CsvImportRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Overwrite)
		assert.Contains(t, req.CsvData, "project_name")

		json.NewEncoder(w).Encode(models.CsvImportResult{
			Total: 2, Created: 1, Updated: 1,
			Errors: []models.CsvRowError{},
		})
	}))
	defer server.Close()

	c := New(WithBaseURL(server.URL))
	result, err := c.ImportProjects(context.Background(), "project_name,github_url\nA,u1\nB,u2\n", true)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
}

func TestFormatRowErrorsCapsAtFive(t *testing.T) {
	assert.Equal(t, "", FormatRowErrors(nil))

	errs := []models.CsvRowError{
		{Row: 1, Error: "a"},
		{Row: 2, Error: "b"},
	}
	assert.Equal(t, "row 1: a\nrow 2: b", FormatRowErrors(errs))

	errs = nil
	for i := 1; i <= 8; i++ {
		errs = append(errs, models.CsvRowError{Row: i, Error: "bad"})
	}
	out := FormatRowErrors(errs)
	assert.Contains(t, out, "row 5: bad")
	assert.NotContains(t, out, "row 6: bad")
	assert.Contains(t, out, "+3 more")
}

func TestPodiumOrderSwapsTopTwo(t *testing.T) {
	entries := leaderboardFixture(5).Data

	podium := PodiumOrder(entries)
	require.Len(t, podium, 5)
	assert.Equal(t, 2, podium[0].Rank)
	assert.Equal(t, 1, podium[1].Rank)
	assert.Equal(t, 3, podium[2].Rank)
	assert.Equal(t, 4, podium[3].Rank)

	// Short lists are left alone.
	two := leaderboardFixture(2).Data
	assert.Equal(t, two, PodiumOrder(two))
}
