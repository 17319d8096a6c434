package client

import (
	"context"
	"fmt"
	"net/url"

	"winter-of-code-backend/internal/models"
)

// Leaderboard fetches one leaderboard page. Results are cached per
// (page, limit, filter) with the stale-while-revalidate policy, so a
// repeat call within the fresh window makes no HTTP request and a call
// within the retention window returns the cached page while a refresh
// runs in the background.
func (c *Client) Leaderboard(ctx context.Context, page, limit int, filter string) (*models.LeaderboardPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if filter == "" {
		filter = models.FilterOverall
	}

	key := fmt.Sprintf("leaderboard:%d:%d:%s", page, limit, filter)
	value, err := c.cache.Get(ctx, key, func(ctx context.Context) (interface{}, error) {
		q := url.Values{}
		q.Set("page", fmt.Sprint(page))
		q.Set("limit", fmt.Sprint(limit))
		q.Set("filter", filter)

		var result models.LeaderboardPage
		if err := c.do(ctx, "GET", "/users/leaderboard?"+q.Encode(), nil, &result); err != nil {
			return nil, err
		}
		return &result, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.LeaderboardPage), nil
}

// InvalidateLeaderboard drops every cached leaderboard page, forcing the
// next lookup to hit the network.
func (c *Client) InvalidateLeaderboard() {
	c.cache.Clear()
}

// PodiumOrder rearranges the top entries of a page into the display
// order used for a podium: second place, first place, third place.
// Rank values on the entries are left untouched. Fewer than three
// entries are returned as-is.
func PodiumOrder(entries []models.LeaderboardEntry) []models.LeaderboardEntry {
	if len(entries) < 3 {
		return entries
	}
	podium := []models.LeaderboardEntry{entries[1], entries[0], entries[2]}
	return append(podium, entries[3:]...)
}
