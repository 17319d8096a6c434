package handlers

import (
	"net/http"

	"winter-of-code-backend/internal/logging"
	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/service"
)

// LeaderboardHandler serves GET /users/leaderboard.
type LeaderboardHandler struct {
	leaderboard *service.LeaderboardService
	log         logging.Logger
}

// NewLeaderboardHandler returns a LeaderboardHandler bound to the given
// service.
func NewLeaderboardHandler(leaderboard *service.LeaderboardService, log logging.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboard: leaderboard,
		log:         log,
	}
}

// Get returns one ranked page. page defaults to 1, limit to 10, filter to
// overall.
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)
	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = models.FilterOverall
	}

	result, err := h.leaderboard.GetLeaderboard(page, limit, filter)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
