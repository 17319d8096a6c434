package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"

	"winter-of-code-backend/internal/service"
)

// LaunchGate enforces the leaderboard reveal time on the server. The
// client may render its own countdown, but access control lives here: any
// request before the launch timestamp gets a 403 carrying the remaining
// seconds, regardless of what the client clock says.
type LaunchGate struct {
	launchAt time.Time
	clock    clock.Clock
}

// NewLaunchGate builds a gate opening at launchAt. The zero time means the
// gate is always open. The clock is injectable for tests.
func NewLaunchGate(launchAt time.Time, clk clock.Clock) *LaunchGate {
	if clk == nil {
		clk = clock.New()
	}
	return &LaunchGate{
		launchAt: launchAt,
		clock:    clk,
	}
}

// Wrap gates the handler behind the launch timestamp.
func (g *LaunchGate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.launchAt.IsZero() || !g.clock.Now().Before(g.launchAt) {
			next.ServeHTTP(w, r)
			return
		}

		remaining := int(g.launchAt.Sub(g.clock.Now()).Seconds())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"code":    service.CodeLaunchGated,
				"message": "the leaderboard has not launched yet",
			},
			"secondsRemaining": remaining,
		})
	})
}
