// Package jobs runs the in-process scheduled work: the weekly points
// snapshot that backs the weekly leaderboard filter and the cache sweep.
package jobs

import (
	"github.com/robfig/cron/v3"

	"winter-of-code-backend/internal/logging"
	"winter-of-code-backend/internal/repository"
	"winter-of-code-backend/internal/swr"
)

// Scheduler owns the cron instance.
type Scheduler struct {
	cron *cron.Cron
	log  logging.Logger
}

// New builds the scheduler and registers the jobs. weeklySpec is a cron
// expression for the weekly baseline snapshot.
func New(weeklySpec string, users repository.UserRepository, cache *swr.Cache, log logging.Logger) (*Scheduler, error) {
	c := cron.New()

	_, err := c.AddFunc(weeklySpec, func() {
		if err := users.SnapshotWeeklyBaselines(); err != nil {
			log.Errorf("weekly baseline snapshot failed: %v", err)
			return
		}
		log.Infof("weekly baseline snapshot taken")
	})
	if err != nil {
		return nil, err
	}

	// Sweep retained-but-expired cache entries so idle keys do not pile up.
	if _, err := c.AddFunc("@every 10m", func() {
		if dropped := cache.Sweep(); dropped > 0 {
			log.Debugf("cache sweep dropped %d entries", dropped)
		}
	}); err != nil {
		return nil, err
	}

	return &Scheduler{cron: c, log: log}, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling; running jobs finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
