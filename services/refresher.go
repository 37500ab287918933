package services

import (
	"context"
	"fmt"
	"time"

	"Marquee/config"
	"Marquee/logger"
)

// DailyRefresher wakes once a day at a fixed wall-clock time and makes sure
// the catalog is fresh. It runs under a suture supervisor.
type DailyRefresher struct {
	freshness Freshness
	hour      int
	minute    int

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewDailyRefresher(cfg *config.Config, freshness Freshness) (*DailyRefresher, error) {
	hour, minute, err := config.ParseClock(cfg.SyncDailyAt)
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_DAILY_AT %q: %w", cfg.SyncDailyAt, err)
	}
	return &DailyRefresher{
		freshness: freshness,
		hour:      hour,
		minute:    minute,
		now:       time.Now,
		sleep:     sleepContext,
	}, nil
}

// nextRun returns the first HH:MM strictly after now, in now's location.
func (r *DailyRefresher) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), r.hour, r.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Serve implements suture.Service.
func (r *DailyRefresher) Serve(ctx context.Context) error {
	log := logger.With("component", "daily-refresher")
	log.Info("Starting daily catalog refresher", "at", fmt.Sprintf("%02d:%02d", r.hour, r.minute))

	for {
		now := r.now()
		next := r.nextRun(now)
		wait := next.Sub(now)

		log.Debug("Next catalog refresh scheduled", "next_time", next.Format(time.RFC3339), "sleep_duration", wait.Round(time.Second))

		if err := r.sleep(ctx, wait); err != nil {
			return err
		}

		log.Info("Running scheduled catalog refresh")
		if err := r.freshness.EnsureFresh(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error("Scheduled catalog refresh failed", "error", err)
			continue
		}
		log.Info("Scheduled catalog refresh complete")
	}
}

func (r *DailyRefresher) String() string {
	return "daily-refresher"
}
