package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"Marquee/config"
	"Marquee/logger"
	"Marquee/metrics"
	"Marquee/models"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
)

// CategoryPlan is one upstream listing endpoint and how many pages of it a
// sync walks.
type CategoryPlan struct {
	Category models.Category
	Pages    int
}

var DefaultCategoryPlan = []CategoryPlan{
	{Category: models.CategoryUpcoming, Pages: 50},
	{Category: models.CategoryNowPlaying, Pages: 50},
	{Category: models.CategoryPopular, Pages: 100},
	{Category: models.CategoryTopRated, Pages: 100},
}

type SyncOptions struct {
	StaleAfter   time.Duration
	PageDelay    time.Duration
	FailureDelay time.Duration
	// MaxFailures is the number of failed pages a run tolerates. The next
	// failure aborts it.
	MaxFailures int
	Plan        []CategoryPlan
}

func SyncOptionsFromConfig(cfg *config.Config) SyncOptions {
	return SyncOptions{
		StaleAfter:   cfg.SyncStaleAfter,
		PageDelay:    cfg.SyncPageDelay,
		FailureDelay: cfg.SyncFailureDelay,
		MaxFailures:  cfg.SyncMaxFailures,
		Plan:         DefaultCategoryPlan,
	}
}

type SyncResult struct {
	Pages        int           `json:"pages"`
	PageFailures int           `json:"page_failures"`
	Upserted     int           `json:"upserted"`
	ItemFailures int           `json:"item_failures"`
	Duration     time.Duration `json:"duration"`
}

// Synchronizer keeps the local catalog in step with the upstream provider.
// Concurrent callers share a single in-flight run.
type Synchronizer struct {
	movies   MovieStore
	upstream Upstream
	opts     SyncOptions
	group    singleflight.Group

	base   context.Context
	cancel context.CancelFunc

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewSynchronizer(movies MovieStore, upstream Upstream, opts SyncOptions) *Synchronizer {
	if opts.Plan == nil {
		opts.Plan = DefaultCategoryPlan
	}
	base, cancel := context.WithCancel(context.Background())
	return &Synchronizer{
		movies:   movies,
		upstream: upstream,
		opts:     opts,
		base:     base,
		cancel:   cancel,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Close cancels any in-flight run.
func (s *Synchronizer) Close() {
	s.cancel()
}

// IsStale reports whether the catalog needs a sync: it is empty, no sync has
// ever completed, or the last completed sync is older than StaleAfter.
func (s *Synchronizer) IsStale(ctx context.Context) (bool, error) {
	count, err := s.movies.CountMovies(ctx)
	if err != nil {
		return false, err
	}
	if count == 0 {
		return true, nil
	}

	last, ok, err := s.movies.LastSyncedAt(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return s.now().Sub(last) > s.opts.StaleAfter, nil
}

// EnsureFresh runs a sync when the catalog is stale and blocks until it
// finishes.
func (s *Synchronizer) EnsureFresh(ctx context.Context) error {
	stale, err := s.IsStale(ctx)
	if err != nil {
		return fmt.Errorf("failed to check catalog freshness: %w", err)
	}
	if !stale {
		return nil
	}
	slog.InfoContext(ctx, "Catalog is stale, syncing before serving request")
	_, err = s.Sync(ctx)
	return err
}

// Sync walks every page of every planned category and upserts what it finds.
// A caller that arrives while a run is in flight joins that run. The run
// itself is not tied to any caller's cancellation; a caller that gives up
// gets ctx.Err() while the run carries on for the others.
func (s *Synchronizer) Sync(ctx context.Context) (SyncResult, error) {
	ch := s.group.DoChan("catalog", func() (any, error) {
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		defer cancel()
		stop := context.AfterFunc(s.base, cancel)
		defer stop()
		return s.run(runCtx)
	})

	select {
	case <-ctx.Done():
		return SyncResult{}, ctx.Err()
	case res := <-ch:
		result, _ := res.Val.(SyncResult)
		if res.Shared {
			slog.DebugContext(ctx, "Joined in-flight catalog sync")
		}
		return result, res.Err
	}
}

func (s *Synchronizer) newFailureBudget() *gobreaker.CircuitBreaker[int] {
	limit := s.opts.MaxFailures
	return gobreaker.NewCircuitBreaker[int](gobreaker.Settings{
		Name: "catalog-sync",
		// Interval 0 keeps counts for the whole run.
		Interval: 0,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.TotalFailures) > limit
		},
	})
}

func (s *Synchronizer) run(ctx context.Context) (SyncResult, error) {
	start := s.now()
	var result SyncResult
	seen := make(map[int64]struct{})
	budget := s.newFailureBudget()
	log := logger.With("component", "catalog-sync")

	log.Info("Starting catalog sync", "categories", len(s.opts.Plan), "max_failures", s.opts.MaxFailures)

	finish := func(outcome string) {
		result.Duration = s.now().Sub(start)
		metrics.SyncRuns.WithLabelValues(outcome).Inc()
		metrics.SyncDuration.Observe(result.Duration.Seconds())
	}

	for _, plan := range s.opts.Plan {
		for page := 1; page <= plan.Pages; page++ {
			if err := ctx.Err(); err != nil {
				finish("cancelled")
				return result, err
			}

			result.Pages++
			upserted, err := budget.Execute(func() (int, error) {
				return s.syncPage(ctx, plan.Category, page, seen, &result)
			})
			if err != nil {
				if ctx.Err() != nil {
					finish("cancelled")
					return result, ctx.Err()
				}

				result.PageFailures++
				metrics.SyncPages.WithLabelValues(string(plan.Category), "failed").Inc()
				log.Warn("Catalog page sync failed",
					"category", plan.Category,
					"page", page,
					"failures", result.PageFailures,
					"error", err)

				if budget.State() == gobreaker.StateOpen {
					finish("aborted")
					log.Error("Aborting catalog sync, too many failed pages",
						"failures", result.PageFailures,
						"upserted", result.Upserted)
					return result, fmt.Errorf("catalog sync aborted after %d failed pages: %w", result.PageFailures, err)
				}

				if err := s.sleep(ctx, s.opts.FailureDelay); err != nil {
					finish("cancelled")
					return result, err
				}
				continue
			}

			result.Upserted += upserted
			metrics.SyncPages.WithLabelValues(string(plan.Category), "ok").Inc()

			if err := s.sleep(ctx, s.opts.PageDelay); err != nil {
				finish("cancelled")
				return result, err
			}
		}
	}

	finish("completed")

	if result.Upserted > 0 {
		at := s.now()
		if err := s.movies.MarkSynced(ctx, at, result.Upserted); err != nil {
			return result, err
		}
		metrics.SyncLastSuccess.Set(float64(at.Unix()))
	}

	log.Info("Catalog sync complete",
		"pages", result.Pages,
		"upserted", result.Upserted,
		"page_failures", result.PageFailures,
		"item_failures", result.ItemFailures,
		"duration", result.Duration.Round(time.Millisecond))

	return result, nil
}

// syncPage fetches one listing page, drops titles this run already wrote,
// and upserts the rest.
func (s *Synchronizer) syncPage(ctx context.Context, category models.Category, page int, seen map[int64]struct{}, result *SyncResult) (int, error) {
	p, err := s.upstream.ListCategory(ctx, category, page)
	if err != nil {
		return 0, err
	}

	refreshedAt := s.now()
	var fresh []models.Movie
	for _, item := range p.Results {
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		fresh = append(fresh, item.ToMovie(category, refreshedAt))
	}

	if len(fresh) == 0 {
		return 0, nil
	}

	res, err := s.movies.UpsertMovies(ctx, fresh)
	result.ItemFailures += res.Failed
	metrics.SyncUpsertFailures.Add(float64(res.Failed))
	if err != nil {
		return 0, err
	}

	metrics.SyncMoviesUpserted.WithLabelValues(string(category)).Add(float64(res.Upserted))
	slog.Debug("Catalog page synced", "category", category, "page", page, "upserted", res.Upserted, "failed", res.Failed)
	return res.Upserted, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
