package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog sync
	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_sync_runs_total",
			Help: "Catalog sync runs by outcome (completed, aborted, cancelled)",
		},
		[]string{"outcome"},
	)

	SyncPages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_sync_pages_total",
			Help: "Upstream listing pages processed by category and outcome",
		},
		[]string{"category", "outcome"},
	)

	SyncMoviesUpserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_sync_movies_upserted_total",
			Help: "Movies written to the catalog by source category",
		},
		[]string{"category"},
	)

	SyncUpsertFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_sync_upsert_failures_total",
			Help: "Individual movie upserts that failed",
		},
	)

	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "marquee_sync_duration_seconds",
			Help:    "Wall-clock duration of catalog sync runs",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_sync_last_success_timestamp_seconds",
			Help: "Unix time of the last completed catalog sync",
		},
	)

	SearchBackfills = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_search_backfills_total",
			Help: "Upstream search backfills by outcome",
		},
		[]string{"outcome"},
	)

	// HTTP API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_api_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_api_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
