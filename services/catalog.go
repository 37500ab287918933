package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"Marquee/metrics"
	"Marquee/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	searchLimit       = 20
	rankedSearchLimit = 10
	similarLimit      = 5

	// A local search with fewer hits than this asks upstream for more when
	// the catalog is stale.
	backfillThreshold = 5
)

// CatalogService answers read queries over the local catalog.
type CatalogService struct {
	movies    MovieStore
	upstream  Upstream
	freshness Freshness
	now       func() time.Time
}

func NewCatalogService(movies MovieStore, upstream Upstream, freshness Freshness) *CatalogService {
	return &CatalogService{
		movies:    movies,
		upstream:  upstream,
		freshness: freshness,
		now:       time.Now,
	}
}

// List returns one page of the catalog. A stale catalog is synced first.
func (s *CatalogService) List(ctx context.Context, q models.MovieListQuery) (*models.MovieListResult, error) {
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	// Keeps the row offset from overflowing.
	q.Page = max(1, min(q.Page, math.MaxInt32/q.PageSize))
	q.Sort = models.ParseSortKey(string(q.Sort))

	if err := s.freshness.EnsureFresh(ctx); err != nil {
		return nil, fmt.Errorf("failed to refresh catalog: %w", err)
	}

	movies, total, err := s.movies.ListMovies(ctx, q)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	return &models.MovieListResult{
		Movies:      movies,
		Total:       total,
		HasMore:     total > int64(q.Offset()+q.PageSize),
		CurrentPage: q.Page,
		TotalPages:  totalPages,
	}, nil
}

// Search matches the query against titles and overviews. When the local
// catalog has few hits and is stale, upstream search results are folded in
// before answering.
func (s *CatalogService) Search(ctx context.Context, query string) ([]models.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	variants := ExpandSearchQuery(query)

	movies, err := s.movies.SearchMovies(ctx, variants, searchLimit)
	if err != nil {
		return nil, err
	}
	if len(movies) >= backfillThreshold {
		return movies, nil
	}

	stale, err := s.freshness.IsStale(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Could not check catalog freshness for search", "error", err)
		return movies, nil
	}
	if !stale {
		return movies, nil
	}

	if !s.backfill(ctx, query) {
		return movies, nil
	}
	return s.movies.SearchMovies(ctx, variants, searchLimit)
}

// backfill copies upstream search results into the catalog. It reports
// whether anything was written.
func (s *CatalogService) backfill(ctx context.Context, query string) bool {
	page, err := s.upstream.SearchMovies(ctx, query)
	if err != nil {
		metrics.SearchBackfills.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "Upstream search failed", "query", query, "error", err)
		return false
	}
	if len(page.Results) == 0 {
		metrics.SearchBackfills.WithLabelValues("empty").Inc()
		return false
	}

	refreshedAt := s.now()
	movies := make([]models.Movie, 0, len(page.Results))
	for _, item := range page.Results {
		movies = append(movies, item.ToMovie(models.CategorySearch, refreshedAt))
	}

	res, err := s.movies.UpsertMovies(ctx, movies)
	if err != nil {
		metrics.SearchBackfills.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "Failed to store upstream search results", "query", query, "error", err)
		return false
	}

	metrics.SearchBackfills.WithLabelValues("ok").Inc()
	slog.InfoContext(ctx, "Backfilled search results from upstream",
		"query", query, "upserted", res.Upserted, "failed", res.Failed)
	return true
}

// RankedSearch returns the best title matches for query, most relevant first.
func (s *CatalogService) RankedSearch(ctx context.Context, query string) ([]RankedMovie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	candidates, err := s.movies.RankedCandidates(ctx, query)
	if err != nil {
		return nil, err
	}
	return RankMovies(candidates, query, rankedSearchLimit), nil
}

func (s *CatalogService) GetMovie(ctx context.Context, id int64) (*models.Movie, error) {
	return s.movies.GetMovie(ctx, id)
}

// Similar samples a few other movies sharing a genre with the given one.
func (s *CatalogService) Similar(ctx context.Context, id int64) ([]models.Movie, error) {
	movie, err := s.movies.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.movies.SimilarMovies(ctx, *movie, similarLimit)
}

func (s *CatalogService) Genres() []models.Genre {
	return models.Genres
}
