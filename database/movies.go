package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"Marquee/models"

	"github.com/jackc/pgx/v5/pgtype"
)

const movieColumns = `id, title, poster_path, overview, release_date, vote_average, popularity, vote_count, genre_ids, category, last_updated`

// Every ordering ends on id so equal primary keys page deterministically.
var movieOrderBy = map[models.SortKey]string{
	models.SortPopularity: "popularity DESC, id ASC",
	models.SortRating:     "vote_average DESC, id ASC",
	models.SortDate:       "release_date DESC, id ASC",
	models.SortTitle:      "title ASC, id ASC",
}

type MovieRepository struct {
	db *sql.DB
}

func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner, types *pgtype.Map) (models.Movie, error) {
	var m models.Movie
	var posterPath sql.NullString
	var category string
	err := row.Scan(
		&m.ID,
		&m.Title,
		&posterPath,
		&m.Overview,
		&m.ReleaseDate,
		&m.VoteAverage,
		&m.Popularity,
		&m.VoteCount,
		types.SQLScanner(&m.GenreIDs),
		&category,
		&m.LastUpdated,
	)
	if err != nil {
		return m, err
	}
	if posterPath.Valid {
		p := posterPath.String
		m.PosterPath = &p
	}
	m.Category = models.Category(category)
	if m.GenreIDs == nil {
		m.GenreIDs = []int64{}
	}
	return m, nil
}

func (r *MovieRepository) queryMovies(ctx context.Context, query string, args ...any) ([]models.Movie, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := pgtype.NewMap()
	movies := []models.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows, types)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

func (r *MovieRepository) CountMovies(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}

// UpsertMovies writes each movie by id. Rows are independent: a failed row is
// logged and counted, the rest of the batch still commits. A search-derived
// write never replaces the category a listing endpoint assigned.
func (r *MovieRepository) UpsertMovies(ctx context.Context, movies []models.Movie) (models.UpsertResult, error) {
	var result models.UpsertResult
	if len(movies) == 0 {
		return result, nil
	}

	stmt, err := r.db.PrepareContext(ctx, `
		INSERT INTO movies (`+movieColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			poster_path = EXCLUDED.poster_path,
			overview = EXCLUDED.overview,
			release_date = EXCLUDED.release_date,
			vote_average = EXCLUDED.vote_average,
			popularity = EXCLUDED.popularity,
			vote_count = EXCLUDED.vote_count,
			genre_ids = EXCLUDED.genre_ids,
			category = CASE WHEN EXCLUDED.category = 'search' THEN movies.category ELSE EXCLUDED.category END,
			last_updated = EXCLUDED.last_updated
	`)
	if err != nil {
		return result, fmt.Errorf("failed to prepare movie upsert: %w", err)
	}
	defer stmt.Close()

	var lastErr error
	for _, m := range movies {
		var posterPath sql.NullString
		if m.PosterPath != nil {
			posterPath = sql.NullString{String: *m.PosterPath, Valid: true}
		}
		genreIDs := m.GenreIDs
		if genreIDs == nil {
			genreIDs = []int64{}
		}
		lastUpdated := m.LastUpdated
		if lastUpdated.IsZero() {
			lastUpdated = time.Now()
		}

		_, err := stmt.ExecContext(ctx,
			m.ID, m.Title, posterPath, m.Overview, m.ReleaseDate,
			m.VoteAverage, m.Popularity, m.VoteCount, genreIDs,
			string(m.Category), lastUpdated,
		)
		if err != nil {
			slog.Warn("Failed to upsert movie", "movie_id", m.ID, "error", err)
			result.Failed++
			lastErr = err
			continue
		}
		result.Upserted++
	}

	if result.Upserted == 0 {
		return result, fmt.Errorf("failed to upsert %d movies: %w", result.Failed, lastErr)
	}
	return result, nil
}

func (r *MovieRepository) ListMovies(ctx context.Context, q models.MovieListQuery) ([]models.Movie, int64, error) {
	where := ""
	args := []any{}
	if q.GenreID != nil {
		where = "WHERE $1 = ANY(genre_ids)"
		args = append(args, *q.GenreID)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}

	orderBy, ok := movieOrderBy[q.Sort]
	if !ok {
		orderBy = movieOrderBy[models.SortDate]
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM movies %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		movieColumns, where, orderBy, n+1, n+2)
	args = append(args, q.PageSize, q.Offset())

	movies, err := r.queryMovies(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, total, nil
}

// SearchMovies matches any of the query variants against title or overview,
// case-insensitively, most popular first.
func (r *MovieRepository) SearchMovies(ctx context.Context, variants []string, limit int) ([]models.Movie, error) {
	if len(variants) == 0 {
		return []models.Movie{}, nil
	}

	var conditions []string
	args := make([]any, 0, len(variants)+1)
	for i, variant := range variants {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR overview ILIKE $%d)", i+1, i+1))
		args = append(args, ContainsPattern(variant))
	}
	args = append(args, limit)

	query := fmt.Sprintf(`SELECT %s FROM movies WHERE %s ORDER BY popularity DESC, id ASC LIMIT $%d`,
		movieColumns, strings.Join(conditions, " OR "), len(args))

	movies, err := r.queryMovies(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	return movies, nil
}

// RankedCandidates returns every movie a ranked title search could score:
// the title contains the query's characters in order, or the overview
// contains the query. Prefix, word and substring title matches are all
// in-order matches, so this covers every scoring tier.
func (r *MovieRepository) RankedCandidates(ctx context.Context, query string) ([]models.Movie, error) {
	if query == "" {
		return []models.Movie{}, nil
	}
	movies, err := r.queryMovies(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE title ILIKE $1 OR overview ILIKE $2`,
		SubsequencePattern(query), ContainsPattern(query))
	if err != nil {
		return nil, fmt.Errorf("failed to load search candidates: %w", err)
	}
	return movies, nil
}

func (r *MovieRepository) GetMovie(ctx context.Context, id int64) (*models.Movie, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = $1`, id)
	m, err := scanMovie(row, pgtype.NewMap())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}
	return &m, nil
}

func (r *MovieRepository) GetMoviesByIDs(ctx context.Context, ids []int64) ([]models.Movie, error) {
	if len(ids) == 0 {
		return []models.Movie{}, nil
	}
	movies, err := r.queryMovies(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE id = ANY($1) ORDER BY array_position($1, id)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get movies by id: %w", err)
	}
	return movies, nil
}

// SimilarMovies samples movies sharing at least one genre with m.
func (r *MovieRepository) SimilarMovies(ctx context.Context, m models.Movie, limit int) ([]models.Movie, error) {
	if len(m.GenreIDs) == 0 {
		return []models.Movie{}, nil
	}
	movies, err := r.queryMovies(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE id <> $1 AND genre_ids && $2 ORDER BY random() LIMIT $3`,
		m.ID, m.GenreIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get similar movies: %w", err)
	}
	return movies, nil
}
