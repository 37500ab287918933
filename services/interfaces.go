package services

import (
	"context"
	"time"

	"Marquee/models"
	"Marquee/recommend"
	"Marquee/tmdb"
)

// MovieStore is the catalog persistence the services need.
type MovieStore interface {
	CountMovies(ctx context.Context) (int64, error)
	UpsertMovies(ctx context.Context, movies []models.Movie) (models.UpsertResult, error)
	ListMovies(ctx context.Context, q models.MovieListQuery) ([]models.Movie, int64, error)
	SearchMovies(ctx context.Context, variants []string, limit int) ([]models.Movie, error)
	RankedCandidates(ctx context.Context, query string) ([]models.Movie, error)
	GetMovie(ctx context.Context, id int64) (*models.Movie, error)
	GetMoviesByIDs(ctx context.Context, ids []int64) ([]models.Movie, error)
	SimilarMovies(ctx context.Context, m models.Movie, limit int) ([]models.Movie, error)
	LastSyncedAt(ctx context.Context) (time.Time, bool, error)
	MarkSynced(ctx context.Context, at time.Time, upserted int) error
}

type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	AddToWatchlist(ctx context.Context, userID, movieID int64) error
	RemoveFromWatchlist(ctx context.Context, userID, movieID int64) error
	ToggleWatchlist(ctx context.Context, userID, movieID int64) (bool, error)
	GetWatchlist(ctx context.Context, userID int64) ([]int64, error)
}

// Upstream is the movie metadata provider.
type Upstream interface {
	ListCategory(ctx context.Context, category models.Category, page int) (*tmdb.Page, error)
	SearchMovies(ctx context.Context, query string) (*tmdb.Page, error)
}

type Recommender interface {
	Recommend(ctx context.Context, mode recommend.Mode, movieIDs []int64) ([]int64, error)
}

// Freshness is the part of the synchronizer request paths depend on.
type Freshness interface {
	IsStale(ctx context.Context) (bool, error)
	EnsureFresh(ctx context.Context) error
}
