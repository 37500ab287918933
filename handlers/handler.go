package handlers

import (
	"context"

	"Marquee/models"
	"Marquee/recommend"
	"Marquee/services"
)

type Catalog interface {
	List(ctx context.Context, q models.MovieListQuery) (*models.MovieListResult, error)
	Search(ctx context.Context, query string) ([]models.Movie, error)
	RankedSearch(ctx context.Context, query string) ([]services.RankedMovie, error)
	GetMovie(ctx context.Context, id int64) (*models.Movie, error)
	Similar(ctx context.Context, id int64) ([]models.Movie, error)
	Genres() []models.Genre
}

type Accounts interface {
	Register(ctx context.Context, req services.RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, req services.LoginRequest) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

type Watchlists interface {
	Watchlist(ctx context.Context, userID int64) ([]models.Movie, error)
	Toggle(ctx context.Context, userID, movieID int64) (bool, error)
	Add(ctx context.Context, userID, movieID int64) error
	Remove(ctx context.Context, userID, movieID int64) error
	Recommendations(ctx context.Context, userID int64, mode recommend.Mode) ([]models.Movie, error)
}

type Syncer interface {
	EnsureFresh(ctx context.Context) error
	Sync(ctx context.Context) (services.SyncResult, error)
}

// Handler serves the JSON API.
type Handler struct {
	catalog   Catalog
	accounts  Accounts
	watchlist Watchlists
	syncer    Syncer
	admins    map[int64]struct{}
}

func New(catalog Catalog, accounts Accounts, watchlist Watchlists, syncer Syncer) *Handler {
	return &Handler{
		catalog:   catalog,
		accounts:  accounts,
		watchlist: watchlist,
		syncer:    syncer,
		admins:    map[int64]struct{}{},
	}
}

// WithAdmins lists the users allowed to force a full catalog sync.
func (h *Handler) WithAdmins(ids []int64) *Handler {
	for _, id := range ids {
		h.admins[id] = struct{}{}
	}
	return h
}

func (h *Handler) isAdmin(userID int64) bool {
	_, ok := h.admins[userID]
	return ok
}
