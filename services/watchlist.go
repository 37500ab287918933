package services

import (
	"context"
	"errors"
	"log/slog"

	"Marquee/models"
	"Marquee/recommend"
)

type WatchlistService struct {
	users       UserStore
	movies      MovieStore
	recommender Recommender
}

func NewWatchlistService(users UserStore, movies MovieStore, recommender Recommender) *WatchlistService {
	return &WatchlistService{users: users, movies: movies, recommender: recommender}
}

// Watchlist returns the user's saved movies in the order they were added.
// Ids that are no longer in the catalog are skipped.
func (s *WatchlistService) Watchlist(ctx context.Context, userID int64) ([]models.Movie, error) {
	ids, err := s.users.GetWatchlist(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.movies.GetMoviesByIDs(ctx, ids)
}

func (s *WatchlistService) requireMovie(ctx context.Context, movieID int64) error {
	_, err := s.movies.GetMovie(ctx, movieID)
	return err
}

// Toggle adds the movie if absent and removes it if present, reporting
// membership afterwards.
func (s *WatchlistService) Toggle(ctx context.Context, userID, movieID int64) (bool, error) {
	if err := s.requireMovie(ctx, movieID); err != nil {
		return false, err
	}
	inWatchlist, err := s.users.ToggleWatchlist(ctx, userID, movieID)
	if err != nil {
		return false, err
	}
	slog.DebugContext(ctx, "Watchlist toggled", "user_id", userID, "movie_id", movieID, "in_watchlist", inWatchlist)
	return inWatchlist, nil
}

func (s *WatchlistService) Add(ctx context.Context, userID, movieID int64) error {
	if err := s.requireMovie(ctx, movieID); err != nil {
		return err
	}
	return s.users.AddToWatchlist(ctx, userID, movieID)
}

// Remove does not require the movie to still exist in the catalog.
func (s *WatchlistService) Remove(ctx context.Context, userID, movieID int64) error {
	return s.users.RemoveFromWatchlist(ctx, userID, movieID)
}

// Recommendations asks the recommendation service for titles related to the
// user's watchlist and resolves them against the catalog.
func (s *WatchlistService) Recommendations(ctx context.Context, userID int64, mode recommend.Mode) ([]models.Movie, error) {
	ids, err := s.users.GetWatchlist(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrEmptyWatchlist
	}

	recommended, err := s.recommender.Recommend(ctx, mode, ids)
	if err != nil {
		if errors.Is(err, recommend.ErrNoRecommendations) {
			return []models.Movie{}, nil
		}
		return nil, err
	}
	return s.movies.GetMoviesByIDs(ctx, recommended)
}
