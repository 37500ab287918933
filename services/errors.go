package services

import (
	"errors"

	"Marquee/models"
)

var (
	ErrNotFound           = models.ErrNotFound
	ErrUserExists         = errors.New("username or email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyWatchlist     = errors.New("watchlist is empty")
	ErrEmptyQuery         = errors.New("search query is required")
)

// ValidationError carries a message that is safe to show to the client.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
