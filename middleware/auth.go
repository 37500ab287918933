package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"Marquee/models"
	"Marquee/services"

	"github.com/goccy/go-json"
)

type userKey struct{}

// UserLookup resolves the user a session points at.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

func unauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	slog.DebugContext(r.Context(), "Rejecting unauthenticated request", "path", r.URL.Path, "reason", reason)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}

// RequireAuth rejects requests without a session for an existing user and
// puts that user in the request context.
func RequireAuth(users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := services.SessionUserID(r)
			if err != nil {
				unauthorized(w, r, "no session")
				return
			}

			// Verify user still exists
			user, err := users.GetUserByID(r.Context(), userID)
			if errors.Is(err, models.ErrNotFound) {
				unauthorized(w, r, "user not found")
				return
			}
			if err != nil {
				slog.ErrorContext(r.Context(), "Failed to load session user", "user_id", userID, "error", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "Internal server error"})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// UserFromContext returns the user RequireAuth attached to ctx.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey{}).(*models.User)
	return user, ok
}

// WithUser attaches user to ctx the way RequireAuth does.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}
