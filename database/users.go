package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Marquee/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const userColumns = `id, username, email, password_hash, watchlist, created_at, updated_at`

const uniqueViolation = "23505"

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		pgtype.NewMap().SQLScanner(&user.Watchlist),
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if user.Watchlist == nil {
		user.Watchlist = []int64{}
	}
	return &user, nil
}

func (r *UserRepository) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, "id = $1", id)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, "email = $1", email)
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username = $1 OR email = $2", username, email,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing user: %w", err)
	}
	return count > 0, nil
}

// CreateUser inserts a new account. A username or email collision returns
// models.ErrDuplicate.
func (r *UserRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING "+userColumns,
		username, email, passwordHash,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, models.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) updateWatchlist(ctx context.Context, userID int64, expr string, movieID int64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET watchlist = "+expr+", updated_at = CURRENT_TIMESTAMP WHERE id = $1",
		userID, movieID)
	if err != nil {
		return fmt.Errorf("failed to update watchlist: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update watchlist: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UserRepository) AddToWatchlist(ctx context.Context, userID, movieID int64) error {
	return r.updateWatchlist(ctx, userID,
		"CASE WHEN $2::bigint = ANY(watchlist) THEN watchlist ELSE array_append(watchlist, $2::bigint) END",
		movieID)
}

func (r *UserRepository) RemoveFromWatchlist(ctx context.Context, userID, movieID int64) error {
	return r.updateWatchlist(ctx, userID, "array_remove(watchlist, $2::bigint)", movieID)
}

// ToggleWatchlist flips membership in one statement and reports whether the
// movie is in the watchlist afterwards.
func (r *UserRepository) ToggleWatchlist(ctx context.Context, userID, movieID int64) (bool, error) {
	var inWatchlist bool
	err := r.db.QueryRowContext(ctx, `
		UPDATE users SET
			watchlist = CASE
				WHEN $2::bigint = ANY(watchlist) THEN array_remove(watchlist, $2::bigint)
				ELSE array_append(watchlist, $2::bigint)
			END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING $2::bigint = ANY(watchlist)
	`, userID, movieID).Scan(&inWatchlist)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, models.ErrNotFound
		}
		return false, fmt.Errorf("failed to toggle watchlist: %w", err)
	}
	return inWatchlist, nil
}

func (r *UserRepository) GetWatchlist(ctx context.Context, userID int64) ([]int64, error) {
	user, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Watchlist, nil
}
