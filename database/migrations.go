package database

import (
	"context"
	"database/sql"
	"fmt"
)

func RunMigrations(ctx context.Context, db *sql.DB) error {
	usersTableSQL := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		watchlist BIGINT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.ExecContext(ctx, usersTableSQL); err != nil {
		return fmt.Errorf("failed to run users migration: %w", err)
	}

	moviesTableSQL := `
	CREATE TABLE IF NOT EXISTS movies (
		id BIGINT PRIMARY KEY,
		title TEXT NOT NULL,
		poster_path TEXT,
		overview TEXT NOT NULL DEFAULT '',
		release_date VARCHAR(10) NOT NULL DEFAULT '',
		vote_average DOUBLE PRECISION NOT NULL DEFAULT 0,
		popularity DOUBLE PRECISION NOT NULL DEFAULT 0,
		vote_count BIGINT NOT NULL DEFAULT 0,
		genre_ids BIGINT[] NOT NULL DEFAULT '{}',
		category VARCHAR(20) NOT NULL DEFAULT 'search',
		last_updated TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_movies_genre_ids ON movies USING GIN (genre_ids);
	CREATE INDEX IF NOT EXISTS idx_movies_popularity ON movies (popularity DESC, id);
	CREATE INDEX IF NOT EXISTS idx_movies_release_date ON movies (release_date DESC, id);
	CREATE INDEX IF NOT EXISTS idx_movies_last_updated ON movies (last_updated DESC);
	`
	if _, err := db.ExecContext(ctx, moviesTableSQL); err != nil {
		return fmt.Errorf("failed to run movies migration: %w", err)
	}

	syncStateSQL := `
	CREATE TABLE IF NOT EXISTS sync_state (
		name VARCHAR(50) PRIMARY KEY,
		last_synced_at TIMESTAMPTZ NOT NULL,
		upserted INTEGER NOT NULL DEFAULT 0
	);
	`
	if _, err := db.ExecContext(ctx, syncStateSQL); err != nil {
		return fmt.Errorf("failed to run sync_state migration: %w", err)
	}

	return nil
}
