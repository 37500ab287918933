package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CatalogSyncName keys the catalog's row in sync_state.
const CatalogSyncName = "catalog"

// LastSyncedAt returns when the last complete catalog sync finished. ok is
// false when no sync has ever completed.
func (r *MovieRepository) LastSyncedAt(ctx context.Context) (time.Time, bool, error) {
	var at time.Time
	err := r.db.QueryRowContext(ctx,
		"SELECT last_synced_at FROM sync_state WHERE name = $1", CatalogSyncName,
	).Scan(&at)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to read sync state: %w", err)
	}
	return at, true, nil
}

func (r *MovieRepository) MarkSynced(ctx context.Context, at time.Time, upserted int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_state (name, last_synced_at, upserted)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET
			last_synced_at = EXCLUDED.last_synced_at,
			upserted = EXCLUDED.upserted
	`, CatalogSyncName, at, upserted)
	if err != nil {
		return fmt.Errorf("failed to record sync state: %w", err)
	}
	return nil
}
