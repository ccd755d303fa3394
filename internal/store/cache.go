package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetCache returns the cached payload for key if it was refreshed within
// maxAge. A stale or missing entry returns ok = false; the stale payload is
// left in place until the caller overwrites it.
func (s *Store) GetCache(ctx context.Context, key string, maxAge time.Duration) ([]byte, bool, error) {
	var (
		payload     []byte
		refreshedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, refreshed_at FROM ref_cache WHERE key = ?`, key,
	).Scan(&payload, &refreshedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: get cache %q: %w", key, err)
	}

	if time.Since(parseTime(refreshedAt)) > maxAge {
		return nil, false, nil
	}
	return payload, true, nil
}

// PutCache overwrites the cached payload for key wholesale.
func (s *Store) PutCache(ctx context.Context, key string, payload []byte) error {
	_, err := s.execWrite(ctx, `
		INSERT INTO ref_cache (key, payload, refreshed_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			refreshed_at = excluded.refreshed_at`,
		key, payload, nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("store: put cache %q: %w", key, err)
	}
	return nil
}
