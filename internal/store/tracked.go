package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/universus/universus/internal/model"
)

// AddTrackedItem starts tracking an item on a world. Adding an item that is
// already tracked is a no-op.
func (s *Store) AddTrackedItem(ctx context.Context, itemID int, world string) error {
	now := nowUTC()
	_, err := s.execWrite(ctx, `
		INSERT INTO tracked_items (item_id, world, first_tracked, last_updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(item_id, world) DO NOTHING`,
		itemID, world, now, now,
	)
	if err != nil {
		return fmt.Errorf("store: add tracked item %d on %s: %w", itemID, world, err)
	}
	return nil
}

// RemoveTrackedItem stops tracking an item on a world. Tracked items are
// never removed implicitly; this is the only deletion path.
func (s *Store) RemoveTrackedItem(ctx context.Context, itemID int, world string) error {
	_, err := s.execWrite(ctx, `
		DELETE FROM tracked_items WHERE item_id = ? AND world = ?`,
		itemID, world,
	)
	if err != nil {
		return fmt.Errorf("store: remove tracked item %d on %s: %w", itemID, world, err)
	}
	return nil
}

// GetTrackedItems returns tracked items, most recently updated first.
// An empty world returns items across all worlds.
func (s *Store) GetTrackedItems(ctx context.Context, world string) ([]model.TrackedItem, error) {
	query := `
		SELECT ti.item_id, ti.world, COALESCE(it.name, ''), ti.first_tracked, ti.last_updated
		FROM tracked_items ti
		LEFT JOIN items it ON it.item_id = ti.item_id`
	args := []any{}
	if world != "" {
		query += ` WHERE ti.world = ?`
		args = append(args, world)
	}
	query += ` ORDER BY ti.last_updated DESC, ti.item_id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: get tracked items: %w", err)
	}
	defer rows.Close()

	var items []model.TrackedItem
	for rows.Next() {
		var (
			it                        model.TrackedItem
			firstTracked, lastUpdated string
		)
		if err := rows.Scan(&it.ItemID, &it.World, &it.Name, &firstTracked, &lastUpdated); err != nil {
			return nil, fmt.Errorf("store: scan tracked item: %w", err)
		}
		it.FirstTracked = parseTime(firstTracked)
		it.LastUpdated = parseTime(lastUpdated)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate tracked items: %w", err)
	}

	return items, nil
}

// TouchTrackedItem updates last_updated after a successful refresh.
func (s *Store) TouchTrackedItem(ctx context.Context, itemID int, world string) error {
	_, err := s.execWrite(ctx, `
		UPDATE tracked_items SET last_updated = ? WHERE item_id = ? AND world = ?`,
		nowUTC(), itemID, world,
	)
	if err != nil {
		return fmt.Errorf("store: touch tracked item %d on %s: %w", itemID, world, err)
	}
	return nil
}

// touchTrackedTx updates last_updated inside an existing transaction.
func touchTrackedTx(ctx context.Context, tx *sql.Tx, itemID int, world, now string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE tracked_items SET last_updated = ? WHERE item_id = ? AND world = ?`,
		now, itemID, world,
	)
	return err
}
