package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SyncItems replaces the item-name table with the given mapping and returns
// the number of rows written. The table is rebuilt wholesale; a partial sync
// rolls back rather than leaving a mix of old and new names.
func (s *Store) SyncItems(ctx context.Context, names map[int]string) (int, error) {
	now := nowUTC()
	count := 0

	err := s.writeTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO items (item_id, name, last_synced) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for id, name := range names {
			if name == "" {
				continue
			}
			if _, err := stmt.ExecContext(ctx, id, name, now); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("store: sync items: %w", err)
	}

	s.logger.Info("synced item names", "count", count)
	return count, nil
}

// GetItemName returns the name for an item ID, or "" if unknown.
func (s *Store) GetItemName(ctx context.Context, itemID int) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM items WHERE item_id = ?`, itemID,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: get item name %d: %w", itemID, err)
	}
	return name, nil
}

// ItemCount returns the number of rows in the item-name table.
func (s *Store) ItemCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("store: count items: %w", err)
	}
	return count, nil
}
