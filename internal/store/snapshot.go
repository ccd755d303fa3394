package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/universus/universus/internal/model"
)

// SaveSnapshot upserts a daily snapshot keyed on (item_id, world, date) and
// touches the tracked item's last_updated in the same transaction. A second
// write for the same day replaces the earlier values; the last write wins.
func (s *Store) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	now := nowUTC()
	err := s.writeTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO daily_snapshots (
				item_id, world, snapshot_date, average_price, min_price, max_price,
				sale_velocity, nq_sale_velocity, hq_sale_velocity, total_listings,
				last_upload_time
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(item_id, world, snapshot_date) DO UPDATE SET
				average_price = excluded.average_price,
				min_price = excluded.min_price,
				max_price = excluded.max_price,
				sale_velocity = excluded.sale_velocity,
				nq_sale_velocity = excluded.nq_sale_velocity,
				hq_sale_velocity = excluded.hq_sale_velocity,
				total_listings = excluded.total_listings,
				last_upload_time = excluded.last_upload_time`,
			snap.ItemID, snap.World, snap.Date, snap.AveragePrice, snap.MinPrice,
			snap.MaxPrice, snap.SaleVelocity, snap.NQSaleVelocity, snap.HQSaleVelocity,
			snap.TotalListings, snap.LastUploadTime,
		)
		if err != nil {
			return err
		}
		return touchTrackedTx(ctx, tx, snap.ItemID, snap.World, now)
	})
	if err != nil {
		return fmt.Errorf("store: save snapshot for item %d on %s: %w", snap.ItemID, snap.World, err)
	}
	return nil
}

// GetSnapshots returns snapshots for an item within the last days calendar
// days, newest first. The window counts dates including today: days = 1
// returns today's snapshot only.
func (s *Store) GetSnapshots(ctx context.Context, itemID int, world string, days int) ([]model.Snapshot, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -(days - 1)).Format("2006-01-02")

	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, world, snapshot_date, average_price, min_price, max_price,
		       sale_velocity, nq_sale_velocity, hq_sale_velocity, total_listings,
		       last_upload_time
		FROM daily_snapshots
		WHERE item_id = ? AND world = ? AND snapshot_date >= ?
		ORDER BY snapshot_date DESC`,
		itemID, world, cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("store: get snapshots for item %d on %s: %w", itemID, world, err)
	}
	defer rows.Close()

	var snaps []model.Snapshot
	for rows.Next() {
		var snap model.Snapshot
		if err := rows.Scan(
			&snap.ItemID, &snap.World, &snap.Date, &snap.AveragePrice, &snap.MinPrice,
			&snap.MaxPrice, &snap.SaleVelocity, &snap.NQSaleVelocity, &snap.HQSaleVelocity,
			&snap.TotalListings, &snap.LastUploadTime,
		); err != nil {
			return nil, fmt.Errorf("store: scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate snapshots: %w", err)
	}

	return snaps, nil
}

// GetTopVolumeItems ranks tracked items on a world by sale velocity, taken
// from each item's most recent snapshot. Ties break by ascending item ID so
// the ordering is deterministic.
func (s *Store) GetTopVolumeItems(ctx context.Context, world string, limit int) ([]model.TopItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ds.item_id,
		       COALESCE(it.name, ''),
		       ds.world,
		       ds.sale_velocity,
		       ds.average_price,
		       ds.snapshot_date,
		       ti.last_updated
		FROM daily_snapshots ds
		JOIN tracked_items ti
		  ON ds.item_id = ti.item_id AND ds.world = ti.world
		LEFT JOIN items it
		  ON it.item_id = ds.item_id
		WHERE ds.world = ?
		  AND ds.snapshot_date = (
			SELECT MAX(snapshot_date)
			FROM daily_snapshots ds2
			WHERE ds2.item_id = ds.item_id AND ds2.world = ds.world
		  )
		ORDER BY ds.sale_velocity DESC, ds.item_id ASC
		LIMIT ?`,
		world, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: get top volume items for %s: %w", world, err)
	}
	defer rows.Close()

	var items []model.TopItem
	for rows.Next() {
		var (
			item        model.TopItem
			lastUpdated string
		)
		if err := rows.Scan(
			&item.ItemID, &item.Name, &item.World, &item.SaleVelocity,
			&item.AveragePrice, &item.SnapshotDate, &lastUpdated,
		); err != nil {
			return nil, fmt.Errorf("store: scan top item: %w", err)
		}
		item.LastUpdated = parseTime(lastUpdated)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate top items: %w", err)
	}

	return items, nil
}
