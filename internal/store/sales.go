package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/universus/universus/internal/model"
)

// SaveSales appends sales history entries, dropping duplicates. A row is a
// duplicate when (item_id, world, sale_time, price_per_unit, quantity,
// buyer_name) already exists; the unique index enforces this and the
// conflict is counted, not raised. Returns (inserted, skipped).
func (s *Store) SaveSales(ctx context.Context, sales []model.Sale) (int, int, error) {
	if len(sales) == 0 {
		return 0, 0, nil
	}

	now := nowUTC()
	inserted := 0

	err := s.writeTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO sales_history (
				item_id, world, sale_time, price_per_unit, quantity, is_hq,
				buyer_name, recorded_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(item_id, world, sale_time, price_per_unit, quantity, buyer_name)
			DO NOTHING`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, sale := range sales {
			res, err := stmt.ExecContext(ctx,
				sale.ItemID, sale.World, sale.SaleTime, sale.PricePerUnit,
				sale.Quantity, sale.HQ, sale.BuyerName, now,
			)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("store: save sales: %w", err)
	}

	skipped := len(sales) - inserted
	if skipped > 0 {
		s.logger.Debug("skipped duplicate sales", "inserted", inserted, "skipped", skipped)
	}
	return inserted, skipped, nil
}

// GetSales returns recorded sales for an item, newest first, up to limit.
func (s *Store) GetSales(ctx context.Context, itemID int, world string, limit int) ([]model.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, world, sale_time, price_per_unit, quantity, is_hq, buyer_name
		FROM sales_history
		WHERE item_id = ? AND world = ?
		ORDER BY sale_time DESC
		LIMIT ?`,
		itemID, world, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: get sales for item %d on %s: %w", itemID, world, err)
	}
	defer rows.Close()

	var sales []model.Sale
	for rows.Next() {
		var sale model.Sale
		if err := rows.Scan(
			&sale.ItemID, &sale.World, &sale.SaleTime, &sale.PricePerUnit,
			&sale.Quantity, &sale.HQ, &sale.BuyerName,
		); err != nil {
			return nil, fmt.Errorf("store: scan sale: %w", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate sales: %w", err)
	}

	return sales, nil
}
