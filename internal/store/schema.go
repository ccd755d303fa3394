package store

import "fmt"

// Schema statements are idempotent: CREATE ... IF NOT EXISTS only, so Open
// can run them on every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS tracked_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id INTEGER NOT NULL,
		world TEXT NOT NULL,
		first_tracked TEXT NOT NULL,
		last_updated TEXT NOT NULL,
		UNIQUE(item_id, world)
	)`,

	`CREATE TABLE IF NOT EXISTS daily_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id INTEGER NOT NULL,
		world TEXT NOT NULL,
		snapshot_date TEXT NOT NULL,
		average_price REAL,
		min_price INTEGER,
		max_price INTEGER,
		sale_velocity REAL,
		nq_sale_velocity REAL,
		hq_sale_velocity REAL,
		total_listings INTEGER,
		last_upload_time INTEGER,
		UNIQUE(item_id, world, snapshot_date)
	)`,

	`CREATE TABLE IF NOT EXISTS sales_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id INTEGER NOT NULL,
		world TEXT NOT NULL,
		sale_time INTEGER NOT NULL,
		price_per_unit INTEGER NOT NULL,
		quantity INTEGER NOT NULL,
		is_hq INTEGER NOT NULL,
		buyer_name TEXT NOT NULL DEFAULT '',
		recorded_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS items (
		item_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		last_synced TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS ref_cache (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		refreshed_at TEXT NOT NULL
	)`,

	// The unique index is the duplicate-detection mechanism for sales:
	// an identical tuple observed twice (overlapping history fetches)
	// inserts once and the conflict is counted as a skip.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_sales_dedup
		ON sales_history(item_id, world, sale_time, price_per_unit, quantity, buyer_name)`,

	`CREATE INDEX IF NOT EXISTS idx_snapshots_date ON daily_snapshots(snapshot_date)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_time ON sales_history(sale_time)`,
	`CREATE INDEX IF NOT EXISTS idx_tracked_world ON tracked_items(world)`,
}

// initSchema creates tables and indexes if absent.
func (s *Store) initSchema() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}

	s.logger.Debug("schema initialized")
	return nil
}
