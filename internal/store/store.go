package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store owns the local SQLite database for the process lifetime. All writes
// serialize through a single mutex; reads go straight to the pool, which is
// safe under WAL with a generous busy timeout.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger

	// writeMu is the write-exclusion gate. The embedded engine allows one
	// writer at a time; serializing here keeps concurrent batch runs and
	// UI refreshes from tripping over SQLITE_BUSY.
	writeMu sync.Mutex
}

// Option configures Open behaviour.
type Option func(*openConfig)

type openConfig struct {
	busyTimeout time.Duration
	logger      *slog.Logger
	mkdirAll    bool
}

// WithBusyTimeout sets the SQLite busy_timeout. Default: 10s. Legitimate
// concurrent writers wait their turn rather than failing fast.
func WithBusyTimeout(d time.Duration) Option {
	return func(c *openConfig) { c.busyTimeout = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *openConfig) { c.logger = logger }
}

// WithMkdirAll creates parent directories of the database path before opening.
func WithMkdirAll() Option {
	return func(c *openConfig) { c.mkdirAll = true }
}

// Open opens (or creates) the database at path, applies production pragmas,
// and initializes the schema. Safe to call on every startup: tables and
// indexes are created only if absent.
func Open(path string, opts ...Option) (*Store, error) {
	cfg := openConfig{
		busyTimeout: 10 * time.Second,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.mkdirAll && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	// Each connection to ":memory:" would create a separate database, so
	// pin the pool to one connection for the in-memory case.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout.Milliseconds()),
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}

	s := &Store{
		db:     db,
		path:   path,
		logger: cfg.logger,
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("store opened", "path", path)
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.logger.Debug("closing store", "path", s.path)
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// execWrite runs a mutating statement under the write gate.
func (s *Store) execWrite(ctx context.Context, query string, args ...any) (sql.Result, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.db.ExecContext(ctx, query, args...)
}

// writeTx runs fn inside a transaction under the write gate.
func (s *Store) writeTx(ctx context.Context, fn func(*sql.Tx) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// nowUTC returns the current time formatted for timestamp columns.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// parseTime parses a stored timestamp, returning the zero time on failure.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
