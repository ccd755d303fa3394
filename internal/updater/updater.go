package updater

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/universus/universus/internal/api"
	"github.com/universus/universus/internal/store"
)

// State describes where a refresh run is in its lifecycle.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// ErrAlreadyRunning is returned when RefreshAll is called while a run is in
// progress. One run at a time keeps the success/failure accounting coherent.
var ErrAlreadyRunning = errors.New("updater: refresh already running")

// ItemError records why a single item's refresh failed.
type ItemError struct {
	ItemID int
	World  string
	Err    error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("item %d on %s: %v", e.ItemID, e.World, e.Err)
}

// Result summarizes one refresh run. Success + Failed equals the number of
// tracked items processed; Errors holds one entry per failed item.
type Result struct {
	RunID    uuid.UUID
	World    string
	Success  int
	Failed   int
	Errors   []ItemError
	State    State
	Duration time.Duration
}

// Config holds updater settings.
type Config struct {
	BatchSize      int // Items per multi-item API request (default: 1, one request per item)
	WorkerCount    int // Concurrent batches in flight (default: 3)
	HistoryEntries int // Sales entries fetched per item (default: 100)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:      1,
		WorkerCount:    3,
		HistoryEntries: 100,
	}
}

// Updater refreshes market data for all tracked items on a world. Batches
// fan out to a bounded worker pool; the shared rate limiter inside the API
// client governs actual network admission, so worker count only bounds
// in-flight bookkeeping, never the outbound request rate.
type Updater struct {
	cfg    Config
	client *api.Client
	store  *store.Store
	logger *slog.Logger

	running atomic.Bool
	state   atomic.Int32
}

// New creates an Updater.
func New(cfg Config, client *api.Client, st *store.Store, logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}
	if cfg.HistoryEntries < 1 {
		cfg.HistoryEntries = 100
	}
	return &Updater{
		cfg:    cfg,
		client: client,
		store:  st,
		logger: logger,
	}
}

// State returns the current lifecycle state.
func (u *Updater) State() State {
	return State(u.state.Load())
}

// RefreshAll fetches current market data and sales history for every tracked
// item on world and writes the results through the store. A single item's
// failure is recorded and the run continues; only caller cancellation aborts
// the run. Snapshot upserts for the same (item, world, day) key are
// serialized by the store's write gate, last write wins.
func (u *Updater) RefreshAll(ctx context.Context, world string) (Result, error) {
	if !u.running.CompareAndSwap(false, true) {
		return Result{}, ErrAlreadyRunning
	}
	defer u.running.Store(false)
	u.state.Store(int32(StateRunning))

	start := time.Now()
	result := Result{
		RunID: uuid.New(),
		World: world,
	}

	tracked, err := u.store.GetTrackedItems(ctx, world)
	if err != nil {
		u.state.Store(int32(StateAborted))
		result.State = StateAborted
		return result, fmt.Errorf("list tracked items: %w", err)
	}
	if len(tracked) == 0 {
		u.state.Store(int32(StateCompleted))
		result.State = StateCompleted
		u.logger.Warn("no tracked items to refresh", "world", world)
		return result, nil
	}

	ids := make([]int, len(tracked))
	for i, item := range tracked {
		ids[i] = item.ItemID
	}
	batches := chunk(ids, u.cfg.BatchSize)

	u.logger.Info("refresh started",
		"run_id", result.RunID,
		"world", world,
		"items", len(ids),
		"batches", len(batches),
		"workers", u.cfg.WorkerCount,
	)

	// Semaphore for bounded concurrency, one slot per in-flight batch.
	sem := make(chan struct{}, u.cfg.WorkerCount)
	var wg sync.WaitGroup
	var success, failed atomic.Int64

	var errMu sync.Mutex
	var itemErrors []ItemError

	recordFailure := func(itemID int, err error) {
		failed.Add(1)
		errMu.Lock()
		itemErrors = append(itemErrors, ItemError{ItemID: itemID, World: world, Err: err})
		errMu.Unlock()
	}

	for _, batch := range batches {
		// Cancellation is cooperative: checked between batches, in-flight
		// requests complete or time out on their own.
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(batch []int) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			u.refreshBatch(ctx, world, batch, &success, recordFailure)
		}(batch)
	}

	wg.Wait()

	result.Success = int(success.Load())
	result.Failed = int(failed.Load())
	result.Errors = itemErrors
	result.Duration = time.Since(start)

	if ctx.Err() != nil {
		result.State = StateAborted
	} else {
		result.State = StateCompleted
	}
	u.state.Store(int32(result.State))

	u.logger.Info("refresh finished",
		"run_id", result.RunID,
		"world", world,
		"state", result.State,
		"success", result.Success,
		"failed", result.Failed,
		"duration", result.Duration,
	)

	return result, nil
}

// refreshBatch fetches one batch of items and writes results per item.
func (u *Updater) refreshBatch(
	ctx context.Context,
	world string,
	batch []int,
	success *atomic.Int64,
	recordFailure func(int, error),
) {
	data, err := u.client.GetMarketDataBatch(ctx, world, batch)
	if err != nil {
		// The whole batch shares one request, so its failure fails every
		// item in it. The run keeps going.
		u.logger.Warn("batch fetch failed", "world", world, "items", len(batch), "err", err)
		for _, id := range batch {
			recordFailure(id, err)
		}
		return
	}

	today := time.Now().UTC().Format("2006-01-02")

	for _, id := range batch {
		current, ok := data[id]
		if !ok {
			recordFailure(id, fmt.Errorf("no market data in response"))
			continue
		}

		if err := u.refreshItem(ctx, world, id, current, today); err != nil {
			u.logger.Warn("failed to refresh item", "item_id", id, "world", world, "err", err)
			recordFailure(id, err)
			continue
		}
		success.Add(1)
	}
}

// refreshItem persists the snapshot and recent sales for one item.
func (u *Updater) refreshItem(ctx context.Context, world string, itemID int, current *api.CurrentData, date string) error {
	snap := current.ToSnapshot(world, date)
	snap.ItemID = itemID
	if err := u.store.SaveSnapshot(ctx, snap); err != nil {
		return err
	}

	history, err := u.client.GetHistory(ctx, world, itemID, u.cfg.HistoryEntries)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}

	inserted, skipped, err := u.store.SaveSales(ctx, history.ToSales(itemID, world))
	if err != nil {
		return err
	}
	u.logger.Debug("item refreshed",
		"item_id", itemID,
		"world", world,
		"velocity", current.RegularSaleVelocity,
		"sales_new", inserted,
		"sales_dup", skipped,
	)
	return nil
}

// chunk splits ids into slices of at most size.
func chunk(ids []int, size int) [][]int {
	var batches [][]int
	for len(ids) > size {
		batches = append(batches, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		batches = append(batches, ids)
	}
	return batches
}
