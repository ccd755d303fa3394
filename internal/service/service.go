package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/universus/universus/internal/api"
	"github.com/universus/universus/internal/model"
	"github.com/universus/universus/internal/store"
)

// dataCentersCacheKey is the ref_cache key for the datacenter list.
const dataCentersCacheKey = "data-centers"

// Service implements the market data operations behind the CLI and the
// HTTP surface: seeding tracked items, reports, rankings, reference data.
type Service struct {
	store       *store.Store
	client      *api.Client
	logger      *slog.Logger
	cacheMaxAge time.Duration
}

// New creates a Service. cacheMaxAge bounds how long reference data (the
// datacenter list) is served from the local cache before a refetch.
func New(st *store.Store, client *api.Client, logger *slog.Logger, cacheMaxAge time.Duration) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:       st,
		client:      client,
		logger:      logger,
		cacheMaxAge: cacheMaxAge,
	}
}

// DataCenters returns the datacenter list, served from the local cache when
// fresh and refetched from the API once it goes stale.
func (s *Service) DataCenters(ctx context.Context) ([]model.DataCenter, error) {
	if payload, ok, err := s.store.GetCache(ctx, dataCentersCacheKey, s.cacheMaxAge); err == nil && ok {
		var cached []model.DataCenter
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
		// Undecodable cache entries fall through to a refetch and get
		// overwritten below.
		s.logger.Warn("discarding corrupt datacenter cache entry")
	} else if err != nil {
		return nil, err
	}

	fetched, err := s.client.GetDataCenters(ctx)
	if err != nil {
		return nil, err
	}

	dcs := make([]model.DataCenter, len(fetched))
	for i, dc := range fetched {
		dcs[i] = dc.ToModel()
	}

	if payload, err := json.Marshal(dcs); err == nil {
		if err := s.store.PutCache(ctx, dataCentersCacheKey, payload); err != nil {
			s.logger.Warn("failed to cache datacenter list", "err", err)
		}
	}

	return dcs, nil
}

// TrackItem starts tracking an item on a world.
func (s *Service) TrackItem(ctx context.Context, itemID int, world string) error {
	return s.store.AddTrackedItem(ctx, itemID, world)
}

// UntrackItem stops tracking an item on a world.
func (s *Service) UntrackItem(ctx context.Context, itemID int, world string) error {
	return s.store.RemoveTrackedItem(ctx, itemID, world)
}

// TrackedItems lists tracked items, optionally filtered by world.
func (s *Service) TrackedItems(ctx context.Context, world string) ([]model.TrackedItem, error) {
	return s.store.GetTrackedItems(ctx, world)
}

// TopItems returns the highest-velocity tracked items on a world, from each
// item's latest snapshot.
func (s *Service) TopItems(ctx context.Context, world string, limit int) ([]model.TopItem, error) {
	return s.store.GetTopVolumeItems(ctx, world, limit)
}

// ItemReport returns the snapshot history for an item over the last days
// calendar days, newest first, along with trends computed across the window.
func (s *Service) ItemReport(ctx context.Context, world string, itemID, days int) ([]model.Snapshot, model.Trends, error) {
	snaps, err := s.store.GetSnapshots(ctx, itemID, world, days)
	if err != nil {
		return nil, model.Trends{}, err
	}
	return snaps, CalculateTrends(snaps), nil
}

// SyncItems refreshes the item-name table from the community data dump and
// returns the number of names stored.
func (s *Service) SyncItems(ctx context.Context) (int, error) {
	names, err := s.client.GetItemNames(ctx)
	if err != nil {
		return 0, err
	}
	return s.store.SyncItems(ctx, names)
}

// CalculateTrends computes percent changes between the oldest and newest
// snapshot of a window. Snapshots arrive newest first. Fewer than two
// snapshots, or zero baselines, leave the corresponding field nil.
func CalculateTrends(snaps []model.Snapshot) model.Trends {
	var trends model.Trends
	if len(snaps) < 2 {
		return trends
	}

	latest, oldest := snaps[0], snaps[len(snaps)-1]

	if latest.SaleVelocity != 0 && oldest.SaleVelocity != 0 {
		change := (latest.SaleVelocity - oldest.SaleVelocity) / oldest.SaleVelocity * 100
		trends.VelocityChange = &change
	}
	if latest.AveragePrice != 0 && oldest.AveragePrice != 0 {
		change := (latest.AveragePrice - oldest.AveragePrice) / oldest.AveragePrice * 100
		trends.PriceChange = &change
	}

	return trends
}
