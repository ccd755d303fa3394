package service

import (
	"context"
	"fmt"
	"sort"
)

// RankedItem is a candidate item ranked by sale velocity during tracking
// initialization.
type RankedItem struct {
	ItemID       int
	SaleVelocity float64
	AveragePrice float64
}

// InitResult summarizes an InitializeTracking run.
type InitResult struct {
	TopItems   []RankedItem // Highest-velocity items now tracked, best first
	TotalFound int          // Items the recently-updated feed returned
	WithSales  int          // Items that had a nonzero sale velocity
}

// InitializeTracking seeds the tracked set for a world from the upstream
// recently-updated feed. Each candidate's market data is fetched to read its
// sale velocity; only items that actually sell are tracked. Items whose
// fetch fails are skipped, not fatal.
func (s *Service) InitializeTracking(ctx context.Context, world string, limit int) (InitResult, error) {
	s.logger.Info("initializing tracking", "world", world, "limit", limit)

	recent, err := s.client.GetMostRecentlyUpdated(ctx, world, limit)
	if err != nil {
		return InitResult{}, fmt.Errorf("fetch recently updated items: %w", err)
	}
	if len(recent.Items) == 0 {
		s.logger.Warn("no recently updated items found", "world", world)
		return InitResult{}, nil
	}

	result := InitResult{TotalFound: len(recent.Items)}
	var ranked []RankedItem

	for _, entry := range recent.Items {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if entry.ItemID == 0 {
			continue
		}

		data, err := s.client.GetMarketData(ctx, world, entry.ItemID)
		if err != nil {
			s.logger.Debug("skipping candidate item", "item_id", entry.ItemID, "err", err)
			continue
		}
		if data.RegularSaleVelocity <= 0 {
			continue
		}

		if err := s.store.AddTrackedItem(ctx, entry.ItemID, world); err != nil {
			return result, err
		}
		ranked = append(ranked, RankedItem{
			ItemID:       entry.ItemID,
			SaleVelocity: data.RegularSaleVelocity,
			AveragePrice: data.AveragePrice,
		})
	}

	result.WithSales = len(ranked)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].SaleVelocity != ranked[j].SaleVelocity {
			return ranked[i].SaleVelocity > ranked[j].SaleVelocity
		}
		return ranked[i].ItemID < ranked[j].ItemID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	result.TopItems = ranked

	s.logger.Info("tracking initialized",
		"world", world,
		"found", result.TotalFound,
		"with_sales", result.WithSales,
		"tracked", len(result.TopItems),
	)
	return result, nil
}
