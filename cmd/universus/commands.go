package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
)

func (a *app) runWorlds(ctx context.Context) error {
	dcs, err := a.service.DataCenters(ctx)
	if err != nil {
		return err
	}

	for _, dc := range dcs {
		ids := make([]string, len(dc.Worlds))
		for i, id := range dc.Worlds {
			ids[i] = fmt.Sprint(id)
		}
		fmt.Printf("%-12s %-10s worlds: %s\n", dc.Name, dc.Region, strings.Join(ids, ", "))
	}
	return nil
}

func (a *app) runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	world := fs.String("world", "", "world to initialize tracking on")
	limit := fs.Int("limit", 20, "number of items to track")
	fs.Parse(args)

	if *world == "" {
		return fmt.Errorf("-world is required")
	}

	result, err := a.service.InitializeTracking(ctx, *world, *limit)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d recently updated items, %d with sales; tracking top %d:\n",
		result.TotalFound, result.WithSales, len(result.TopItems))
	for i, item := range result.TopItems {
		fmt.Printf("%3d. item %-8d velocity %8.2f  avg price %10.0f\n",
			i+1, item.ItemID, item.SaleVelocity, item.AveragePrice)
	}
	return nil
}

func (a *app) runTrack(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("track", flag.ExitOnError)
	world := fs.String("world", "", "world")
	item := fs.Int("item", 0, "item ID")
	fs.Parse(args)

	if *world == "" || *item == 0 {
		return fmt.Errorf("-world and -item are required")
	}

	if err := a.service.TrackItem(ctx, *item, *world); err != nil {
		return err
	}
	fmt.Printf("Tracking item %d on %s\n", *item, *world)
	return nil
}

func (a *app) runUntrack(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("untrack", flag.ExitOnError)
	world := fs.String("world", "", "world")
	item := fs.Int("item", 0, "item ID")
	fs.Parse(args)

	if *world == "" || *item == 0 {
		return fmt.Errorf("-world and -item are required")
	}

	if err := a.service.UntrackItem(ctx, *item, *world); err != nil {
		return err
	}
	fmt.Printf("Stopped tracking item %d on %s\n", *item, *world)
	return nil
}

func (a *app) runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	world := fs.String("world", "", "filter by world (empty = all)")
	fs.Parse(args)

	items, err := a.service.TrackedItems(ctx, *world)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No tracked items.")
		return nil
	}
	for _, item := range items {
		name := item.Name
		if name == "" {
			name = "(unknown)"
		}
		fmt.Printf("item %-8d %-30s %-12s last updated %s\n",
			item.ItemID, name, item.World, item.LastUpdated.Format("2006-01-02 15:04"))
	}
	return nil
}

func (a *app) runUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	world := fs.String("world", "", "world to refresh")
	fs.Parse(args)

	if *world == "" {
		return fmt.Errorf("-world is required")
	}

	result, err := a.updater.RefreshAll(ctx, *world)
	if err != nil {
		return err
	}

	fmt.Printf("Refresh %s: %d updated, %d failed (%s)\n",
		result.State, result.Success, result.Failed, result.Duration.Round(0))
	for _, itemErr := range result.Errors {
		fmt.Printf("  failed: %v\n", itemErr)
	}
	return nil
}

func (a *app) runTop(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("top", flag.ExitOnError)
	world := fs.String("world", "", "world")
	limit := fs.Int("limit", 10, "number of items to show")
	fs.Parse(args)

	if *world == "" {
		return fmt.Errorf("-world is required")
	}

	items, err := a.service.TopItems(ctx, *world, *limit)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No snapshots yet; run update first.")
		return nil
	}
	for i, item := range items {
		name := item.Name
		if name == "" {
			name = fmt.Sprintf("item %d", item.ItemID)
		}
		fmt.Printf("%3d. %-30s velocity %8.2f  avg price %10.0f  (%s)\n",
			i+1, name, item.SaleVelocity, item.AveragePrice, item.SnapshotDate)
	}
	return nil
}

func (a *app) runReport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	world := fs.String("world", "", "world")
	item := fs.Int("item", 0, "item ID")
	days := fs.Int("days", 30, "report window in days")
	fs.Parse(args)

	if *world == "" || *item == 0 {
		return fmt.Errorf("-world and -item are required")
	}

	snaps, trends, err := a.service.ItemReport(ctx, *world, *item, *days)
	if err != nil {
		return err
	}

	if len(snaps) == 0 {
		fmt.Printf("No snapshots for item %d on %s in the last %d days.\n", *item, *world, *days)
		return nil
	}

	for _, snap := range snaps {
		fmt.Printf("%s  avg %10.0f  min %8d  max %8d  velocity %8.2f  listings %4d\n",
			snap.Date, snap.AveragePrice, snap.MinPrice, snap.MaxPrice,
			snap.SaleVelocity, snap.TotalListings)
	}
	if trends.VelocityChange != nil {
		fmt.Printf("Velocity change over window: %+.1f%%\n", *trends.VelocityChange)
	}
	if trends.PriceChange != nil {
		fmt.Printf("Price change over window:    %+.1f%%\n", *trends.PriceChange)
	}
	return nil
}

func (a *app) runSyncItems(ctx context.Context) error {
	count, err := a.service.SyncItems(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Synced %d item names\n", count)
	return nil
}
