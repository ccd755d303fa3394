package model

import "time"

// TrackedItem is an item being monitored on a specific world.
type TrackedItem struct {
	ItemID       int       // Game item ID
	World        string    // World the item is tracked on
	Name         string    // Display name, empty if the items table has no entry
	FirstTracked time.Time // When tracking started
	LastUpdated  time.Time // Last successful refresh
}

// Snapshot is a daily aggregate of market state for one item on one world.
// At most one row exists per (ItemID, World, Date); a repeated write for the
// same day replaces the earlier values.
type Snapshot struct {
	ItemID         int
	World          string
	Date           string // Calendar day, ISO format (YYYY-MM-DD)
	AveragePrice   float64
	MinPrice       int
	MaxPrice       int
	SaleVelocity   float64 // Regular (combined) sale velocity, units/day
	NQSaleVelocity float64
	HQSaleVelocity float64
	TotalListings  int
	LastUploadTime int64 // Upstream upload timestamp (ms since epoch)
}

// Sale is a single recorded transaction from the sales history feed.
// Append-only; duplicates across overlapping history fetches are dropped.
type Sale struct {
	ItemID       int
	World        string
	SaleTime     int64 // Unix seconds
	PricePerUnit int
	Quantity     int
	HQ           bool
	BuyerName    string
}

// DataCenter is an entry from the datacenter reference list.
type DataCenter struct {
	Name   string `json:"name"`
	Region string `json:"region"`
	Worlds []int  `json:"worlds"`
}

// TopItem is one row of a top-N-by-velocity ranking, taken from each item's
// most recent snapshot.
type TopItem struct {
	ItemID       int
	Name         string
	World        string
	SaleVelocity float64
	AveragePrice float64
	SnapshotDate string
	LastUpdated  time.Time
}

// Trends holds percent changes between the oldest and newest snapshot of a
// report window. A nil field means the change could not be computed.
type Trends struct {
	VelocityChange *float64
	PriceChange    *float64
}
