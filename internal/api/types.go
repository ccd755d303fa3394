package api

// CurrentData is the aggregated market state for one item on one world,
// as returned by the single-item and multi-item market endpoints.
type CurrentData struct {
	ItemID              int       `json:"itemID"`
	WorldName           string    `json:"worldName"`
	LastUploadTime      int64     `json:"lastUploadTime"` // ms since epoch
	Listings            []Listing `json:"listings"`
	AveragePrice        float64   `json:"averagePrice"`
	MinPrice            int       `json:"minPrice"`
	MaxPrice            int       `json:"maxPrice"`
	RegularSaleVelocity float64   `json:"regularSaleVelocity"`
	NQSaleVelocity      float64   `json:"nqSaleVelocity"`
	HQSaleVelocity      float64   `json:"hqSaleVelocity"`
}

// Listing is a single active market listing.
type Listing struct {
	PricePerUnit int    `json:"pricePerUnit"`
	Quantity     int    `json:"quantity"`
	HQ           bool   `json:"hq"`
	RetainerName string `json:"retainerName"`
	Total        int    `json:"total"`
}

// MultiItemResponse is the envelope of the multi-item market endpoint.
// Items is keyed by decimal item ID.
type MultiItemResponse struct {
	ItemIDs         []int                  `json:"itemIDs"`
	Items           map[string]CurrentData `json:"items"`
	UnresolvedItems []int                  `json:"unresolvedItems"`
}

// HistoryResponse is the sales history for one item on one world.
type HistoryResponse struct {
	ItemID  int            `json:"itemID"`
	Entries []HistoryEntry `json:"entries"`
}

// HistoryEntry is a single recorded sale.
type HistoryEntry struct {
	HQ           bool   `json:"hq"`
	PricePerUnit int    `json:"pricePerUnit"`
	Quantity     int    `json:"quantity"`
	Timestamp    int64  `json:"timestamp"` // Unix seconds
	BuyerName    string `json:"buyerName"`
}

// RecentlyUpdatedResponse lists the most recently updated items on a world.
type RecentlyUpdatedResponse struct {
	Items []RecentlyUpdatedItem `json:"items"`
}

// RecentlyUpdatedItem is one entry of the recently-updated feed.
type RecentlyUpdatedItem struct {
	ItemID         int   `json:"itemID"`
	LastUploadTime int64 `json:"lastUploadTime"`
	WorldID        int   `json:"worldID"`
}

// DataCenter is a datacenter reference entry.
type DataCenter struct {
	Name   string `json:"name"`
	Region string `json:"region"`
	Worlds []int  `json:"worlds"`
}
