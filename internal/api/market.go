package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// GetMarketData fetches current market data for a single item on a world.
func (c *Client) GetMarketData(ctx context.Context, world string, itemID int) (*CurrentData, error) {
	var resp CurrentData
	path := "/" + url.PathEscape(world) + "/" + strconv.Itoa(itemID)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get market data for item %d on %s: %w", itemID, world, err)
	}
	return &resp, nil
}

// GetMarketDataBatch fetches current market data for several items in one
// request. The result is keyed by item ID; items the upstream could not
// resolve are absent.
func (c *Client) GetMarketDataBatch(ctx context.Context, world string, itemIDs []int) (map[int]*CurrentData, error) {
	if len(itemIDs) == 0 {
		return map[int]*CurrentData{}, nil
	}

	// The multi-item endpoint degrades to the single-item shape when given
	// one ID, so route that case through GetMarketData.
	if len(itemIDs) == 1 {
		data, err := c.GetMarketData(ctx, world, itemIDs[0])
		if err != nil {
			return nil, err
		}
		return map[int]*CurrentData{itemIDs[0]: data}, nil
	}

	ids := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		ids[i] = strconv.Itoa(id)
	}

	var resp MultiItemResponse
	path := "/" + url.PathEscape(world) + "/" + strings.Join(ids, ",")
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get market data batch on %s: %w", world, err)
	}

	result := make(map[int]*CurrentData, len(resp.Items))
	for key, data := range resp.Items {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		d := data
		if d.ItemID == 0 {
			d.ItemID = id
		}
		result[id] = &d
	}

	return result, nil
}

// GetMostRecentlyUpdated fetches the most recently updated items on a world.
func (c *Client) GetMostRecentlyUpdated(ctx context.Context, world string, entries int) (*RecentlyUpdatedResponse, error) {
	query := url.Values{}
	query.Set("world", world)
	if entries > 0 {
		query.Set("entries", strconv.Itoa(entries))
	}

	var resp RecentlyUpdatedResponse
	if err := c.get(ctx, "/extra/stats/most-recently-updated", query, &resp); err != nil {
		return nil, fmt.Errorf("get most recently updated for %s: %w", world, err)
	}

	return &resp, nil
}
