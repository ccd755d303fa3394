package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GetHistory fetches sales history for an item on a world. entries bounds
// how many sales the upstream returns, newest first.
func (c *Client) GetHistory(ctx context.Context, world string, itemID int, entries int) (*HistoryResponse, error) {
	query := url.Values{}
	if entries > 0 {
		query.Set("entries", strconv.Itoa(entries))
	}

	var resp HistoryResponse
	path := "/history/" + url.PathEscape(world) + "/" + strconv.Itoa(itemID)
	if err := c.get(ctx, path, query, &resp); err != nil {
		return nil, fmt.Errorf("get history for item %d on %s: %w", itemID, world, err)
	}

	return &resp, nil
}
