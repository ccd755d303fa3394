package api

import (
	"context"
	"fmt"
)

// GetDataCenters fetches the datacenter reference list. The result changes
// rarely; callers cache it and refetch only after it goes stale.
func (c *Client) GetDataCenters(ctx context.Context) ([]DataCenter, error) {
	var resp []DataCenter
	if err := c.get(ctx, "/data-centers", nil, &resp); err != nil {
		return nil, fmt.Errorf("get data centers: %w", err)
	}
	return resp, nil
}
