package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// itemNameEntry is one record of the community item data dump.
type itemNameEntry struct {
	EN string `json:"en"`
}

// GetItemNames fetches the item-name data dump and returns a map of item ID
// to English name. The dump is hosted outside the market API, so it does not
// pass through the rate limiter and entries without a name are dropped.
func (c *Client) GetItemNames(ctx context.Context) (map[int]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.itemNamesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: c.itemNamesURL, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			URL:        c.itemNamesURL,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: c.itemNamesURL, Timeout: isTimeout(err), Err: err}
	}

	var raw map[string]itemNameEntry
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ParseError{URL: c.itemNamesURL, Err: err}
	}

	names := make(map[int]string, len(raw))
	for key, entry := range raw {
		id, err := strconv.Atoi(key)
		if err != nil || entry.EN == "" {
			continue
		}
		names[id] = entry.EN
	}

	c.logger.Info("fetched item names", "count", len(names))
	return names, nil
}
