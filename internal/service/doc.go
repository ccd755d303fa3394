// Package service holds the business operations composed from the API
// client and the store: tracking initialization, rankings, trend reports,
// reference-data caching, and item-name sync.
package service
