package config

import (
	"errors"
	"fmt"
)

// Validate checks that all values are in range.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.RateLimit <= 0 {
		return fmt.Errorf("api.rate_limit must be positive, got %v", c.API.RateLimit)
	}
	if c.API.BurstSize < 1 {
		return fmt.Errorf("api.burst_size must be >= 1, got %d", c.API.BurstSize)
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must be >= 0, got %d", c.API.MaxRetries)
	}
	if c.API.HistoryEntries < 1 {
		return fmt.Errorf("api.history_entries must be >= 1, got %d", c.API.HistoryEntries)
	}

	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	if c.Database.BusyTimeout <= 0 {
		return errors.New("database.busy_timeout must be positive")
	}

	if c.Updater.BatchSize < 1 {
		return fmt.Errorf("updater.batch_size must be >= 1, got %d", c.Updater.BatchSize)
	}
	if c.Updater.WorkerCount < 1 {
		return fmt.Errorf("updater.worker_count must be >= 1, got %d", c.Updater.WorkerCount)
	}
	if c.Updater.Interval < 0 {
		return errors.New("updater.interval must not be negative")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	return nil
}
