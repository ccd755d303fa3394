package config

import "time"

// Config is the root configuration for the tracker.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
	Updater  UpdaterConfig  `yaml:"updater"`
	Server   ServerConfig   `yaml:"server"`
}

// APIConfig holds upstream API settings.
type APIConfig struct {
	BaseURL        string        `yaml:"base_url"`
	UserAgent      string        `yaml:"user_agent"`
	RateLimit      float64       `yaml:"rate_limit"` // Sustained requests/second
	BurstSize      int           `yaml:"burst_size"` // Token bucket capacity
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryBackoff   time.Duration `yaml:"retry_backoff"`
	HistoryEntries int           `yaml:"history_entries"` // Sales entries per history fetch
}

// DatabaseConfig holds the local SQLite database settings.
type DatabaseConfig struct {
	Path        string        `yaml:"path"`
	BusyTimeout time.Duration `yaml:"busy_timeout"`
	CacheMaxAge time.Duration `yaml:"cache_max_age"` // Reference-data staleness bound
}

// UpdaterConfig holds refresh-run settings.
type UpdaterConfig struct {
	BatchSize   int           `yaml:"batch_size"`   // Items per multi-item request
	WorkerCount int           `yaml:"worker_count"` // Concurrent batches in flight
	Interval    time.Duration `yaml:"interval"`     // Periodic refresh in serve mode, 0 = off
}

// ServerConfig holds the JSON HTTP server settings for serve mode.
type ServerConfig struct {
	Port int `yaml:"port"`
}
