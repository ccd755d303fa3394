package config

import "time"

// Default values for optional configuration fields. The rate limit stays
// well under the upstream quota on purpose; it is a policy default, not a
// protocol constant.
const (
	DefaultBaseURL        = "https://universalis.app/api/v2"
	DefaultUserAgent      = "Universus/1.0"
	DefaultRateLimit      = 2.0
	DefaultBurstSize      = 2
	DefaultTimeout        = 10 * time.Second
	DefaultMaxRetries     = 3
	DefaultRetryBackoff   = 1 * time.Second
	DefaultHistoryEntries = 100
	DefaultDBPath         = "market_data.db"
	DefaultBusyTimeout    = 10 * time.Second
	DefaultCacheMaxAge    = 24 * time.Hour
	DefaultBatchSize      = 1
	DefaultWorkerCount    = 3
	DefaultServerPort     = 8080
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.UserAgent == "" {
		c.API.UserAgent = DefaultUserAgent
	}
	if c.API.RateLimit == 0 {
		c.API.RateLimit = DefaultRateLimit
	}
	if c.API.BurstSize == 0 {
		c.API.BurstSize = DefaultBurstSize
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultTimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}
	if c.API.HistoryEntries == 0 {
		c.API.HistoryEntries = DefaultHistoryEntries
	}

	// Database defaults
	if c.Database.Path == "" {
		c.Database.Path = DefaultDBPath
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = DefaultBusyTimeout
	}
	if c.Database.CacheMaxAge == 0 {
		c.Database.CacheMaxAge = DefaultCacheMaxAge
	}

	// Updater defaults
	if c.Updater.BatchSize == 0 {
		c.Updater.BatchSize = DefaultBatchSize
	}
	if c.Updater.WorkerCount == 0 {
		c.Updater.WorkerCount = DefaultWorkerCount
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
}
