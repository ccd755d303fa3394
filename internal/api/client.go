package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/universus/universus/internal/ratelimit"
)

const (
	// DefaultUserAgent identifies this client to the upstream API.
	DefaultUserAgent = "Universus/1.0"

	// DefaultItemNamesURL is the community data dump used for item names.
	DefaultItemNamesURL = "https://raw.githubusercontent.com/ffxiv-teamcraft/ffxiv-teamcraft/master/libs/data/src/lib/json/items.json"
)

// Client provides access to the market data REST API.
//
// All market endpoints pass through the shared rate limiter before the
// request goes on the wire; retries re-acquire a token per attempt, so
// failed attempts still cost quota.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration

	itemNamesURL string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client. The limiter is shared with every
// other Client in the process that talks to the same upstream quota.
func NewClient(baseURL string, limiter *ratelimit.Limiter, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   baseURL,
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter:      limiter,
		logger:       slog.Default(),
		maxRetries:   3,
		retryBackoff: time.Second,
		itemNamesURL: DefaultItemNamesURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithItemNamesURL overrides the item-name data dump URL.
func WithItemNamesURL(u string) ClientOption {
	return func(c *Client) {
		c.itemNamesURL = u
	}
}
