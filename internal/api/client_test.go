package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/universus/universus/internal/ratelimit"
)

// testLimiter returns a limiter generous enough to never block in tests.
func testLimiter() *ratelimit.Limiter {
	return ratelimit.New(10000, 10000)
}

func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://api.example.com", testLimiter())

		if c.baseURL != "https://api.example.com" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "https://api.example.com")
		}
		if c.userAgent != DefaultUserAgent {
			t.Errorf("userAgent = %q, want %q", c.userAgent, DefaultUserAgent)
		}
		if c.httpClient.Timeout != 10*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 10*time.Second)
		}
		if c.maxRetries != 3 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 3)
		}
		if c.retryBackoff != time.Second {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, time.Second)
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with options", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		c := NewClient("https://api.example.com", testLimiter(),
			WithTimeout(5*time.Second),
			WithRetries(5, 200*time.Millisecond),
			WithUserAgent("test-agent/0.1"),
			WithLogger(logger),
		)
		if c.httpClient.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 5*time.Second)
		}
		if c.maxRetries != 5 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 5)
		}
		if c.retryBackoff != 200*time.Millisecond {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, 200*time.Millisecond)
		}
		if c.userAgent != "test-agent/0.1" {
			t.Errorf("userAgent = %q, want %q", c.userAgent, "test-agent/0.1")
		}
		if c.logger != logger {
			t.Error("logger not set correctly")
		}
	})

	t.Run("with custom HTTP client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 3 * time.Second}
		c := NewClient("https://api.example.com", testLimiter(), WithHTTPClient(customClient))
		if c.httpClient != customClient {
			t.Error("custom HTTP client not set")
		}
	})
}

func TestErrorClassification(t *testing.T) {
	t.Run("APIError retryable statuses", func(t *testing.T) {
		tests := []struct {
			code     int
			expected bool
		}{
			{500, true},
			{502, true},
			{503, true},
			{429, true},
			{400, false},
			{404, false},
			{403, false},
		}
		for _, tt := range tests {
			err := &APIError{StatusCode: tt.code}
			if got := err.IsRetryable(); got != tt.expected {
				t.Errorf("IsRetryable() for status %d = %v, want %v", tt.code, got, tt.expected)
			}
		}
	})

	t.Run("predicates distinguish kinds", func(t *testing.T) {
		clientErr := error(&APIError{StatusCode: 404})
		serverErr := error(&APIError{StatusCode: 503})
		quotaErr := error(&APIError{StatusCode: 429})
		timeoutErr := error(&TransportError{Timeout: true, Err: context.DeadlineExceeded})
		connErr := error(&TransportError{Timeout: false, Err: http.ErrServerClosed})
		parseErr := error(&ParseError{Err: http.ErrBodyNotAllowed})

		if !IsClientError(clientErr) || IsClientError(serverErr) || IsClientError(quotaErr) {
			t.Error("IsClientError misclassified")
		}
		if !IsServerError(serverErr) || !IsServerError(quotaErr) || IsServerError(clientErr) {
			t.Error("IsServerError misclassified")
		}
		if !IsTimeout(timeoutErr) || IsTimeout(connErr) {
			t.Error("IsTimeout misclassified")
		}
		if !IsConnectionFailure(connErr) || IsConnectionFailure(timeoutErr) {
			t.Error("IsConnectionFailure misclassified")
		}
		if !IsParseError(parseErr) || IsParseError(clientErr) {
			t.Error("IsParseError misclassified")
		}
	})

	t.Run("predicates see through RetriesExhaustedError", func(t *testing.T) {
		wrapped := error(&RetriesExhaustedError{
			Attempts: 4,
			Err:      &APIError{StatusCode: 503},
		})
		if !IsServerError(wrapped) {
			t.Error("IsServerError should unwrap RetriesExhaustedError")
		}
	})
}

func TestDoWithRetry(t *testing.T) {
	t.Run("retries 500 then succeeds", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{"ok": true}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, testLimiter(), WithRetries(3, time.Millisecond))
		body, err := c.doWithRetry(context.Background(), "/test", nil)
		if err != nil {
			t.Fatalf("doWithRetry: %v", err)
		}
		if string(body) != `{"ok": true}` {
			t.Errorf("body = %q", body)
		}
		if got := calls.Load(); got != 3 {
			t.Errorf("calls = %d, want 3", got)
		}
	})

	t.Run("retries 429", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, testLimiter(), WithRetries(2, time.Millisecond))
		if _, err := c.doWithRetry(context.Background(), "/test", nil); err != nil {
			t.Fatalf("doWithRetry: %v", err)
		}
		if got := calls.Load(); got != 2 {
			t.Errorf("calls = %d, want 2", got)
		}
	})

	t.Run("does not retry 404", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		c := NewClient(server.URL, testLimiter(), WithRetries(3, time.Millisecond))
		_, err := c.doWithRetry(context.Background(), "/test", nil)
		if !IsClientError(err) {
			t.Fatalf("err = %v, want client error", err)
		}
		if got := calls.Load(); got != 1 {
			t.Errorf("calls = %d, want 1 (no retries)", got)
		}
	})

	t.Run("exhausts retries on persistent 503", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		c := NewClient(server.URL, testLimiter(), WithRetries(2, time.Millisecond))
		_, err := c.doWithRetry(context.Background(), "/test", nil)

		var exhausted *RetriesExhaustedError
		if !errors.As(err, &exhausted) {
			t.Fatalf("err = %v, want RetriesExhaustedError", err)
		}
		if exhausted.Attempts != 3 {
			t.Errorf("Attempts = %d, want 3", exhausted.Attempts)
		}
		if got := calls.Load(); got != 3 {
			t.Errorf("calls = %d, want 3 (1 + 2 retries)", got)
		}
	})

	t.Run("cancellation stops retries", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := NewClient(server.URL, testLimiter(), WithRetries(3, time.Millisecond))
		if _, err := c.doWithRetry(ctx, "/test", nil); err == nil {
			t.Fatal("expected error on cancelled context")
		}
	})

	t.Run("sends identifying headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("User-Agent"); got != "test-agent/0.1" {
				t.Errorf("User-Agent = %q, want %q", got, "test-agent/0.1")
			}
			if got := r.Header.Get("Accept"); got != "application/json" {
				t.Errorf("Accept = %q", got)
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, testLimiter(), WithUserAgent("test-agent/0.1"))
		if _, err := c.doWithRetry(context.Background(), "/test", nil); err != nil {
			t.Fatal(err)
		}
	})
}

func TestGet_ParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	c := NewClient(server.URL, testLimiter())
	var result map[string]any
	err := c.get(context.Background(), "/test", nil, &result)
	if !IsParseError(err) {
		t.Fatalf("err = %v, want parse error", err)
	}
}

func TestGet_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	// Zero retries so the timeout surfaces directly.
	c := NewClient(server.URL, testLimiter(),
		WithTimeout(20*time.Millisecond),
		WithRetries(0, time.Millisecond),
	)
	var result map[string]any
	err := c.get(context.Background(), "/test", nil, &result)
	if !IsTimeout(err) {
		t.Fatalf("err = %v, want timeout", err)
	}
}

func TestGetMarketData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Phoenix/5" {
			t.Errorf("path = %q, want /Phoenix/5", r.URL.Path)
		}
		json.NewEncoder(w).Encode(CurrentData{
			ItemID:              5,
			AveragePrice:        123.4,
			MinPrice:            100,
			MaxPrice:            150,
			RegularSaleVelocity: 7.5,
			Listings:            []Listing{{PricePerUnit: 100, Quantity: 1}},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, testLimiter())
	data, err := c.GetMarketData(context.Background(), "Phoenix", 5)
	if err != nil {
		t.Fatalf("GetMarketData: %v", err)
	}
	if data.ItemID != 5 || data.RegularSaleVelocity != 7.5 || len(data.Listings) != 1 {
		t.Errorf("unexpected data: %+v", data)
	}
}

func TestGetMarketDataBatch(t *testing.T) {
	t.Run("multi item", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/Phoenix/5,7" {
				t.Errorf("path = %q, want /Phoenix/5,7", r.URL.Path)
			}
			json.NewEncoder(w).Encode(MultiItemResponse{
				Items: map[string]CurrentData{
					"5": {ItemID: 5, RegularSaleVelocity: 1},
					"7": {ItemID: 7, RegularSaleVelocity: 2},
				},
			})
		}))
		defer server.Close()

		c := NewClient(server.URL, testLimiter())
		data, err := c.GetMarketDataBatch(context.Background(), "Phoenix", []int{5, 7})
		if err != nil {
			t.Fatalf("GetMarketDataBatch: %v", err)
		}
		if len(data) != 2 || data[5] == nil || data[7] == nil {
			t.Errorf("unexpected batch: %v", data)
		}
	})

	t.Run("single item routes through single endpoint", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/Phoenix/5" {
				t.Errorf("path = %q, want /Phoenix/5", r.URL.Path)
			}
			json.NewEncoder(w).Encode(CurrentData{ItemID: 5})
		}))
		defer server.Close()

		c := NewClient(server.URL, testLimiter())
		data, err := c.GetMarketDataBatch(context.Background(), "Phoenix", []int{5})
		if err != nil {
			t.Fatal(err)
		}
		if len(data) != 1 || data[5] == nil {
			t.Errorf("unexpected batch: %v", data)
		}
	})

	t.Run("empty input makes no request", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:0", testLimiter())
		data, err := c.GetMarketDataBatch(context.Background(), "Phoenix", nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(data) != 0 {
			t.Errorf("expected empty map, got %v", data)
		}
	})
}

func TestGetHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/history/Phoenix/5" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("entries"); got != "50" {
			t.Errorf("entries = %q, want 50", got)
		}
		json.NewEncoder(w).Encode(HistoryResponse{
			ItemID: 5,
			Entries: []HistoryEntry{
				{PricePerUnit: 100, Quantity: 2, Timestamp: 1700000000, BuyerName: "A"},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, testLimiter())
	resp, err := c.GetHistory(context.Background(), "Phoenix", 5, 50)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].PricePerUnit != 100 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestGetDataCenters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data-centers" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]DataCenter{
			{Name: "Light", Region: "Europe", Worlds: []int{33, 36}},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, testLimiter())
	dcs, err := c.GetDataCenters(context.Background())
	if err != nil {
		t.Fatalf("GetDataCenters: %v", err)
	}
	if len(dcs) != 1 || dcs[0].Name != "Light" {
		t.Errorf("unexpected datacenters: %+v", dcs)
	}
}

func TestGetItemNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"5": {"en": "Copper Ore"}, "6": {"en": ""}, "bad": {"en": "X"}}`))
	}))
	defer server.Close()

	c := NewClient("http://unused", testLimiter(), WithItemNamesURL(server.URL))
	names, err := c.GetItemNames(context.Background())
	if err != nil {
		t.Fatalf("GetItemNames: %v", err)
	}
	if len(names) != 1 || names[5] != "Copper Ore" {
		t.Errorf("names = %v, want only 5 -> Copper Ore", names)
	}
}
