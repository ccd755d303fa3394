package api

import (
	"errors"
	"fmt"
)

// APIError represents a non-2xx response from the market API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s (%s)", e.StatusCode, e.Message, e.URL)
}

// IsRetryable returns true if the error should trigger a retry.
// Server errors and quota rejections are transient; other 4xx are caller bugs.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// TransportError represents a failure before any HTTP status was received:
// a timeout or a connection-level failure. Both are retryable.
type TransportError struct {
	URL     string
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	kind := "connection failure"
	if e.Timeout {
		kind = "timeout"
	}
	return fmt.Sprintf("%s: %s: %v", kind, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError represents a 2xx response whose body could not be decoded.
// Never retried: the upstream answered, it just answered garbage.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse response from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RetriesExhaustedError wraps the last transient error after the retry
// budget ran out.
type RetriesExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetriesExhaustedError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a request timeout.
func IsTimeout(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Timeout
}

// IsConnectionFailure reports whether err is a non-timeout transport failure.
func IsConnectionFailure(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && !te.Timeout
}

// IsClientError reports whether err is a non-retryable 4xx response.
func IsClientError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode >= 400 && ae.StatusCode < 500 && ae.StatusCode != 429
}

// IsServerError reports whether err is a 5xx or 429 response.
func IsServerError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.IsRetryable()
}

// IsParseError reports whether err is a response decode failure.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
