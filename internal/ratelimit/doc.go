// Package ratelimit implements token-bucket admission control for outbound
// API requests.
//
// The upstream market API tolerates short bursts but enforces a sustained
// quota, so the limiter models both: a bucket of burst tokens refilled at a
// constant rate. Every HTTP attempt (including retries of failed attempts)
// consumes a token before the request goes on the wire.
package ratelimit
