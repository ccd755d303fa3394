// Package api implements the REST client for the upstream market data API.
//
// The client wraps every call in the request pipeline: acquire a token from
// the shared rate limiter, issue the HTTP request with a bounded timeout,
// and on transient failure (timeout, connection reset, 5xx, 429) retry with
// exponential backoff, re-acquiring a token per attempt. Non-429 4xx
// responses and undecodable bodies fail immediately. Errors carry enough
// context (URL, status, attempt count) for callers to classify and log.
package api
