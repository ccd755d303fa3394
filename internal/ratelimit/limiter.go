package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Limiter is a token-bucket rate limiter governing outbound API calls.
//
// The bucket holds up to burst tokens and refills at rate tokens/second.
// Acquire takes one token, blocking until one is available. A single Limiter
// is shared by all request paths in the process; constructing one per call
// site would void the throttling contract.
type Limiter struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	lastRefill time.Time

	// Injectable clock for deterministic tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Limiter with the given sustained rate (requests/second) and
// burst capacity. It panics if rate <= 0 or burst < 1, since a limiter that
// can never admit a request is a configuration bug, not a runtime condition.
func New(rate float64, burst int) *Limiter {
	if rate <= 0 {
		panic(fmt.Sprintf("ratelimit: rate must be positive, got %v", rate))
	}
	if burst < 1 {
		panic(fmt.Sprintf("ratelimit: burst must be >= 1, got %d", burst))
	}
	l := &Limiter{
		tokens:     float64(burst),
		capacity:   float64(burst),
		refillRate: rate,
		now:        time.Now,
		sleep:      sleepCtx,
	}
	l.lastRefill = l.now()
	return l
}

// Acquire blocks until a token is available or ctx is cancelled.
// It never fails except on cancellation.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	l.refill()

	if l.tokens >= 1 {
		l.tokens--
		l.mu.Unlock()
		return nil
	}

	// Not enough tokens: reserve the next token to refill and wait for it.
	// lastRefill may already sit in the future when earlier callers hold
	// reservations; the new wait extends from that point, so queued callers
	// are admitted at steady rate intervals. The sleep happens outside the
	// lock so waiters do not block each other's bookkeeping.
	deficit := 1 - l.tokens
	need := time.Duration(deficit / l.refillRate * float64(time.Second))
	ready := l.lastRefill.Add(need)
	wait := ready.Sub(l.now())
	l.tokens = 0
	l.lastRefill = ready
	l.mu.Unlock()

	return l.sleep(ctx, wait)
}

// Tokens returns the current token count after refill, for introspection.
// The value is in [0, burst] at every observation point.
func (l *Limiter) Tokens() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refill()
	return l.tokens
}

// refill credits elapsed time at refillRate, capped at capacity.
// Caller must hold mu.
func (l *Limiter) refill() {
	now := l.now()
	elapsed := now.Sub(l.lastRefill)
	if elapsed <= 0 {
		return
	}
	l.tokens += elapsed.Seconds() * l.refillRate
	if l.tokens > l.capacity {
		l.tokens = l.capacity
	}
	l.lastRefill = now
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
