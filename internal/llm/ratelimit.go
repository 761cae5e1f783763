package llm

import (
	"context"
	"sync"
	"time"
)

// tokenBucket allows capacity requests at once, refilling at refillRate tokens per second.
type tokenBucket struct {
	capacity   int
	refillRate float64
	tokens     float64
	lastRefill time.Time
	now        func() time.Time
	mu         sync.Mutex
}

func newTokenBucket(capacity int, refillRate float64) *tokenBucket {
	return &tokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity), // Start with full bucket
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// reserve consumes a token if one is available. Otherwise it returns how long
// until the next token arrives.
func (tb *tokenBucket) reserve() (bool, time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	elapsed := now.Sub(tb.lastRefill)
	tb.tokens = min(float64(tb.capacity), tb.tokens+elapsed.Seconds()*tb.refillRate)
	tb.lastRefill = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true, 0
	}
	missing := 1.0 - tb.tokens
	return false, time.Duration(missing / tb.refillRate * float64(time.Second))
}

// wait blocks until a token is consumed or ctx is done.
func (tb *tokenBucket) wait(ctx context.Context) error {
	for {
		ok, delay := tb.reserve()
		if ok {
			return nil
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RateLimitedClient gates another client behind a requests-per-minute token bucket.
// One limiter may be shared by concurrent pipeline runs.
type RateLimitedClient struct {
	next   Client
	bucket *tokenBucket
}

// NewRateLimitedClient wraps next, allowing requestsPerMinute calls per minute with a burst of one.
func NewRateLimitedClient(next Client, requestsPerMinute int) *RateLimitedClient {
	return &RateLimitedClient{
		next:   next,
		bucket: newTokenBucket(1, float64(requestsPerMinute)/60.0),
	}
}

// Complete waits for a token, then delegates
func (c *RateLimitedClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.bucket.wait(ctx); err != nil {
		return "", &APICallError{Message: "rate limit wait canceled", Provider: c.next.Provider(), Cause: err}
	}
	return c.next.Complete(ctx, prompt)
}

// Model returns the wrapped client's model
func (c *RateLimitedClient) Model() string {
	return c.next.Model()
}

// Provider returns the wrapped client's provider
func (c *RateLimitedClient) Provider() Provider {
	return c.next.Provider()
}

// Close closes the wrapped client
func (c *RateLimitedClient) Close() error {
	return c.next.Close()
}
