package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// rateLimiter is a token bucket refilled one token at a time.
type rateLimiter struct {
	stopCh    chan struct{}
	tokens    int
	capacity  int
	interval  time.Duration
	mu        sync.Mutex
	closeOnce sync.Once
}

// newRateLimiter allows callsPerMinute calls per minute with bursts of the
// same size.
func newRateLimiter(callsPerMinute int) *rateLimiter {
	if callsPerMinute <= 0 {
		callsPerMinute = DefaultRateLimit
	}

	rl := &rateLimiter{
		tokens:   callsPerMinute,
		capacity: callsPerMinute,
		interval: time.Minute / time.Duration(callsPerMinute),
		stopCh:   make(chan struct{}),
	}
	go rl.refill()
	return rl
}

// wait blocks until a token is available or the context is canceled.
func (rl *rateLimiter) wait(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if rl.tryAcquire() {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("rate limiter canceled: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (rl *rateLimiter) tryAcquire() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.tokens > 0 {
		rl.tokens--
		return true
	}
	return false
}

func (rl *rateLimiter) refill() {
	ticker := time.NewTicker(rl.interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			rl.mu.Lock()
			if rl.tokens < rl.capacity {
				rl.tokens++
			}
			rl.mu.Unlock()
		}
	}
}

// Close stops the refill goroutine. It is safe to call more than once.
func (rl *rateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.stopCh) })
}
