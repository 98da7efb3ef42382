package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/smartshop/internal/service"
)

var (
	// ErrRateLimit marks a provider response asking the caller to slow down.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries is returned, wrapping the last cause, once attempts run out.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError records whether a failure may be retried.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err, Retryable: false}
}

func isPermanent(err error) bool {
	var re *RetryableError
	return errors.As(err, &re) && !re.Retryable
}

// backoff yields exponentially growing delays capped at max.
type backoff struct {
	next       time.Duration
	max        time.Duration
	multiplier float64
}

func newBackoff(opts service.RetryOptions) *backoff {
	b := &backoff{next: opts.InitialDelay, max: opts.MaxDelay, multiplier: opts.Multiplier}
	if b.next <= 0 {
		b.next = 100 * time.Millisecond
	}
	if b.max <= 0 {
		b.max = 30 * time.Second
	}
	if b.multiplier <= 0 {
		b.multiplier = 2
	}
	return b
}

// delay returns the wait before the next attempt. Rate-limit errors wait
// the full maximum.
func (b *backoff) delay(cause error) time.Duration {
	if errors.Is(cause, ErrRateLimit) {
		return b.max
	}
	d := b.next
	b.next = min(time.Duration(float64(b.next)*b.multiplier), b.max)
	return d
}

// WithRetry runs operation until it succeeds, returns a Permanent error, ctx
// is done, or opts.MaxAttempts (default 3) attempts have failed.
func WithRetry(ctx context.Context, operation func() error, opts service.RetryOptions) error {
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	wait := newBackoff(opts)

	for attempt := 1; ; attempt++ {
		err := operation()
		switch {
		case err == nil:
			return nil
		case isPermanent(err):
			return err
		case attempt >= attempts:
			return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, attempts, err)
		}

		d := wait.delay(err)
		slog.Warn("Operation failed, retrying",
			"attempt", attempt,
			"max_attempts", attempts,
			"delay", d,
			"error", err)

		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
