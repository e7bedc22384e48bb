// Package retryutil implements the bounded exponential-backoff policy
// shared by every outbound network call.
package retryutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"
)

type transientError struct {
	err error
}

func (t transientError) Error() string {
	return t.err.Error()
}

func (t transientError) Unwrap() error {
	return t.err
}

// Transient marks an error as retryable. Callers use it for conditions
// the error type alone cannot express, like a 5xx status on an
// otherwise successful exchange.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err: err}
}

// IsTransient reports whether an error should be retried: anything
// explicitly marked via Transient, plus connection-level and timeout
// failures. Parse failures and 4xx responses never qualify.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var marked transientError
	if errors.As(err, &marked) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// Policy is a reusable retry policy value. The wait doubles each
// attempt starting from BaseWait: 1s, 2s, 4s...
type Policy struct {
	MaxAttempts int
	BaseWait    time.Duration

	// Sleep exists so tests can observe the backoff schedule without
	// waiting it out. Nil means real, context-aware sleeping.
	Sleep func(ctx context.Context, d time.Duration) error
}

func Default() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseWait:    time.Second,
	}
}

func (p Policy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do runs fn up to MaxAttempts times, backing off between attempts.
// The first non-transient error is returned immediately. After the
// final attempt the last error is surfaced as a single terminal
// failure, the caller decides whether that aborts the cycle or just
// the current item.
func (p Policy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := p.BaseWait << (attempt - 1)
			if err := p.sleep(ctx, wait); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) {
			return fmt.Errorf("%s: %w", op, lastErr)
		}
	}

	return fmt.Errorf("%s: %d attempts exhausted: %w", op, attempts, lastErr)
}
