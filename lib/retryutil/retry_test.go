package retryutil

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExhaustsAllAttempts(t *testing.T) {
	var waits []time.Duration
	policy := Policy{
		MaxAttempts: 3,
		BaseWait:    time.Second,
		Sleep: func(ctx context.Context, d time.Duration) error {
			waits = append(waits, d)
			return nil
		},
	}

	calls := 0
	err := policy.Do(context.Background(), "fetch", func(ctx context.Context) error {
		calls++
		return Transient(fmt.Errorf("boom"))
	})

	require.Error(t, err)
	require.Equal(t, 3, calls)
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, waits)
	require.Contains(t, err.Error(), "3 attempts exhausted")
}

func TestStopsOnNonTransientError(t *testing.T) {
	policy := Policy{
		MaxAttempts: 3,
		BaseWait:    time.Second,
		Sleep: func(ctx context.Context, d time.Duration) error {
			t.Fatal("should not sleep for a non-transient error")
			return nil
		},
	}

	calls := 0
	parseErr := errors.New("unrecognized content")
	err := policy.Do(context.Background(), "parse", func(ctx context.Context) error {
		calls++
		return parseErr
	})

	require.ErrorIs(t, err, parseErr)
	require.Equal(t, 1, calls)
}

func TestSucceedsAfterRetry(t *testing.T) {
	policy := Policy{
		MaxAttempts: 3,
		BaseWait:    time.Second,
		Sleep: func(ctx context.Context, d time.Duration) error {
			return nil
		},
	}

	calls := 0
	err := policy.Do(context.Background(), "fetch", func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return Transient(fmt.Errorf("connection reset"))
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestShutdownAbandonsBackoffWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := Policy{MaxAttempts: 3, BaseWait: time.Hour}
	calls := 0
	err := policy.Do(ctx, "fetch", func(ctx context.Context) error {
		calls++
		return Transient(fmt.Errorf("boom"))
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}

func TestIsTransient(t *testing.T) {
	require.False(t, IsTransient(nil))
	require.False(t, IsTransient(errors.New("plain")))
	require.True(t, IsTransient(Transient(errors.New("5xx"))))
	require.True(t, IsTransient(fmt.Errorf("wrapped: %w", Transient(errors.New("5xx")))))
	require.True(t, IsTransient(context.DeadlineExceeded))
}
