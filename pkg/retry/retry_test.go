package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Attempts: 3, BaseDelay: time.Millisecond}, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errBoom
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ReturnsLastErrorVerbatim(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Attempts: 4, BaseDelay: time.Millisecond}, func(ctx context.Context) error {
		calls++
		return errBoom
	})

	assert.Same(t, errBoom, err)
	assert.Equal(t, 4, calls)
}

func TestDo_StopsOnNonRetryable(t *testing.T) {
	calls := 0
	p := Policy{
		Attempts:  5,
		BaseDelay: time.Millisecond,
		Retryable: func(err error) bool { return !errors.Is(err, errBoom) },
	}
	err := Do(context.Background(), p, func(ctx context.Context) error {
		calls++
		return errBoom
	})

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, calls)
}

func TestDo_AppliesPerAttemptTimeout(t *testing.T) {
	calls := 0
	p := Policy{Attempts: 2, BaseDelay: time.Millisecond, Timeout: 5 * time.Millisecond}
	err := Do(context.Background(), p, func(ctx context.Context) error {
		calls++
		<-ctx.Done()
		return ctx.Err()
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, calls)
}

func TestDo_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_ = Do(context.Background(), Policy{}, func(ctx context.Context) error {
		calls++
		return errBoom
	})

	assert.Equal(t, 1, calls)
}

func TestDo_CancelledContextStopsBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, Policy{Attempts: 3, BaseDelay: time.Hour}, func(ctx context.Context) error {
		calls++
		cancel()
		return errBoom
	})

	assert.Same(t, errBoom, err)
	assert.Equal(t, 1, calls)
}

func TestCall_ReturnsValue(t *testing.T) {
	v, err := Call(context.Background(), Policy{Attempts: 1}, func(ctx context.Context) (int, error) {
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, v)
}
