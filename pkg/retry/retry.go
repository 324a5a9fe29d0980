package retry

import (
	"context"
	"time"
)

// Policy describes how an outbound call is attempted. Attempts below 1 are
// treated as a single attempt, a zero Timeout disables the per attempt deadline.
type Policy struct {
	Attempts  int
	BaseDelay time.Duration
	Timeout   time.Duration
	Retryable func(err error) bool
}

// Do runs fn until it succeeds, returns a non-retryable error or runs out of
// attempts. Attempt n waits BaseDelay*n before the next one. The error of the
// last attempt is returned unchanged.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = once(ctx, p.Timeout, fn)
		if err == nil {
			return nil
		}

		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}

		if attempt == attempts {
			break
		}

		if werr := wait(ctx, p.BaseDelay*time.Duration(attempt)); werr != nil {
			return err
		}
	}

	return err
}

// Call is Do for functions producing a value.
func Call[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := Do(ctx, p, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func once(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return fn(attemptCtx)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
