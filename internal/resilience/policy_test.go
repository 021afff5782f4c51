package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTimeout(t *testing.T) {
	t.Run("bounds a slow call", func(t *testing.T) {
		call := WithTimeout(20 * time.Millisecond)(func(ctx context.Context) error {
			select {
			case <-time.After(time.Second):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})

		err := call(context.Background())
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("fast call passes through", func(t *testing.T) {
		call := WithTimeout(time.Second)(func(ctx context.Context) error {
			return nil
		})
		assert.NoError(t, call(context.Background()))
	})
}

func TestWithRetry(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, InitialInterval: time.Millisecond}

	t.Run("retries transient failures until success", func(t *testing.T) {
		var attempts int
		call := WithRetry(cfg)(func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return errors.New("transient")
			}
			return nil
		})

		require.NoError(t, call(context.Background()))
		assert.Equal(t, 3, attempts)
	})

	t.Run("gives up after the attempt budget", func(t *testing.T) {
		var attempts int
		cause := errors.New("still broken")
		call := WithRetry(cfg)(func(ctx context.Context) error {
			attempts++
			return cause
		})

		err := call(context.Background())
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 3, attempts)
	})

	t.Run("permanent errors are not retried", func(t *testing.T) {
		var attempts int
		cause := errors.New("bad request")
		call := WithRetry(cfg)(func(ctx context.Context) error {
			attempts++
			return Permanent(cause)
		})

		err := call(context.Background())
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 1, attempts)
	})
}

func TestWithFallback(t *testing.T) {
	t.Run("success bypasses the fallback", func(t *testing.T) {
		var invoked bool
		call := WithFallback(func(ctx context.Context, cause error) error {
			invoked = true
			return nil
		})(func(ctx context.Context) error { return nil })

		require.NoError(t, call(context.Background()))
		assert.False(t, invoked)
	})

	t.Run("failure resolves through the fallback", func(t *testing.T) {
		cause := errors.New("boom")
		call := WithFallback(func(ctx context.Context, c error) error {
			assert.ErrorIs(t, c, cause)
			return ErrUnavailable
		})(func(ctx context.Context) error { return cause })

		err := call(context.Background())
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestCompose(t *testing.T) {
	var order []string
	tag := func(name string) Policy {
		return func(next Call) Call {
			return func(ctx context.Context) error {
				order = append(order, name)
				return next(ctx)
			}
		}
	}

	call := Compose(func(ctx context.Context) error {
		order = append(order, "call")
		return nil
	}, tag("inner"), tag("outer"))

	require.NoError(t, call(context.Background()))
	assert.Equal(t, []string{"outer", "inner", "call"}, order)
}
