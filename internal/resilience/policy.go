// Package resilience provides the call policies wrapped around every
// outbound remote call: timeout, retry, circuit breaking and fallback. Each
// policy is an explicit decorator over a Call, composable and testable in
// isolation.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrUnavailable is the typed "service degraded" outcome: the breaker is open
// or every retry was exhausted. It is authoritative unavailability, never a
// raw transport error and never absence of data.
var ErrUnavailable = errors.New("downstream unavailable")

// Call is one attempt against a downstream target.
type Call func(ctx context.Context) error

// Policy decorates a Call with additional behavior.
type Policy func(Call) Call

// Compose applies policies inside-out: Compose(call, p1, p2) runs p2 around
// p1 around call.
func Compose(call Call, policies ...Policy) Call {
	for _, p := range policies {
		call = p(call)
	}
	return call
}

// WithTimeout bounds every invocation. An expired deadline cancels the
// in-flight call and counts as a failure for retry and breaker accounting.
// The far side may still have acted on it; retries must stay on an
// idempotent path.
func WithTimeout(d time.Duration) Policy {
	return func(next Call) Call {
		return func(ctx context.Context) error {
			callCtx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(callCtx)
		}
	}
}

// RetryConfig bounds the retry policy. MaxAttempts counts the first call.
type RetryConfig struct {
	MaxAttempts     uint64
	InitialInterval time.Duration
}

// WithRetry retries failed attempts with exponential backoff. Callers must
// only attach this policy to idempotent operations; errors wrapped with
// Permanent stop retrying immediately.
func WithRetry(cfg RetryConfig) Policy {
	return func(next Call) Call {
		return func(ctx context.Context) error {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = cfg.InitialInterval
			bo.MaxElapsedTime = 0

			var attempts uint64
			if cfg.MaxAttempts > 0 {
				attempts = cfg.MaxAttempts - 1
			}

			return backoff.Retry(func() error {
				return next(ctx)
			}, backoff.WithContext(backoff.WithMaxRetries(bo, attempts), ctx))
		}
	}
}

// Permanent marks err as non-retryable for WithRetry.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// WithFallback resolves a failed call to the deterministic degraded outcome
// via fb instead of propagating the raw cause. fb receives the original
// error and reports the final result.
func WithFallback(fb func(ctx context.Context, cause error) error) Policy {
	return func(next Call) Call {
		return func(ctx context.Context) error {
			err := next(ctx)
			if err == nil {
				return nil
			}
			return fb(ctx, err)
		}
	}
}
