package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"gitlab.com/courexa/edi-gateway/internal/metrics"
)

// BreakerConfig tunes one circuit breaker. A breaker is shared process-wide
// per downstream target, never per call.
type BreakerConfig struct {
	// Window is the rolling interval over which the failure ratio is
	// evaluated while the breaker is closed.
	Window time.Duration
	// Cooldown is how long the breaker stays open before allowing the single
	// half-open probe.
	Cooldown time.Duration
	// FailureRatio opens the breaker when exceeded within the window.
	FailureRatio float64
	// MinCalls is the minimum number of calls in the window before the ratio
	// is considered meaningful.
	MinCalls uint32
	// IsSuccessful optionally reclassifies errors for breaker accounting.
	// Client-side rejections (4xx) should not open the breaker.
	IsSuccessful func(err error) bool
}

// Breaker guards one downstream target. CLOSED passes calls through and
// counts failures; OPEN fails immediately without touching the network;
// HALF_OPEN lets exactly one probe through and its outcome picks the next
// state.
type Breaker struct {
	cb *gobreaker.CircuitBreaker[struct{}]
}

func NewBreaker(target string, cfg BreakerConfig, logger *zap.Logger) *Breaker {
	settings := gobreaker.Settings{
		Name:        target,
		MaxRequests: 1,
		Interval:    cfg.Window,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinCalls {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(stateGaugeValue(to))
			logger.Warn("circuit breaker state change",
				zap.String("target", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	if cfg.IsSuccessful != nil {
		settings.IsSuccessful = cfg.IsSuccessful
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker[struct{}](settings)}
}

// Wrap is the breaker policy. An open breaker resolves to ErrUnavailable
// without a network attempt.
func (b *Breaker) Wrap() Policy {
	return func(next Call) Call {
		return func(ctx context.Context) error {
			_, err := b.cb.Execute(func() (struct{}, error) {
				return struct{}{}, next(ctx)
			})
			if err != nil {
				if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
					return fmt.Errorf("%w: circuit open for %s", ErrUnavailable, b.cb.Name())
				}
				return err
			}
			return nil
		}
	}
}

// State exposes the current breaker state for health reporting.
func (b *Breaker) State() string {
	return b.cb.State().String()
}

func stateGaugeValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
