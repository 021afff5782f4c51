// Package client is the resilient remote client dependent services use to
// call the ingestion engine. Every call is wrapped in
// timeout -> retry -> circuit breaker -> fallback; an unavailable engine
// resolves to a typed degraded result instead of a raw error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"gitlab.com/courexa/edi-gateway/internal/config"
	"gitlab.com/courexa/edi-gateway/internal/edi"
	"gitlab.com/courexa/edi-gateway/internal/resilience"
)

// ErrDownstreamUnavailable is returned inside degraded results; callers can
// test for it with errors.Is on Result.Err.
var ErrDownstreamUnavailable = resilience.ErrUnavailable

// StatusError is a non-2xx response from the engine. 4xx codes are permanent
// and never retried.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote call failed with status %d: %s", e.Code, e.Body)
}

type Config struct {
	BaseURL       string
	CallTimeout   time.Duration
	RetryAttempts uint64
	RetryInterval time.Duration
	Breaker       resilience.BreakerConfig
}

// ConfigFromResilience maps the shared REMOTE_* and BREAKER_* environment
// knobs onto a client Config, so callers tune one set of settings for both
// the engine and its peers.
func ConfigFromResilience(baseURL string, rc config.ResilienceConfig) Config {
	return Config{
		BaseURL:       baseURL,
		CallTimeout:   rc.CallTimeout,
		RetryAttempts: rc.RetryAttempts,
		RetryInterval: rc.RetryInterval,
		Breaker: resilience.BreakerConfig{
			Window:       rc.BreakerWindow,
			Cooldown:     rc.BreakerCooldown,
			FailureRatio: rc.BreakerRatio,
			MinCalls:     rc.BreakerMinCalls,
		},
	}
}

type Client struct {
	baseURL string
	http    *http.Client
	breaker *resilience.Breaker
	cfg     Config
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	breakerCfg := cfg.Breaker
	if breakerCfg.IsSuccessful == nil {
		breakerCfg.IsSuccessful = func(err error) bool {
			if err == nil {
				return true
			}
			var sErr *StatusError
			// 4xx answers are the caller's problem, not engine unavailability.
			return errors.As(err, &sErr) && sErr.Code < http.StatusInternalServerError
		}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		// Transport timeouts are handled per call by the timeout policy.
		http:    &http.Client{},
		breaker: resilience.NewBreaker("edi-gateway", breakerCfg, logger),
		cfg:     cfg,
		logger:  logger,
	}
}

// ProcessResult is the outcome of a registration call. Degraded means the
// engine is authoritatively unavailable, not that the parcel is absent.
type ProcessResult struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	ParcelID     string    `json:"parcelId,omitempty"`
	EDIReference string    `json:"ediReference,omitempty"`
	Status       string    `json:"status,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	Degraded     bool      `json:"degraded,omitempty"`
}

type SubmitResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	EDIReference string `json:"ediReference,omitempty"`
	Topic        string `json:"topic,omitempty"`
	Status       string `json:"status,omitempty"`
	Degraded     bool   `json:"degraded,omitempty"`
}

type StatusResult struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	ParcelID     string    `json:"parcelId,omitempty"`
	EDIReference string    `json:"ediReference,omitempty"`
	Status       string    `json:"status,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
	Degraded     bool      `json:"degraded,omitempty"`
}

// ProcessOrder registers an order through the synchronous path. The EDI
// reference is the idempotency key, so retries are safe.
func (c *Client) ProcessOrder(ctx context.Context, token string, doc edi.OrderDocument) (*ProcessResult, error) {
	var out ProcessResult
	call := c.jsonCall(http.MethodPost, "/edi/process", token, doc, &out)

	err := c.resilient(call, true)(ctx)
	if err != nil {
		if errors.Is(err, resilience.ErrUnavailable) {
			return &ProcessResult{Message: degradedMessage, Degraded: true}, nil
		}
		return nil, err
	}
	return &out, nil
}

// SubmitOrder queues an order through the asynchronous path.
func (c *Client) SubmitOrder(ctx context.Context, token string, doc edi.OrderDocument) (*SubmitResult, error) {
	var out SubmitResult
	call := c.jsonCall(http.MethodPost, "/edi/submit", token, doc, &out)

	err := c.resilient(call, true)(ctx)
	if err != nil {
		if errors.Is(err, resilience.ErrUnavailable) {
			return &SubmitResult{Message: degradedMessage, Degraded: true}, nil
		}
		return nil, err
	}
	return &out, nil
}

// GetStatus reads a parcel summary. A degraded result is unavailability, not
// a missing parcel; a missing parcel is a 404 StatusError.
func (c *Client) GetStatus(ctx context.Context, token, ediReference string) (*StatusResult, error) {
	var out StatusResult
	call := c.jsonCall(http.MethodGet, "/edi/status/"+ediReference, token, nil, &out)

	err := c.resilient(call, true)(ctx)
	if err != nil {
		if errors.Is(err, resilience.ErrUnavailable) {
			return &StatusResult{Message: degradedMessage, Degraded: true}, nil
		}
		return nil, err
	}
	return &out, nil
}

// TransitionRequest mirrors the engine's operational transition endpoint.
type TransitionRequest struct {
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	VehicleID   string `json:"vehicleId,omitempty"`
	DriverName  string `json:"driverName,omitempty"`
}

// ApplyTransition performs a status transition. The call mutates state
// without an idempotency key of its own, so it gets a single attempt: no
// retry policy is attached.
func (c *Client) ApplyTransition(ctx context.Context, token, ediReference string, req TransitionRequest) (*StatusResult, error) {
	var out StatusResult
	call := c.jsonCall(http.MethodPost, "/edi/parcels/"+ediReference+"/transitions", token, req, &out)

	err := c.resilient(call, false)(ctx)
	if err != nil {
		if errors.Is(err, resilience.ErrUnavailable) {
			return &StatusResult{Message: degradedMessage, Degraded: true}, nil
		}
		return nil, err
	}
	return &out, nil
}

// Health probes the engine's availability endpoint. The probe bypasses the
// breaker so availability reporting stays independent of call policy.
func (c *Client) Health(ctx context.Context, token string) (bool, error) {
	var out struct {
		Status string `json:"status"`
	}
	call := resilience.Compose(
		c.jsonCall(http.MethodGet, "/health", token, nil, &out),
		resilience.WithTimeout(c.cfg.CallTimeout),
	)
	if err := call(ctx); err != nil {
		return false, err
	}
	return out.Status == "UP", nil
}

const degradedMessage = "service degraded: ingestion engine unavailable"

// resilient composes the policy stack. Policies apply inside-out: the timeout
// bounds each attempt, retry wraps the attempts, the breaker counts each
// logical call once, and fallback resolves open-breaker or exhausted-retry
// failures to ErrUnavailable.
func (c *Client) resilient(call resilience.Call, idempotent bool) resilience.Call {
	policies := []resilience.Policy{
		resilience.WithTimeout(c.cfg.CallTimeout),
	}
	if idempotent {
		policies = append(policies, resilience.WithRetry(resilience.RetryConfig{
			MaxAttempts:     c.cfg.RetryAttempts,
			InitialInterval: c.cfg.RetryInterval,
		}))
	}
	policies = append(policies,
		c.breaker.Wrap(),
		resilience.WithFallback(func(_ context.Context, cause error) error {
			var sErr *StatusError
			if errors.As(cause, &sErr) && sErr.Code < http.StatusInternalServerError {
				// Client-side failures are real answers, not unavailability.
				return cause
			}
			if errors.Is(cause, resilience.ErrUnavailable) {
				return cause
			}
			c.logger.Warn("remote call degraded", zap.Error(cause))
			return fmt.Errorf("%w: %v", resilience.ErrUnavailable, cause)
		}),
	)
	return resilience.Compose(call, policies...)
}

func (c *Client) jsonCall(method, path, token string, body, dest interface{}) resilience.Call {
	return func(ctx context.Context) error {
		var reader io.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			if err != nil {
				return resilience.Permanent(err)
			}
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return resilience.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			// The bearer token is forwarded unchanged; the engine owns
			// validation.
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode >= http.StatusBadRequest {
			sErr := &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
			if resp.StatusCode < http.StatusInternalServerError {
				return resilience.Permanent(sErr)
			}
			return sErr
		}

		if dest != nil && len(raw) > 0 {
			if err := json.Unmarshal(raw, dest); err != nil {
				return resilience.Permanent(fmt.Errorf("failed to decode response: %w", err))
			}
		}
		return nil
	}
}
