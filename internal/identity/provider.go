// Package identity consumes the external claims provider. Token issuance and
// parsing happen elsewhere; this adapter only asks the provider whether a
// bearer token is valid and who it belongs to.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"gitlab.com/courexa/edi-gateway/internal/server"
)

var ErrInvalidToken = errors.New("invalid bearer token")

// RemoteProvider introspects tokens against the identity service.
type RemoteProvider struct {
	baseURL string
	http    *http.Client
}

func NewRemoteProvider(baseURL string, timeout time.Duration) *RemoteProvider {
	return &RemoteProvider{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (p *RemoteProvider) Validate(ctx context.Context, token string) (*server.Claims, error) {
	payload, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/introspect", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var out struct {
		Active    bool      `json:"active"`
		Subject   string    `json:"subject"`
		Roles     []string  `json:"roles"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if !out.Active || time.Now().After(out.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	return &server.Claims{
		Subject:   out.Subject,
		Roles:     out.Roles,
		ExpiresAt: out.ExpiresAt,
	}, nil
}

// InsecureProvider accepts any non-empty token. It exists for local
// development when no identity service is running.
type InsecureProvider struct{}

func NewInsecureProvider(logger *zap.Logger) *InsecureProvider {
	logger.Warn("identity provider not configured, accepting any bearer token")
	return &InsecureProvider{}
}

func (p *InsecureProvider) Validate(_ context.Context, token string) (*server.Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	return &server.Claims{Subject: "anonymous"}, nil
}
