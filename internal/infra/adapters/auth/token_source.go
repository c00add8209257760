// File: internal/infra/adapters/auth/token_source.go
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"minerva-beacon/internal/config"
	"minerva-beacon/internal/domain"
	"minerva-beacon/internal/domain/ports/adapter"
	"minerva-beacon/internal/infra/logging"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.AuthAdapter = (*TokenSource)(nil)

// TokenSource hands out the bearer token for API calls, refreshing it ahead
// of expiry. The token is parsed without signature verification; the client
// only reads the sub and exp claims, verifying is the backend's job.
type TokenSource struct {
	mu     sync.Mutex
	token  string
	userID string
	expiry time.Time

	refreshURL string
	apiKey     string
	leeway     time.Duration
	dev        bool
	client     *http.Client
	log        *zerolog.Logger
}

func NewTokenSource(cfg config.AuthConfig, dev bool, logger *zerolog.Logger) (*TokenSource, error) {
	ts := &TokenSource{
		refreshURL: cfg.RefreshURL,
		apiKey:     cfg.APIKey,
		leeway:     cfg.Leeway,
		dev:        dev,
		client:     &http.Client{Timeout: 15 * time.Second},
		log:        logger,
	}
	if cfg.Token != "" {
		if err := ts.adopt(cfg.Token); err != nil {
			return nil, fmt.Errorf("configured token: %w", err)
		}
	} else if cfg.RefreshURL == "" {
		return nil, fmt.Errorf("auth: neither token nor refresh_url configured")
	}
	return ts, nil
}

func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.token != "" && (ts.expiry.IsZero() || time.Until(ts.expiry) > ts.leeway) {
		return ts.token, nil
	}
	if err := ts.refreshLocked(ctx); err != nil {
		if ts.token != "" {
			// A stale token beats none; the backend will reject it if truly dead.
			ts.log.Warn().Err(err).Msg("token refresh failed, using stale token")
			return ts.token, nil
		}
		return "", err
	}
	return ts.token, nil
}

func (ts *TokenSource) UserID(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.userID == "" && ts.token == "" {
		if err := ts.refreshLocked(ctx); err != nil {
			return "", err
		}
	}
	if ts.userID == "" {
		return "", domain.ErrTokenUnavailable
	}
	return ts.userID, nil
}

// adopt stores a token and lifts sub/exp out of its claims. Caller holds the
// lock except during construction.
func (ts *TokenSource) adopt(token string) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return err
	}
	ts.token = token
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		ts.userID = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		ts.expiry = exp.Time
	} else {
		ts.expiry = time.Time{}
	}
	ts.log.Debug().Str("token", logging.Redact(token, ts.dev)).Time("expiry", ts.expiry).Msg("token adopted")
	return nil
}

func (ts *TokenSource) refreshLocked(ctx context.Context) error {
	if ts.refreshURL == "" {
		return domain.ErrTokenUnavailable
	}
	b, _ := json.Marshal(struct {
		APIKey string `json:"api_key"`
	}{APIKey: ts.apiKey})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.refreshURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.client.Do(req)
	if err != nil {
		return fmt.Errorf("token refresh: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("token refresh http %d: %w", resp.StatusCode, domain.ErrUnauthorized)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("token refresh decode: %w", err)
	}
	if payload.Token == "" {
		return domain.ErrTokenUnavailable
	}
	return ts.adopt(payload.Token)
}
