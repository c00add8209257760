// File: internal/infra/adapters/minerva/client.go
package minerva

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"minerva-beacon/internal/domain"
	"minerva-beacon/internal/domain/ports/adapter"
)

// Client is the shared plumbing for the Minerva backend API: base URL,
// bearer auth and the two HTTP clients. Streaming requests get a client
// without an overall timeout since an exchange may legitimately run for
// minutes; everything else uses the configured request timeout.
type Client struct {
	baseURL   string
	auth      adapter.AuthAdapter
	http      *http.Client
	streaming *http.Client
	log       *zerolog.Logger
}

func NewClient(baseURL string, auth adapter.AuthAdapter, timeout time.Duration, logger *zerolog.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		auth:      auth,
		http:      &http.Client{Timeout: timeout},
		streaming: &http.Client{},
		log:       logger,
	}
}

// authorize stamps the bearer token onto req.
func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	token, err := c.auth.Token(ctx)
	if err != nil {
		return fmt.Errorf("auth token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// checkStatus maps non-2xx responses onto domain errors.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("minerva http %d: %w", resp.StatusCode, domain.ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("minerva http %d: %w", resp.StatusCode, domain.ErrNotFound)
	default:
		return fmt.Errorf("minerva http %d", resp.StatusCode)
	}
}
