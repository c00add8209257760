// File: internal/infra/adapters/minerva/analysis_client.go
package minerva

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"minerva-beacon/internal/domain/model"
	"minerva-beacon/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.AnalysisAdapter = (*AnalysisClient)(nil)

// AnalysisClient fetches startup analysis documents with a short in-process
// TTL cache. The cache only smooths repeated section browsing; nothing is
// ever written to disk.
type AnalysisClient struct {
	*Client
	cache *gocache.Cache
}

func NewAnalysisClient(c *Client, ttl time.Duration) *AnalysisClient {
	return &AnalysisClient{
		Client: c,
		cache:  gocache.New(ttl, 2*ttl),
	}
}

func (a *AnalysisClient) FetchAnalysis(ctx context.Context, startupID string) (*model.Analysis, error) {
	if cached, ok := a.cache.Get(startupID); ok {
		return cached.(*model.Analysis), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/v1/startups/%s/analysis", a.baseURL, startupID), nil)
	if err != nil {
		return nil, err
	}
	if err := a.authorize(ctx, req); err != nil {
		return nil, err
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch analysis: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var doc model.Analysis
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("analysis decode: %w", err)
	}
	a.cache.SetDefault(startupID, &doc)
	return &doc, nil
}
