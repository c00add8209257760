// File: internal/infra/adapters/minerva/answers_client.go
package minerva

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"minerva-beacon/internal/domain/model"
	"minerva-beacon/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.AnswersAdapter = (*Client)(nil)

// SubmitBulk posts a founder's whole answer batch in one call. Per-question
// failures come back inside the receipt; only transport-level problems
// surface as an error.
func (c *Client) SubmitBulk(ctx context.Context, startupID string, answers []model.Answer) (*model.BulkAnswerReceipt, error) {
	reqBody := struct {
		Answers []model.Answer `json:"answers"`
	}{Answers: answers}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/v1/startups/%s/answers/bulk", c.baseURL, startupID), bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bulk answers: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var receipt model.BulkAnswerReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, fmt.Errorf("bulk answers decode: %w", err)
	}
	c.log.Debug().Str("startup_id", startupID).Int("failed", receipt.Failed).Msg("bulk answers submitted")
	return &receipt, nil
}
