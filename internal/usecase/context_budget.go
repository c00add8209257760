// File: internal/usecase/context_budget.go
package usecase

import (
	"github.com/pkoukk/tiktoken-go"

	"minerva-beacon/internal/domain/model"
)

// ContextBudget estimates how many prompt tokens the pinned section payloads
// will cost the backend. Estimation only: the send path never blocks on it,
// the TUI just shows the number and a warning color past the limit.
type ContextBudget struct {
	enc   *tiktoken.Tiktoken
	limit int
}

// NewContextBudget builds an estimator around the cl100k_base encoding.
// When the encoding is unavailable (offline first run), Estimate falls back
// to a bytes/4 heuristic instead of failing.
func NewContextBudget(limit int) *ContextBudget {
	enc, err := tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
	if err != nil {
		enc = nil
	}
	return &ContextBudget{enc: enc, limit: limit}
}

func (b *ContextBudget) Limit() int { return b.limit }

// Estimate sums the token cost of every pin's title, subsection and payload.
func (b *ContextBudget) Estimate(items []model.SectionContext) int {
	total := 0
	for _, c := range items {
		total += b.count(c.SectionTitle)
		total += b.count(c.Subsection)
		total += b.count(string(c.SectionData))
	}
	return total
}

// Over reports whether the pin set exceeds the configured budget.
func (b *ContextBudget) Over(items []model.SectionContext) bool {
	return b.limit > 0 && b.Estimate(items) > b.limit
}

func (b *ContextBudget) count(s string) int {
	if s == "" {
		return 0
	}
	if b.enc == nil {
		return (len(s) + 3) / 4
	}
	return len(b.enc.Encode(s, nil, nil))
}
