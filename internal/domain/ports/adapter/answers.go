package adapter

import (
	"context"

	"minerva-beacon/internal/domain/model"
)

// AnswersAdapter is the port for the bulk question-answer submission
// endpoint. Partial failure is reported inside the receipt, not as an error.
type AnswersAdapter interface {
	SubmitBulk(ctx context.Context, startupID string, answers []model.Answer) (*model.BulkAnswerReceipt, error)
}

// AnalysisAdapter fetches a startup's multi-agent analysis document. Section
// payloads come back opaque and stay opaque.
type AnalysisAdapter interface {
	FetchAnalysis(ctx context.Context, startupID string) (*model.Analysis, error)
}
