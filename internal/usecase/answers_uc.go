// File: internal/usecase/answers_uc.go
package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"minerva-beacon/internal/domain"
	"minerva-beacon/internal/domain/model"
	"minerva-beacon/internal/domain/ports/adapter"
	"minerva-beacon/internal/infra/metrics"
	"minerva-beacon/internal/infra/worker"
)

// AttachmentFile is one local evidence file attached to a draft answer.
type AttachmentFile struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// AnswerDraft is a founder's answer before upload and submission.
type AnswerDraft struct {
	QuestionID string
	AnswerText string
	Files      []AttachmentFile
}

// UploadFailure records one attachment that did not make it to storage. The
// rest of the batch proceeds; partial success is surfaced, never fatal.
type UploadFailure struct {
	QuestionID string
	Filename   string
	Err        error
}

// SubmitOutcome pairs the backend's receipt with any client-side upload
// failures that preceded submission.
type SubmitOutcome struct {
	Receipt        *model.BulkAnswerReceipt
	UploadFailures []UploadFailure
}

// Compile-time check
var _ AnswersUseCase = (*answersUC)(nil)

type AnswersUseCase interface {
	// SubmitAnswers uploads every attachment, then submits the whole batch in
	// one bulk call. Per-file upload failures drop that attachment and are
	// reported in the outcome; only transport failure of the bulk call itself
	// is an error.
	SubmitAnswers(ctx context.Context, startupID string, drafts []AnswerDraft) (*SubmitOutcome, error)
}

type answersUC struct {
	answers adapter.AnswersAdapter
	storage adapter.StorageAdapter
	pool    *worker.Pool
	log     *zerolog.Logger
}

func NewAnswersUseCase(answers adapter.AnswersAdapter, storage adapter.StorageAdapter, pool *worker.Pool, logger *zerolog.Logger) *answersUC {
	return &answersUC{answers: answers, storage: storage, pool: pool, log: logger}
}

func (a *answersUC) SubmitAnswers(ctx context.Context, startupID string, drafts []AnswerDraft) (*SubmitOutcome, error) {
	if startupID == "" || len(drafts) == 0 {
		return nil, domain.ErrInvalidArgument
	}

	type uploaded struct {
		draft int
		att   model.Attachment
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		done     []uploaded
		failures []UploadFailure
	)

	record := func(u uploaded) {
		mu.Lock()
		done = append(done, u)
		mu.Unlock()
	}

	for di, d := range drafts {
		for _, f := range d.Files {
			di, d, f := di, d, f
			objectPath := fmt.Sprintf("startups/%s/responses/%s/%s", startupID, d.QuestionID, f.Filename)
			wg.Add(1)
			task := func(taskCtx context.Context) error {
				defer wg.Done()
				res, err := a.storage.Upload(taskCtx, objectPath, f.Body, f.Size)
				if err != nil {
					metrics.UploadFinished(false)
					a.log.Warn().Str("question_id", d.QuestionID).Str("file", f.Filename).Err(err).Msg("attachment upload failed")
					mu.Lock()
					failures = append(failures, UploadFailure{QuestionID: d.QuestionID, Filename: f.Filename, Err: err})
					mu.Unlock()
					return nil // failure already recorded; keep the pool quiet
				}
				metrics.UploadFinished(true)
				record(uploaded{draft: di, att: model.Attachment{
					Filename:   f.Filename,
					GCSPath:    res.ObjectPath,
					Size:       f.Size,
					UploadedAt: time.Now(),
				}})
				return nil
			}
			if err := a.pool.Submit(task); err != nil {
				wg.Done()
				metrics.UploadFinished(false)
				mu.Lock()
				failures = append(failures, UploadFailure{QuestionID: d.QuestionID, Filename: f.Filename, Err: err})
				mu.Unlock()
			}
		}
	}
	wg.Wait()

	answers := make([]model.Answer, len(drafts))
	for i, d := range drafts {
		answers[i] = model.Answer{
			QuestionID:  d.QuestionID,
			AnswerText:  d.AnswerText,
			Attachments: []model.Attachment{},
		}
	}
	mu.Lock()
	for _, u := range done {
		answers[u.draft].Attachments = append(answers[u.draft].Attachments, u.att)
	}
	mu.Unlock()

	receipt, err := a.answers.SubmitBulk(ctx, startupID, answers)
	if err != nil {
		return nil, fmt.Errorf("submit answers: %w", err)
	}
	metrics.AnswersSubmitted(len(answers)-receipt.Failed, receipt.Failed)
	if receipt.ReanalysisTriggered {
		a.log.Info().Str("startup_id", startupID).Msg("answer batch triggered reanalysis")
	}
	return &SubmitOutcome{Receipt: receipt, UploadFailures: failures}, nil
}
