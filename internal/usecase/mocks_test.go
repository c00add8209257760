//go:build !integration

// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"minerva-beacon/internal/domain/model"
	"minerva-beacon/internal/domain/ports/adapter"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// fakeStream replays scripted fragments in order, optionally failing partway
// through. Like the real thing it is single-pass: after EOF it stays EOF.
type fakeStream struct {
	chunks  []string
	tools   []model.ToolCall
	failAt  int // fail before yielding chunk at this index; -1 disables
	failErr error
	idx     int
	done    bool
}

func (f *fakeStream) Recv() (string, error) {
	if f.done {
		return "", io.EOF
	}
	if f.failErr != nil && f.idx == f.failAt {
		f.done = true
		return "", f.failErr
	}
	if f.idx >= len(f.chunks) {
		f.done = true
		return "", io.EOF
	}
	c := f.chunks[f.idx]
	f.idx++
	return c, nil
}

func (f *fakeStream) ToolCalls() []model.ToolCall { return f.tools }
func (f *fakeStream) Close() error                { return nil }

// fakeChat records every request and hands out one scripted stream per call.
// When gate is non-nil StreamChat blocks on it, so tests can observe the
// in-flight phases and the re-entrancy guard.
type fakeChat struct {
	mu       sync.Mutex
	requests []adapter.ChatRequest
	chunks   []string
	tools    []model.ToolCall
	startErr error
	failAt   int
	failErr  error
	gate     chan struct{}
}

func newFakeChat(chunks ...string) *fakeChat {
	return &fakeChat{chunks: chunks, failAt: -1}
}

func (f *fakeChat) StreamChat(ctx context.Context, req adapter.ChatRequest) (adapter.ChatStream, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.startErr != nil {
		return nil, f.startErr
	}
	if f.gate != nil {
		<-f.gate
	}
	return &fakeStream{chunks: f.chunks, tools: f.tools, failAt: f.failAt, failErr: f.failErr}, nil
}

func (f *fakeChat) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeChat) lastRequest() adapter.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

// fakeStorage uploads into a map; filenames listed in failFor error out.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string]int64
	failFor map[string]error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string]int64{}, failFor: map[string]error{}}
}

func (f *fakeStorage) Upload(ctx context.Context, objectPath string, body io.Reader, size int64) (adapter.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, err := range f.failFor {
		if strings.HasSuffix(objectPath, name) {
			return adapter.UploadResult{}, err
		}
	}
	f.objects[objectPath] = size
	return adapter.UploadResult{
		SignedURL:  "https://signed.example/" + objectPath,
		ObjectPath: objectPath,
	}, nil
}

// fakeAnswers captures the submitted batch and returns a scripted receipt.
type fakeAnswers struct {
	mu        sync.Mutex
	startupID string
	batch     []model.Answer
	receipt   *model.BulkAnswerReceipt
	err       error
}

func (f *fakeAnswers) SubmitBulk(ctx context.Context, startupID string, answers []model.Answer) (*model.BulkAnswerReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startupID = startupID
	f.batch = answers
	if f.err != nil {
		return nil, f.err
	}
	if f.receipt != nil {
		return f.receipt, nil
	}
	results := make([]model.BulkAnswerResult, len(answers))
	for i, a := range answers {
		results[i] = model.BulkAnswerResult{QuestionID: a.QuestionID, Success: true}
	}
	return &model.BulkAnswerReceipt{Message: "ok", Results: results}, nil
}