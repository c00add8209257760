package adapter

import (
	"context"

	"minerva-beacon/internal/domain/model"
)

// ChatRequest mirrors the streaming chat endpoint's body. SelectedSection is
// the label of the first pinned context, or empty when nothing is pinned.
type ChatRequest struct {
	StartupID       string `json:"startup_id"`
	Message         string `json:"message"`
	SessionID       string `json:"session_id"`
	SelectedSection string `json:"selected_section"`
}

// ChatStream is a lazy, finite, single-pass sequence of response fragments.
// Recv blocks until the next fragment arrives and returns io.EOF once the
// stream is done; a consumed stream cannot be replayed. Fragment boundaries
// carry no meaning and need not align with words or sentences.
//
// ToolCalls reports any tool invocations the backend performed while
// producing the response. It is meaningful only after Recv returned io.EOF.
type ChatStream interface {
	Recv() (string, error)
	ToolCalls() []model.ToolCall
	Close() error
}

// ChatStreamAdapter is the port for the backend's streaming chat endpoint.
type ChatStreamAdapter interface {
	StreamChat(ctx context.Context, req ChatRequest) (ChatStream, error)
}
