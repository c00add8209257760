// File: internal/infra/adapters/minerva/stream_client.go
package minerva

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"minerva-beacon/internal/domain/model"
	"minerva-beacon/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.ChatStreamAdapter = (*Client)(nil)

// streamFrame is one SSE data payload from the chat endpoint. A frame either
// carries a text delta, the done marker (with any tool-call report), or an
// in-band error.
type streamFrame struct {
	Delta     string           `json:"delta,omitempty"`
	Done      bool             `json:"done,omitempty"`
	ToolCalls []model.ToolCall `json:"tool_calls,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// StreamChat issues the streaming chat request and hands back a single-pass
// stream over the response body. The caller owns the stream's lifetime; there
// is no client-side timeout on it.
func (c *Client) StreamChat(ctx context.Context, req adapter.ChatRequest) (adapter.ChatStream, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/chat/stream", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "text/event-stream")
	if err := c.authorize(ctx, hreq); err != nil {
		return nil, err
	}

	resp, err := c.streaming.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("chat stream: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &sseStream{body: resp.Body, sc: sc}, nil
}

// sseStream consumes "data:" frames off the response body. Once Recv has
// returned io.EOF the stream stays exhausted; it cannot be replayed.
type sseStream struct {
	body  io.ReadCloser
	sc    *bufio.Scanner
	tools []model.ToolCall
	done  bool
}

func (s *sseStream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}
	for s.sc.Scan() {
		line := strings.TrimSpace(s.sc.Text())
		// Blank keep-alives and ":" comments carry nothing.
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		var frame streamFrame
		if err := json.Unmarshal([]byte(strings.TrimSpace(data)), &frame); err != nil {
			s.done = true
			return "", fmt.Errorf("malformed stream frame: %w", err)
		}
		if frame.Error != "" {
			s.done = true
			return "", errors.New(frame.Error)
		}
		if frame.Done {
			s.done = true
			s.tools = frame.ToolCalls
			return "", io.EOF
		}
		if frame.Delta == "" {
			continue
		}
		return frame.Delta, nil
	}
	s.done = true
	if err := s.sc.Err(); err != nil {
		return "", err
	}
	// Body ended without a done frame; treat it as a clean finish.
	return "", io.EOF
}

func (s *sseStream) ToolCalls() []model.ToolCall { return s.tools }

func (s *sseStream) Close() error { return s.body.Close() }
