package model

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleAgent  Role = "agent"
	RoleSystem Role = "system"
)

// ToolResult reports the outcome of one backend tool invocation.
type ToolResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ToolCall is one tool the backend ran while producing a response. Rendered
// as a success/failure chip next to the finalized message.
type ToolCall struct {
	Tool   string     `json:"tool"`
	Result ToolResult `json:"result"`
}

// Message is one transcript entry. Context holds the label of the pinned
// context that was active when the message was sent; it is a snapshot, not a
// live reference, and never changes after creation even if the pin set does.
type Message struct {
	ID        string     `json:"id"`
	Role      Role       `json:"role"`
	Content   string     `json:"content"` // markdown
	Timestamp time.Time  `json:"timestamp"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	Context   string     `json:"context,omitempty"`
}

// NewMessage constructs a transcript entry with a fresh sortable ID.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        ulid.MustNew(ulid.Now(), rand.Reader).String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// WelcomeText is the fixed markdown copy synthesized into every fresh
// transcript the moment the chat opens empty.
const WelcomeText = "Hi, I'm **Beacon** 👋\n\n" +
	"I can answer questions about this startup's analysis. Pin a section " +
	"with its beacon icon to ground my answers, or just ask away."

// NewWelcomeMessage synthesizes the canned opening message.
func NewWelcomeMessage() Message {
	return NewMessage(RoleAgent, WelcomeText)
}
