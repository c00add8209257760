// File: internal/usecase/transcript_uc.go
package usecase

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"minerva-beacon/internal/domain"
	"minerva-beacon/internal/domain/model"
	"minerva-beacon/internal/domain/ports/adapter"
	"minerva-beacon/internal/infra/logging"
	"minerva-beacon/internal/infra/metrics"
)

// Phase is the transcript controller's exchange state. At most one exchange
// is in flight per session; the phase guard is the only backpressure.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSending
	PhaseStreaming
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSending:
		return "sending"
	case PhaseStreaming:
		return "streaming"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

// TranscriptSnapshot is the controller's state as one immutable value.
// Streaming holds the partial response accumulated so far; Err is the last
// exchange failure, for a toast, cleared when the next send starts.
type TranscriptSnapshot struct {
	Messages  []model.Message
	Streaming string
	Phase     Phase
	Loading   bool
	Err       error
}

// Compile-time check
var _ TranscriptUseCase = (*transcriptUC)(nil)

// TranscriptUseCase owns the message list and the in-flight streaming buffer
// and drives exchanges against the chat endpoint.
type TranscriptUseCase interface {
	// Send runs one full exchange: optimistic user-message append, streaming
	// request, chunk accumulation, final agent message. It returns
	// domain.ErrEmptyMessage for blank input and domain.ErrExchangeInFlight
	// when an exchange is already running.
	Send(ctx context.Context, text string) error
	Snapshot() TranscriptSnapshot
	// Subscribe registers fn to run after every transcript change. The
	// returned function unregisters it.
	Subscribe(fn func()) func()
}

type transcriptUC struct {
	mu        sync.Mutex
	store     SessionStore
	chat      adapter.ChatStreamAdapter
	startupID string

	messages  []model.Message
	streamBuf strings.Builder
	phase     Phase
	lastErr   error

	nextSub int
	subs    map[int]func()
	log     *zerolog.Logger
}

// NewTranscriptUseCase wires the controller to its store. It subscribes to
// the store so that a full close discards the transcript and buffer, and so
// that an open, empty transcript always gets the welcome message.
func NewTranscriptUseCase(store SessionStore, chat adapter.ChatStreamAdapter, startupID string, logger *zerolog.Logger) *transcriptUC {
	t := &transcriptUC{
		store:     store,
		chat:      chat,
		startupID: startupID,
		subs:      map[int]func(){},
		log:       logger,
	}
	store.Subscribe(t.onStoreChange)
	// A store already open at wiring time still gets its welcome.
	t.onStoreChange(store.State())
	return t
}

// onStoreChange implements the two lifecycle rules that hang off the store:
// the close-reset rule and the welcome-message rule. Note there is no
// cancellation here: an exchange in flight when the chat closes runs to
// completion and its result lands on whatever transcript exists by then.
func (t *transcriptUC) onStoreChange(st BeaconState) {
	t.mu.Lock()
	changed := false
	if !st.Open {
		if len(t.messages) > 0 || t.streamBuf.Len() > 0 {
			t.messages = nil
			t.streamBuf.Reset()
			changed = true
		}
	} else if len(t.messages) == 0 {
		t.messages = append(t.messages, model.NewWelcomeMessage())
		changed = true
	}
	t.mu.Unlock()
	if changed {
		t.notify()
	}
}

func (t *transcriptUC) Send(ctx context.Context, text string) error {
	defer logging.TraceDuration(t.log, "Transcript.Send")()

	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyMessage
	}

	t.mu.Lock()
	if t.phase != PhaseIdle {
		t.mu.Unlock()
		return domain.ErrExchangeInFlight
	}
	st := t.store.State()
	// Known simplification carried over from the web client: only the first
	// pinned context's label travels as selected_section, even when several
	// pins are attached.
	label := ""
	if len(st.Contexts) > 0 {
		label = st.Contexts[0].Label()
	}
	um := model.NewMessage(model.RoleUser, text)
	um.Context = label
	t.messages = append(t.messages, um)
	t.phase = PhaseSending
	t.lastErr = nil
	t.streamBuf.Reset()
	t.mu.Unlock()
	t.notify()

	// The loading flag is derived from the phase, which always returns to
	// Idle here, on every exit path.
	defer func() {
		t.mu.Lock()
		t.phase = PhaseIdle
		t.mu.Unlock()
		t.notify()
	}()

	start := time.Now()
	req := adapter.ChatRequest{
		StartupID:       t.startupID,
		Message:         text,
		SessionID:       st.SessionID,
		SelectedSection: label,
	}
	stream, err := t.chat.StreamChat(ctx, req)
	if err != nil {
		t.fail(err)
		return nil
	}
	defer stream.Close()

	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.fail(err)
			return nil
		}
		t.mu.Lock()
		t.phase = PhaseStreaming
		t.streamBuf.WriteString(chunk)
		t.mu.Unlock()
		metrics.StreamChunk(len(chunk))
		t.notify()
	}

	final := model.NewMessage(model.RoleAgent, t.flushBuffer())
	final.ToolCalls = stream.ToolCalls()

	t.mu.Lock()
	t.messages = append(t.messages, final)
	t.mu.Unlock()
	// A successful exchange releases every pin, not just the labeled one.
	t.store.ClearAllContext()
	metrics.ExchangeFinished("ok", time.Since(start))
	t.notify()
	return nil
}

// fail converts any send/stream failure into a synthetic agent message that
// embeds the underlying error text. Pins are kept so the user can retry with
// the same grounding.
func (t *transcriptUC) fail(err error) {
	t.log.Error().Err(err).Msg("beacon exchange failed")
	em := model.NewMessage(model.RoleAgent,
		"I ran into a problem answering that: "+err.Error()+"\n\nPlease try again.")
	t.mu.Lock()
	t.phase = PhaseError
	t.lastErr = err
	t.streamBuf.Reset()
	t.messages = append(t.messages, em)
	t.mu.Unlock()
	metrics.ExchangeFinished("error", 0)
	t.notify()
}

func (t *transcriptUC) flushBuffer() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.streamBuf.String()
	t.streamBuf.Reset()
	return out
}

func (t *transcriptUC) Snapshot() TranscriptSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	msgs := make([]model.Message, len(t.messages))
	copy(msgs, t.messages)
	return TranscriptSnapshot{
		Messages:  msgs,
		Streaming: t.streamBuf.String(),
		Phase:     t.phase,
		Loading:   t.phase == PhaseSending || t.phase == PhaseStreaming,
		Err:       t.lastErr,
	}
}

func (t *transcriptUC) Subscribe(fn func()) func() {
	t.mu.Lock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = fn
	t.mu.Unlock()
	return func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
}

func (t *transcriptUC) notify() {
	t.mu.Lock()
	fns := make([]func(), 0, len(t.subs))
	for _, fn := range t.subs {
		fns = append(fns, fn)
	}
	t.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
