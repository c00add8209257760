// File: internal/usecase/session_uc.go
package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"minerva-beacon/internal/domain/model"
	"minerva-beacon/internal/infra/metrics"
)

// BeaconState is an immutable snapshot of the session store. Open and
// Minimized together encode the three-state lifecycle: Closed, Open,
// Minimized. A minimized session is hidden but logically alive.
type BeaconState struct {
	Open      bool
	Minimized bool
	Contexts  []model.SectionContext
	SessionID string
}

// Compile-time check
var _ SessionStore = (*sessionStore)(nil)

// SessionStore is the one shared mutable resource of the Beacon subsystem:
// the chat lifecycle flags plus the insertion-ordered, id-deduplicated pin
// set. Every mutation goes through these operations; none of them can fail.
type SessionStore interface {
	// Open shows the chat. When c is non-nil it is appended to the pin set
	// unless an item with the same SectionID is already present. Repeated
	// identical calls are no-ops.
	Open(c *model.SectionContext)
	// Close hides the chat and tears the session down: the opaque session
	// identifier rotates immediately. Pins are left in place; transcript
	// reset is the transcript controller's reaction to the Open transition.
	Close()
	// Minimize hides the chat without tearing it down.
	Minimize()
	// Restore un-minimizes.
	Restore()
	AddContext(c model.SectionContext)
	RemoveContext(sectionID string)
	ClearAllContext()

	State() BeaconState
	SessionID() string
	// Subscribe registers fn to run after every state change. The returned
	// function unregisters it.
	Subscribe(fn func(BeaconState)) func()
}

type sessionStore struct {
	mu        sync.Mutex
	userID    string
	startupID string

	open      bool
	minimized bool
	contexts  []model.SectionContext
	sessionID string
	lastMilli int64

	nextSub int
	subs    map[int]func(BeaconState)
	log     *zerolog.Logger
}

// NewSessionStore creates a store in the Closed state with an empty pin set
// and a fresh session identifier seeded from the user and startup IDs.
func NewSessionStore(userID, startupID string, logger *zerolog.Logger) *sessionStore {
	s := &sessionStore{
		userID:    userID,
		startupID: startupID,
		subs:      map[int]func(BeaconState){},
		log:       logger,
	}
	s.sessionID = s.mintSessionIDLocked()
	return s
}

// mintSessionIDLocked composes the opaque correlation token the backend uses
// to scope conversation history. Nothing on this side ever parses it back.
// The millisecond component is forced strictly monotonic per store, so two
// mints inside the same millisecond still yield distinct tokens. Caller holds
// s.mu (or owns the store exclusively, as during construction).
func (s *sessionStore) mintSessionIDLocked() string {
	now := time.Now().UnixMilli()
	if now <= s.lastMilli {
		now = s.lastMilli + 1
	}
	s.lastMilli = now
	return fmt.Sprintf("%s_%s_%d", s.userID, s.startupID, now)
}

func (s *sessionStore) Open(c *model.SectionContext) {
	s.mu.Lock()
	changed := !s.open || s.minimized
	s.open = true
	s.minimized = false
	if c != nil && s.appendIfAbsent(*c) {
		changed = true
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *sessionStore) Close() {
	s.mu.Lock()
	changed := s.open || s.minimized
	s.open = false
	s.minimized = false
	if changed {
		// Rotate at the moment close is initiated, not on next open, so the
		// backend's history correlation key changes immediately.
		s.sessionID = s.mintSessionIDLocked()
		s.log.Debug().Str("session_id", s.sessionID).Msg("beacon closed, session rotated")
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *sessionStore) Minimize() {
	s.mu.Lock()
	changed := !s.minimized
	s.minimized = true
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *sessionStore) Restore() {
	s.mu.Lock()
	changed := !s.open || s.minimized
	s.open = true
	s.minimized = false
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *sessionStore) AddContext(c model.SectionContext) {
	s.mu.Lock()
	changed := s.appendIfAbsent(c)
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *sessionStore) RemoveContext(sectionID string) {
	s.mu.Lock()
	changed := false
	kept := s.contexts[:0]
	for _, c := range s.contexts {
		if c.SectionID == sectionID {
			changed = true
			continue
		}
		kept = append(kept, c)
	}
	s.contexts = kept
	if changed {
		metrics.ContextPins(len(s.contexts))
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *sessionStore) ClearAllContext() {
	s.mu.Lock()
	changed := len(s.contexts) > 0
	s.contexts = nil
	if changed {
		metrics.ContextPins(0)
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// appendIfAbsent preserves first-insertion order and dedups by SectionID
// only; SectionData is never compared. Caller holds s.mu.
func (s *sessionStore) appendIfAbsent(c model.SectionContext) bool {
	for _, have := range s.contexts {
		if have.SectionID == c.SectionID {
			return false
		}
	}
	s.contexts = append(s.contexts, c)
	metrics.ContextPins(len(s.contexts))
	return true
}

func (s *sessionStore) State() BeaconState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *sessionStore) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

func (s *sessionStore) Subscribe(fn func(BeaconState)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *sessionStore) snapshotLocked() BeaconState {
	ctxs := make([]model.SectionContext, len(s.contexts))
	copy(ctxs, s.contexts)
	return BeaconState{
		Open:      s.open,
		Minimized: s.minimized,
		Contexts:  ctxs,
		SessionID: s.sessionID,
	}
}

// notify runs subscribers outside the lock so they may call back into the
// store.
func (s *sessionStore) notify() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	fns := make([]func(BeaconState), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// ---- provider-style access ----

type storeCtxKey struct{}

// WithStore attaches the store to ctx for components further down the tree.
func WithStore(ctx context.Context, s SessionStore) context.Context {
	return context.WithValue(ctx, storeCtxKey{}, s)
}

// StoreFromContext retrieves the store attached by WithStore. Calling it
// outside such a scope is a programming error and panics immediately rather
// than handing back a detached default.
func StoreFromContext(ctx context.Context) SessionStore {
	s, ok := ctx.Value(storeCtxKey{}).(SessionStore)
	if !ok {
		panic("usecase: StoreFromContext called outside a session scope")
	}
	return s
}
