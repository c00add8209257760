// File: internal/tui/model.go
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"minerva-beacon/internal/domain/model"
	"minerva-beacon/internal/usecase"
)

// stateChangedMsg fires whenever the session store or the transcript
// controller notified a change; the view re-reads their snapshots.
type stateChangedMsg struct{}

// exchangeDoneMsg reports that a Send call returned. Guard rejections show
// up here, stream failures are already baked into the transcript.
type exchangeDoneMsg struct{ err error }

// toastClearMsg hides the transient status line.
type toastClearMsg struct{}

type focusArea int

const (
	focusBrowser focusArea = iota
	focusChat
)

// Model is the whole terminal UI: the analysis section browser (the pin
// triggers live there) and the Beacon shell. All chat state belongs to the
// store and the transcript controller; the model only mirrors it.
type Model struct {
	store      usecase.SessionStore
	transcript usecase.TranscriptUseCase
	budget     *usecase.ContextBudget
	analysis   *model.Analysis
	log        *zerolog.Logger

	updates chan struct{}

	focus      focusArea
	sectionIdx int
	subIdx     int

	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	toast     string
	toastErr  bool
	lastErr   error
	width     int
	height    int
	ready     bool
}

// New builds the TUI around an already-wired store and transcript. It
// bridges their subscriptions into bubbletea messages through a coalescing
// channel.
func New(store usecase.SessionStore, transcript usecase.TranscriptUseCase, budget *usecase.ContextBudget, analysis *model.Analysis, logger *zerolog.Logger) *Model {
	ta := textarea.New()
	ta.Placeholder = "Ask Beacon about this startup… (Enter to send, Ctrl+J for newline)"
	ta.CharLimit = 5000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline = key.NewBinding(
		key.WithKeys("ctrl+j"),
		key.WithHelp("ctrl+j", "new line"),
	)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	m := &Model{
		store:      store,
		transcript: transcript,
		budget:     budget,
		analysis:   analysis,
		log:        logger,
		updates:    make(chan struct{}, 1),
		textarea:   ta,
		spinner:    sp,
	}
	store.Subscribe(func(usecase.BeaconState) { m.poke() })
	transcript.Subscribe(m.poke)
	return m
}

// poke coalesces bursts of notifications into one pending UI refresh.
func (m *Model) poke() {
	select {
	case m.updates <- struct{}{}:
	default:
	}
}

func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		<-m.updates
		return stateChangedMsg{}
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick, m.waitForUpdate())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.refreshTranscript()
		return m, nil

	case stateChangedMsg:
		m.refreshTranscript()
		snap := m.transcript.Snapshot()
		if snap.Err != nil && snap.Err != m.lastErr {
			m.lastErr = snap.Err
			cmds = append(cmds, m.showToast("Beacon: "+snap.Err.Error(), true))
		}
		st := m.store.State()
		if st.Open && !st.Minimized {
			m.focus = focusChat
			m.textarea.Focus()
		} else {
			m.focus = focusBrowser
			m.textarea.Blur()
		}
		cmds = append(cmds, m.waitForUpdate())
		return m, tea.Batch(cmds...)

	case exchangeDoneMsg:
		if msg.err != nil {
			// Guard rejections (empty input, exchange in flight); stream
			// failures never arrive here.
			return m, m.showToast(msg.err.Error(), true)
		}
		return m, nil

	case toastClearMsg:
		m.toast = ""
		return m, nil

	case spinner.TickMsg:
		if m.transcript.Snapshot().Loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, m.spinner.Tick

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.store.State()
	chatVisible := st.Open && !st.Minimized

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.focus == focusBrowser {
			return m, tea.Quit
		}
	case "esc":
		if chatVisible {
			// Esc minimizes; closing (and tearing the session down) is an
			// explicit Ctrl+W so a stray Esc never discards a transcript.
			m.store.Minimize()
			return m, nil
		}
	case "ctrl+w":
		if st.Open {
			m.store.Close()
			return m, nil
		}
	case "b":
		if !chatVisible {
			if st.Open && st.Minimized {
				m.store.Restore()
			} else {
				m.store.Open(nil)
			}
			return m, nil
		}
	}

	if chatVisible {
		return m.handleChatKey(msg)
	}
	return m.handleBrowserKey(msg)
}

// handleBrowserKey implements the entry-point triggers. Pinning a section
// always opens; pinning a subsection only opens when the chat is not already
// visible, so an open modal is never visually "reopened".
func (m *Model) handleBrowserKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sections := m.analysis.Sections
	if len(sections) == 0 {
		return m, nil
	}
	cur := sections[m.sectionIdx]

	switch msg.String() {
	case "up", "k":
		if m.sectionIdx > 0 {
			m.sectionIdx--
			m.subIdx = 0
		}
	case "down", "j":
		if m.sectionIdx < len(sections)-1 {
			m.sectionIdx++
			m.subIdx = 0
		}
	case "left", "h":
		if m.subIdx > 0 {
			m.subIdx--
		}
	case "right", "l":
		if m.subIdx < len(cur.Subsections)-1 {
			m.subIdx++
		}
	case "p":
		pin := cur.PinSection()
		m.store.Open(&pin)
	case "s":
		if len(cur.Subsections) == 0 {
			return m, m.showToast("no subsections here", false)
		}
		pin := cur.PinSubsection(cur.Subsections[m.subIdx])
		if m.store.State().Open {
			m.store.AddContext(pin)
		} else {
			m.store.Open(&pin)
		}
	}
	return m, nil
}

func (m *Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		content := strings.TrimSpace(m.textarea.Value())
		snap := m.transcript.Snapshot()
		if content == "" || snap.Loading {
			return m, nil
		}
		m.textarea.Reset()
		return m, m.sendCmd(content)
	case "ctrl+x":
		m.store.ClearAllContext()
		return m, nil
	}

	// Typing stays live during an exchange; only the send action is gated.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// sendCmd runs the exchange off the UI goroutine. Progress arrives through
// the transcript subscription, not through this command's return value.
func (m *Model) sendCmd(content string) tea.Cmd {
	return func() tea.Msg {
		err := m.transcript.Send(context.Background(), content)
		return exchangeDoneMsg{err: err}
	}
}

func (m *Model) showToast(text string, isErr bool) tea.Cmd {
	m.toast = text
	m.toastErr = isErr
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg { return toastClearMsg{} })
}

// layout resizes the chat widgets and rebuilds the glamour renderer for the
// new wrap width.
func (m *Model) layout() {
	w := m.width - 8
	if w < 20 {
		w = 20
	}
	h := m.height - 14
	if h < 5 {
		h = 5
	}
	if !m.ready {
		m.viewport = viewport.New(w, h)
		m.ready = true
	} else {
		m.viewport.Width = w
		m.viewport.Height = h
	}
	m.textarea.SetWidth(w)

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(w))
	if err == nil {
		m.renderer = r
	}
}

func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	snap := m.transcript.Snapshot()
	m.viewport.SetContent(m.formatTranscript(snap))
	m.viewport.GotoBottom()
}
