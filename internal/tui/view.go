// File: internal/tui/view.go
package tui

import (
	"fmt"
	"strings"

	"minerva-beacon/internal/domain/model"
	"minerva-beacon/internal/usecase"
)

func (m *Model) View() string {
	if !m.ready {
		return "loading…"
	}
	st := m.store.State()

	var b strings.Builder
	if st.Open && !st.Minimized {
		b.WriteString(m.viewChat(st))
	} else {
		b.WriteString(m.viewBrowser(st))
	}
	if m.toast != "" {
		style := okStyle
		if m.toastErr {
			style = errStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.toast))
	}
	return b.String()
}

// viewBrowser renders the analysis section list plus, when a session is
// alive in the background, the floating Beacon indicator.
func (m *Model) viewBrowser(st usecase.BeaconState) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Minerva — %s", m.analysis.StartupName)))
	b.WriteString("\n\n")

	for i, s := range m.analysis.Sections {
		icon, style := sectionIcon(s.Type)
		line := fmt.Sprintf("%s %s", icon, s.Title)
		if i == m.sectionIdx {
			line = selectedStyle.Render(line)
			if len(s.Subsections) > 0 {
				subs := make([]string, len(s.Subsections))
				for j, sub := range s.Subsections {
					if j == m.subIdx {
						subs[j] = selectedStyle.Render(sub)
					} else {
						subs[j] = dimStyle.Render(sub)
					}
				}
				line += "\n    " + strings.Join(subs, "  ")
			}
		} else {
			line = style.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	// Floating trigger: visible whenever the modal is not.
	label := "○ Beacon — b to open"
	if st.Open && st.Minimized {
		label = fmt.Sprintf("● Beacon minimized (%d pins) — b to restore", len(st.Contexts))
	} else if len(st.Contexts) > 0 {
		label = fmt.Sprintf("○ Beacon (%d pins) — b to open", len(st.Contexts))
	}
	b.WriteString(pinStyle.Render(label))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("↑/↓ section · ←/→ subsection · p pin section · s pin subsection · q quit"))
	return b.String()
}

// viewChat is the full Beacon modal.
func (m *Model) viewChat(st usecase.BeaconState) string {
	snap := m.transcript.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Beacon"))
	if len(st.Contexts) > 0 {
		chips := make([]string, len(st.Contexts))
		for i, c := range st.Contexts {
			icon, _ := sectionIcon(c.SectionType)
			chips[i] = fmt.Sprintf("%s %s", icon, c.Label())
		}
		b.WriteString("  ")
		b.WriteString(pinStyle.Render(strings.Join(chips, " · ")))
		if m.budget != nil {
			est := m.budget.Estimate(st.Contexts)
			tok := fmt.Sprintf(" ~%d tok", est)
			if m.budget.Over(st.Contexts) {
				b.WriteString(warnStyle.Render(tok + " (over budget)"))
			} else {
				b.WriteString(dimStyle.Render(tok))
			}
		}
	}
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")

	if snap.Loading {
		b.WriteString(fmt.Sprintf("%s Beacon is thinking…", m.spinner.View()))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render(m.textarea.View()))
	} else {
		b.WriteString(m.textarea.View())
	}
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Enter send · Ctrl+J newline · Ctrl+X clear pins · Esc minimize · Ctrl+W close"))

	return boxStyle.Width(m.width - 4).Render(b.String())
}

// formatTranscript renders the message list plus the live streaming buffer.
// Agent markdown goes through glamour; everything else is printed raw.
func (m *Model) formatTranscript(snap usecase.TranscriptSnapshot) string {
	if len(snap.Messages) == 0 && snap.Streaming == "" {
		return dimStyle.Render("No messages yet.")
	}

	var b strings.Builder
	for i, msg := range snap.Messages {
		b.WriteString(m.formatMessage(msg))
		if i < len(snap.Messages)-1 || snap.Streaming != "" {
			b.WriteString("\n\n")
		}
	}
	if snap.Streaming != "" {
		b.WriteString(agentStyle.Render("Beacon: "))
		b.WriteString(snap.Streaming)
		b.WriteString("▌")
	}
	return b.String()
}

func (m *Model) formatMessage(msg model.Message) string {
	var b strings.Builder
	switch msg.Role {
	case model.RoleUser:
		b.WriteString(userStyle.Render("You: "))
		if msg.Context != "" {
			b.WriteString(pinStyle.Render("[" + msg.Context + "] "))
		}
		b.WriteString(msg.Content)
	case model.RoleAgent:
		b.WriteString(agentStyle.Render("Beacon: "))
		b.WriteString(m.renderMarkdown(msg.Content))
		for _, tc := range msg.ToolCalls {
			b.WriteString("\n  ")
			if tc.Result.Success {
				b.WriteString(okStyle.Render("✓ " + tc.Tool))
				if tc.Result.Message != "" {
					b.WriteString(dimStyle.Render(" — " + tc.Result.Message))
				}
			} else {
				b.WriteString(errStyle.Render("✗ " + tc.Tool))
				if tc.Result.Error != "" {
					b.WriteString(dimStyle.Render(" — " + tc.Result.Error))
				}
			}
		}
	default:
		b.WriteString(dimStyle.Render("System: "))
		b.WriteString(msg.Content)
	}
	return b.String()
}

func (m *Model) renderMarkdown(s string) string {
	if m.renderer == nil {
		return s
	}
	out, err := m.renderer.Render(s)
	if err != nil {
		return s
	}
	return strings.TrimRight(out, "\n")
}
