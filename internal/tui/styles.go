// File: internal/tui/styles.go
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"minerva-beacon/internal/domain/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))

	userStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	agentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	pinStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0EA5E9"))

	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F9FAFB")).Background(lipgloss.Color("#4C1D95"))
)

// sectionIcon maps each analysis tag to its glyph and accent color.
func sectionIcon(t model.SectionType) (string, lipgloss.Style) {
	switch t {
	case model.SectionTeam:
		return "👥", lipgloss.NewStyle().Foreground(lipgloss.Color("#0EA5E9"))
	case model.SectionMarket:
		return "📈", lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	case model.SectionProduct:
		return "📦", lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	case model.SectionCompetition:
		return "⚔", lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	case model.SectionSynthesis:
		return "🧩", lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))
	case model.SectionRisks:
		return "⚠", lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316"))
	case model.SectionOpportunity:
		return "✨", lipgloss.NewStyle().Foreground(lipgloss.Color("#22D3EE"))
	}
	return "•", dimStyle
}
