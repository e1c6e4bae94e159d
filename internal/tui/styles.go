package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/ui"
)

// ------- styling (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)
	labelStyle    = lipgloss.NewStyle().Width(12).Foreground(lipgloss.Color("12"))

	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	frameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
)

// importanceStyle is the TUI counterpart of ui.Theme.ImportanceColor.
func importanceStyle(n int) lipgloss.Style {
	switch ui.ImportanceLevel(n) {
	case "high":
		return highStyle
	case "medium":
		return mediumStyle
	default:
		return lowStyle
	}
}
