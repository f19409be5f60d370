package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ticketrik/ticketrik/internal/model"
)

// ------- styling helpers (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	labelStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	helpStyle     = lipgloss.NewStyle().Faint(true)

	// Priority colors follow the original app: low green, medium
	// orange, high red.
	priorityLowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	priorityMediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	priorityHighStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	statusOpenStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	statusInProgressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	statusResolvedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusClosedStyle     = lipgloss.NewStyle().Faint(true)
)

const appTitle = "🎫 Ticketrik"

func renderPriority(p model.Priority) string {
	switch p {
	case model.PriorityLow:
		return priorityLowStyle.Render(string(p))
	case model.PriorityHigh:
		return priorityHighStyle.Render(string(p))
	default:
		return priorityMediumStyle.Render(string(p))
	}
}

func renderStatus(s model.Status) string {
	switch s {
	case model.StatusInProgress:
		return statusInProgressStyle.Render(string(s))
	case model.StatusResolved:
		return statusResolvedStyle.Render(string(s))
	case model.StatusClosed:
		return statusClosedStyle.Render(string(s))
	default:
		return statusOpenStyle.Render(string(s))
	}
}

func panel(inner string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return border.Render(inner)
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

func header(subtitle string) string {
	line := headerStyle.Render(appTitle)
	if subtitle != "" {
		line += "  " + mutedStyle.Render(subtitle)
	}
	return line + "\n" + mutedStyle.Render(strings.Repeat("─", 40))
}
