// Package tui provides the interactive terminal views: the compact list,
// the kanban board, the projects overview with its per-project gantt
// timeline, and the settings screen.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/taskdeck/internal/task"
)

// Adaptive colors (light/dark terminal detection). The dark palette is
// the gold-on-near-black scheme the app has always shipped with.
var (
	colorPrimary   = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFD700"}
	colorSecondary = lipgloss.AdaptiveColor{Light: "#92690C", Dark: "#FFBF00"}
	colorAccent    = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FF8C00"}
	colorDim       = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#808080"}
	colorBorder    = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#404040"}
	colorText      = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#DCDCDC"}
	colorInverse   = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#0A0A0F"}
)

// Theme is the complete set of styles used by the views. It is built once
// and passed by value; rendering helpers never reach for package state.
type Theme struct {
	Title         lipgloss.Style
	Normal        lipgloss.Style
	Dim           lipgloss.Style
	Accent        lipgloss.Style
	Highlight     lipgloss.Style
	Tag           lipgloss.Style
	Border        lipgloss.Style
	BorderFocused lipgloss.Style
	Status        lipgloss.Style
	Column        lipgloss.Style
	Dialog        lipgloss.Style
}

// DefaultTheme constructs the standard theme.
func DefaultTheme() Theme {
	return Theme{
		Title:  lipgloss.NewStyle().Foreground(colorPrimary).Bold(true),
		Normal: lipgloss.NewStyle().Foreground(colorText),
		Dim:    lipgloss.NewStyle().Foreground(colorDim),
		Accent: lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		Highlight: lipgloss.NewStyle().
			Foreground(colorInverse).
			Background(colorPrimary).
			Bold(true),
		Tag:    lipgloss.NewStyle().Foreground(colorSecondary),
		Border: lipgloss.NewStyle().Foreground(colorBorder),
		BorderFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1),
		Status: lipgloss.NewStyle().Foreground(colorDim).Italic(true),
		Column: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2),
	}
}

// priorityDot is the marker rendered before every task title.
func priorityDot(th Theme, p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return th.Accent.Render("●")
	case task.PriorityLow:
		return th.Dim.Render("○")
	default:
		return th.Tag.Render("◐")
	}
}
