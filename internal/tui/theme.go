// Package tui implements the interactive CV terminal: a prompt, a scrolling
// history of command results and a welcome banner.
package tui

import "github.com/charmbracelet/lipgloss"

// Theme centralizes all styling for the terminal.
type Theme struct {
	Prompt  lipgloss.Style
	Command lipgloss.Style

	// Result kinds
	Success lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	Banner lipgloss.Style
	Dim    lipgloss.Style
}

func NewDefaultTheme() Theme {
	return Theme{
		Prompt:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF00")),
		Command: lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")),

		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#98C379")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),
		Info:    lipgloss.NewStyle(),

		Banner: lipgloss.NewStyle().Foreground(lipgloss.Color("#61AFEF")),
		Dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}
