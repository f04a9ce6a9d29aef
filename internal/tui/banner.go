package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// compactWidth is the terminal width below which the compact banner is used.
const compactWidth = 80

var wideLogo = []string{
	" ██████╗██╗   ██╗    ████████╗███████╗██████╗ ███╗   ███╗",
	"██╔════╝██║   ██║    ╚══██╔══╝██╔════╝██╔══██╗████╗ ████║",
	"██║     ██║   ██║       ██║   █████╗  ██████╔╝██╔████╔██║",
	"██║     ╚██╗ ██╔╝       ██║   ██╔══╝  ██╔══██╗██║╚██╔╝██║",
	"╚██████╗ ╚████╔╝        ██║   ███████╗██║  ██║██║ ╚═╝ ██║",
	" ╚═════╝  ╚═══╝         ╚═╝   ╚══════╝╚═╝  ╚═╝╚═╝     ╚═╝",
}

var compactLogo = []string{
	" ██████╗██╗   ██╗",
	"██╔════╝██║   ██║",
	"██║     ██║   ██║",
	"██║     ╚██╗ ██╔╝",
	"╚██████╗ ╚████╔╝ ",
	" ╚═════╝  ╚═══╝  ",
}

// renderBanner builds the welcome text for a terminal of the given width.
func renderBanner(theme Theme, width int, version string, loginAt time.Time) string {
	title := "Welcome to CV Terminal"
	if version != "" {
		title += " " + version
	}

	frameWidth := 73
	logo := wideLogo
	if width > 0 && width < compactWidth {
		frameWidth = 40
		logo = compactLogo
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		Width(frameWidth).
		Align(lipgloss.Center).
		Render(title)

	lines := []string{
		frame,
		"",
		theme.Banner.Render(strings.Join(logo, "\n")),
		"",
	}
	if width > 0 && width < compactWidth {
		lines = append(lines, "Interactive CV Terminal", "Type 'help' for available commands")
	} else {
		lines = append(lines,
			"Interactive CV Terminal - Type 'help' for available commands",
			fmt.Sprintf("Last login: %s on ttys000", loginAt.Format("Mon Jan 2 15:04:05")),
		)
	}
	lines = append(lines, "", "Ready for input...")
	return strings.Join(lines, "\n")
}
