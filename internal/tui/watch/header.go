package watch

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// CacheState is the last cache status read from the API.
type CacheState struct {
	Cached    bool
	State     string
	Age       time.Duration
	TTL       time.Duration
	Digest    string
	Connected bool
	LastCheck time.Time
}

func renderHeader(st CacheState, apiURL string, theme Theme, width int) string {
	innerWidth := max(width-4, 20)

	var stateText string
	switch {
	case !st.Connected:
		stateText = theme.StatusFailed.Render("CONNECTING")
	case st.State == "fresh":
		stateText = theme.StatusOK.Render("FRESH")
	case st.State == "stale":
		stateText = theme.StatusStale.Render("STALE")
	default:
		stateText = theme.Dim.Render("EMPTY")
	}

	clock := theme.Dim.Render(time.Now().Format("15:04:05"))
	titleText := " CV TERMINAL WATCH " + theme.Dim.Render(apiURL)
	pad := max(innerWidth-lipgloss.Width(titleText)-lipgloss.Width(clock)-2, 1)
	titleLine := titleText + strings.Repeat(" ", pad) + clock

	statsLine := fmt.Sprintf(" Cache: %s  TTL: %s", stateText, formatDuration(st.TTL))
	if st.Cached {
		statsLine += fmt.Sprintf("  Age: %s  Digest: %s", formatDuration(st.Age), st.Digest)
	}

	return theme.Border.Width(innerWidth).Render(lipgloss.JoinVertical(lipgloss.Left, titleLine, statsLine))
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
