package dispatch

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	// boxInner is the display width between the two vertical box borders.
	boxInner = 73

	// wrapWidth is the column limit for bullet text, excluding the bullet itself.
	wrapWidth = 56

	bullet       = "• "
	bulletIndent = "  "
)

// padRight pads s with spaces to width display columns. Wider strings are returned unchanged.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// boxTop draws the top border with the title centred in the rule.
func boxTop(title string) string {
	label := " " + title + " "
	fill := max(boxInner-lipgloss.Width(label), 0)
	left := fill / 2
	return "┌" + strings.Repeat("─", left) + label + strings.Repeat("─", fill-left) + "┐"
}

func boxRow(text string) string {
	return "│" + padRight("  "+text, boxInner) + "│"
}

func boxBlank() string {
	return "│" + strings.Repeat(" ", boxInner) + "│"
}

func boxBottom() string {
	return "└" + strings.Repeat("─", boxInner) + "┘"
}

// box renders rows inside a titled frame with one blank row of padding top and bottom.
func box(title string, rows []string) string {
	lines := make([]string, 0, len(rows)+4)
	lines = append(lines, boxTop(title), boxBlank())
	for _, r := range rows {
		lines = append(lines, boxRow(r))
	}
	lines = append(lines, boxBlank(), boxBottom())
	return strings.Join(lines, "\n")
}

// wrap splits text into lines of at most width display columns, breaking
// only between words. A single word wider than width gets a line of its own.
func wrap(text string, width int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case lipgloss.Width(line)+1+lipgloss.Width(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// bullets renders one bullet per item, wrapping long items with an indented continuation.
func bullets(items []string) []string {
	var out []string
	for _, item := range items {
		wrapped := wrap(item, wrapWidth)
		if len(wrapped) == 0 {
			out = append(out, strings.TrimSpace(bullet))
			continue
		}
		out = append(out, bullet+wrapped[0])
		for _, cont := range wrapped[1:] {
			out = append(out, bulletIndent+cont)
		}
	}
	return out
}

// section joins entry blocks under a heading, one blank line between each.
func section(heading string, blocks []string) string {
	if len(blocks) == 0 {
		return heading
	}
	return heading + "\n\n" + strings.Join(blocks, "\n\n")
}

// joinNonEmpty joins the non-blank parts with sep.
func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// floorMinutes converts d to whole minutes, rounding toward negative infinity.
func floorMinutes(d time.Duration) int64 {
	m := int64(d / time.Minute)
	if d < 0 && d%time.Minute != 0 {
		m--
	}
	return m
}
