package dispatch

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neo1908/cv-terminal/internal/cache"
	"github.com/neo1908/cv-terminal/internal/cv"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"empty", "", 10, nil},
		{"fits", "short line", 10, []string{"short line"}},
		{"breaks between words", "alpha beta gamma", 10, []string{"alpha beta", "gamma"}},
		{"long word alone", "a supercalifragilistic b", 8, []string{"a", "supercalifragilistic", "b"}},
		{"collapses whitespace", "  one   two  ", 20, []string{"one two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrap(tt.text, tt.width))
		})
	}
}

func TestBulletsWrapWithIndent(t *testing.T) {
	long := strings.Repeat("word ", 20)
	lines := bullets([]string{"first", long})

	require.Greater(t, len(lines), 2)
	assert.Equal(t, "• first", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], bullet))
	for _, cont := range lines[2:] {
		assert.True(t, strings.HasPrefix(cont, bulletIndent))
		assert.False(t, strings.HasPrefix(cont, bullet))
	}
	for _, l := range lines {
		assert.LessOrEqual(t, lipgloss.Width(l), wrapWidth+lipgloss.Width(bullet))
	}
}

func TestBoxLinesShareWidth(t *testing.T) {
	out := box("PERSONAL INFORMATION", []string{"Name:         Zoë Ünïcode", "plain"})
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, boxInner+2, lipgloss.Width(line), "line %q", line)
	}
}

func TestBoxTitleCentred(t *testing.T) {
	top := boxTop("HELP")
	assert.Contains(t, top, " HELP ")
	assert.True(t, strings.HasPrefix(top, "┌─"))
	assert.True(t, strings.HasSuffix(top, "─┐"))
}

func TestFloorMinutes(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want int64
	}{
		{0, 0},
		{59 * time.Second, 0},
		{time.Minute, 1},
		{7*time.Minute + 30*time.Second, 7},
		{-30 * time.Second, -1},
		{-2 * time.Minute, -2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, floorMinutes(tt.d), "duration %v", tt.d)
	}
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "Leeds, GB", joinNonEmpty(", ", "Leeds", " ", "GB"))
	assert.Equal(t, "", joinNonEmpty(", "))
}

func TestEntriesHaveNoInternalBlankLines(t *testing.T) {
	doc := testDocument()
	for name, out := range map[string]string{
		"education": formatEducation(doc),
		"skills":    formatSkills(doc),
		"projects":  formatProjects(doc),
		"interests": formatInterests(doc),
	} {
		assert.NotContains(t, out, "\n\n\n", name)
		blocks := strings.Split(out, "\n\n")
		// heading plus one block per entry
		assert.Greater(t, len(blocks), 1, name)
	}
}

func TestFormatWorkEndDate(t *testing.T) {
	out := formatWork(testDocument())
	assert.Contains(t, out, "2020-01 - Present")
	assert.Contains(t, out, "2018-06 - 2019-12")
	assert.Equal(t, 1, strings.Count(out, "Key Achievements:"))
}

func TestFormatWorkIsBoxed(t *testing.T) {
	out := formatWork(testDocument())
	lines := strings.Split(out, "\n")

	assert.Equal(t, boxTop("WORK EXPERIENCE"), lines[0])
	assert.Equal(t, boxBottom(), lines[len(lines)-1])
	for _, line := range lines {
		assert.Equal(t, boxInner+2, lipgloss.Width(line), "line %q", line)
	}

	assert.Equal(t, []string{
		boxTop("WORK EXPERIENCE"),
		boxBlank(),
		boxRow("Engineer"),
		boxRow("    Acme"),
		boxRow("    2020-01 - Present"),
		boxBlank(),
		boxRow("    Key Achievements:"),
		boxRow("    • Shipped X"),
		boxBlank(),
		boxRow("Intern"),
		boxRow("    Globex"),
		boxRow("    2018-06 - 2019-12"),
		boxBlank(),
		boxBottom(),
	}, lines)
}

func TestFormatInfo(t *testing.T) {
	out := formatInfo(testDocument())
	assert.Contains(t, out, "Ada Example")
	assert.Contains(t, out, "Leeds, West Yorkshire, GB")
	assert.True(t, strings.HasSuffix(out, "PROFESSIONAL SUMMARY\nBuilds reliable distributed systems."))

	doc := testDocument()
	doc.Basics.Summary = ""
	assert.NotContains(t, formatInfo(doc), "PROFESSIONAL SUMMARY")
}

func TestFormatWhoamiWithoutLabel(t *testing.T) {
	doc := &cv.Document{Basics: cv.Basics{Name: "Ada"}}
	assert.Equal(t, "Ada", formatWhoami(doc))
}

func TestFormatContact(t *testing.T) {
	out := formatContact(testDocument())
	assert.Equal(t, "Contact Information:\n\nEmail: ada@example.com\nLocation: Leeds, West Yorkshire\n\nSocial Profiles:\nGitHub: https://github.com/ada", out)

	doc := testDocument()
	doc.Basics.Profiles = nil
	assert.NotContains(t, formatContact(doc), "Social Profiles")
}

func TestFormatLanguages(t *testing.T) {
	assert.Equal(t, "Languages:\n\nEnglish: Native\n\nFrench: Basic", formatLanguages(testDocument()))
}

func TestFormatEmptySections(t *testing.T) {
	doc := &cv.Document{}
	assert.Equal(t, box("WORK EXPERIENCE", nil), formatWork(doc))
	assert.Equal(t, "Projects:", formatProjects(doc))
}

func TestFormatCacheEmpty(t *testing.T) {
	assert.Equal(t, "Cache Status:\n\nStatus: No cache\nTTL: 5 minutes",
		formatCache(cache.Status{TTL: 5 * time.Minute}))
	assert.Equal(t, "Cache Status:\n\nStatus: Cached\nAge: 1 minutes\nTTL: 5 minutes\nExpires in: 4 minutes",
		formatCache(cache.Status{Cached: true, Age: 90 * time.Second, TTL: 5 * time.Minute}))
}
