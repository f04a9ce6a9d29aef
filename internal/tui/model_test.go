package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neo1908/cv-terminal/internal/dispatch"
)

type fakeSession struct {
	results map[string]dispatch.Result
	lines   []string
	warmErr error
	warmed  int
}

func (f *fakeSession) Execute(ctx context.Context, line string) dispatch.Result {
	f.lines = append(f.lines, line)
	if res, ok := f.results[line]; ok {
		return res
	}
	return dispatch.Result{Content: "Command not found: " + line + ". Type 'help' for available commands.", Kind: dispatch.KindError}
}

func (f *fakeSession) Warm(ctx context.Context) error {
	f.warmed++
	return f.warmErr
}

func newTestModel(t *testing.T, s *fakeSession) Model {
	t.Helper()
	fixed := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	m := New(context.Background(), s, Options{Version: "v1.0", Now: func() time.Time { return fixed }})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func typeLine(t *testing.T, m Model, line string) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	return next.(Model)
}

// submit presses enter and feeds the resulting command message back into the model.
func submit(t *testing.T, m Model) (Model, bool) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil {
		return m, false
	}
	assert.True(t, m.busy)
	assert.Contains(t, m.View(), "Processing...")
	next, _ = m.Update(cmd())
	return next.(Model), true
}

func TestViewBeforeSize(t *testing.T) {
	m := New(context.Background(), &fakeSession{}, Options{})
	assert.Equal(t, "Initializing CV Terminal...", m.View())
}

func TestWelcomeBanner(t *testing.T) {
	m := newTestModel(t, &fakeSession{})
	view := m.renderHistory()
	assert.Contains(t, view, "Welcome to CV Terminal v1.0")
	assert.Contains(t, view, "Type 'help' for available commands")
	assert.Contains(t, view, "Last login: Sun Jun 1 09:30:00 on ttys000")
	assert.Contains(t, m.View(), Prompt)
}

func TestCompactBanner(t *testing.T) {
	m := newTestModel(t, &fakeSession{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	m = next.(Model)

	view := m.renderHistory()
	assert.Contains(t, view, "Welcome to CV Terminal v1.0")
	assert.NotContains(t, view, "Last login")
	assert.NotContains(t, view, "████████╗")
}

func TestInitWarmsSession(t *testing.T) {
	s := &fakeSession{warmErr: errors.New("offline")}
	m := New(context.Background(), s, Options{})
	next, cmd := m.Update(warm(context.Background(), s)())
	assert.Nil(t, cmd)
	assert.Equal(t, 1, s.warmed)
	assert.NotNil(t, m.Init())
	assert.Equal(t, m.history, next.(Model).history)
}

func TestSubmitRendersResult(t *testing.T) {
	s := &fakeSession{results: map[string]dispatch.Result{
		"whoami": {Content: "Ada Example (Engineer)", Kind: dispatch.KindSuccess},
	}}
	m := newTestModel(t, s)
	m = typeLine(t, m, "  whoami  ")

	m, ran := submit(t, m)
	require.True(t, ran)
	assert.Equal(t, []string{"whoami"}, s.lines)
	assert.False(t, m.busy)
	assert.Empty(t, m.input.Value())

	require.Len(t, m.history, 2)
	assert.Equal(t, "whoami", m.history[1].command)
	assert.Contains(t, m.renderHistory(), "Ada Example (Engineer)")
}

func TestBlankSubmitIgnored(t *testing.T) {
	s := &fakeSession{}
	m := newTestModel(t, s)
	m = typeLine(t, m, "   ")

	m, ran := submit(t, m)
	assert.False(t, ran)
	assert.Empty(t, s.lines)
	assert.Len(t, m.history, 1)
}

func TestSubmitWhileBusyIgnored(t *testing.T) {
	s := &fakeSession{}
	m := newTestModel(t, s)
	m.busy = true
	m = typeLine(t, m, "help")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestClearEmptiesHistory(t *testing.T) {
	s := &fakeSession{results: map[string]dispatch.Result{
		"help":  {Content: "AVAILABLE COMMANDS", Kind: dispatch.KindInfo},
		"clear": {Content: dispatch.ClearSentinel, Kind: dispatch.KindInfo},
	}}
	m := newTestModel(t, s)

	m, _ = submit(t, typeLine(t, m, "help"))
	require.Len(t, m.history, 2)

	m, _ = submit(t, typeLine(t, m, "clear"))
	assert.Empty(t, m.history)
	assert.NotContains(t, m.renderHistory(), dispatch.ClearSentinel)
	assert.NotContains(t, m.renderHistory(), "Welcome")
}

func TestHistoryRecall(t *testing.T) {
	s := &fakeSession{}
	m := newTestModel(t, s)
	m, _ = submit(t, typeLine(t, m, "work"))
	m, _ = submit(t, typeLine(t, m, "skills"))

	press := func(k tea.KeyType) {
		next, _ := m.Update(tea.KeyMsg{Type: k})
		m = next.(Model)
	}

	press(tea.KeyUp)
	assert.Equal(t, "skills", m.input.Value())
	press(tea.KeyUp)
	assert.Equal(t, "work", m.input.Value())
	press(tea.KeyUp)
	assert.Equal(t, "work", m.input.Value())
	press(tea.KeyDown)
	assert.Equal(t, "skills", m.input.Value())
	press(tea.KeyDown)
	assert.Equal(t, "", m.input.Value())
	press(tea.KeyDown)
	assert.Equal(t, "", m.input.Value())
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		m := newTestModel(t, &fakeSession{})
		_, cmd := m.Update(tea.KeyMsg{Type: k})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestResultKindStyles(t *testing.T) {
	m := newTestModel(t, &fakeSession{})
	assert.Equal(t, m.theme.Error, m.styleFor(dispatch.KindError))
	assert.Equal(t, m.theme.Success, m.styleFor(dispatch.KindSuccess))
	assert.Equal(t, m.theme.Info, m.styleFor(dispatch.KindInfo))
}

func TestEchoedCommandUsesPrompt(t *testing.T) {
	m := newTestModel(t, &fakeSession{})
	m, _ = submit(t, typeLine(t, m, "nope"))
	hist := m.renderHistory()
	assert.True(t, strings.Contains(hist, "guest@cv-terminal:~$"))
	assert.Contains(t, hist, "Command not found: nope")
}
