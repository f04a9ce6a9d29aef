package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/neo1908/cv-terminal/internal/dispatch"
)

// Prompt is printed before the input line and before each echoed command.
const Prompt = "guest@cv-terminal:~$ "

// Session is the command backend the terminal drives.
type Session interface {
	Execute(ctx context.Context, line string) dispatch.Result
	Warm(ctx context.Context) error
}

// Options tunes a Model.
type Options struct {
	Version string
	// Now stamps the banner's last-login line. Defaults to time.Now.
	Now func() time.Time
}

type historyItem struct {
	command string
	result  dispatch.Result
	// banner items render the welcome text at the current width.
	banner bool
}

// Model is the BubbleTea model for the CV terminal.
type Model struct {
	session Session
	ctx     context.Context

	width  int
	height int
	ready  bool

	input    textinput.Model
	viewport viewport.Model
	theme    Theme

	history []historyItem
	busy    bool

	// recall holds submitted lines for up/down navigation; recallIdx == len(recall) is the fresh line.
	recall    []string
	recallIdx int

	version string
	loginAt time.Time
}

type resultMsg struct {
	line   string
	result dispatch.Result
}

type warmDoneMsg struct{ err error }

// New creates a terminal model. ctx bounds every command the model runs.
func New(ctx context.Context, session Session, opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	ti := textinput.New()
	ti.Prompt = Prompt
	theme := NewDefaultTheme()
	ti.PromptStyle = theme.Prompt
	ti.Focus()

	return Model{
		session: session,
		ctx:     ctx,
		input:   ti,
		theme:   theme,
		history: []historyItem{{banner: true}},
		version: opts.Version,
		loginAt: now(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		warm(m.ctx, m.session),
	)
}

func warm(ctx context.Context, s Session) tea.Cmd {
	return func() tea.Msg {
		return warmDoneMsg{err: s.Warm(ctx)}
	}
}

func execute(ctx context.Context, s Session, line string) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{line: line, result: s.Execute(ctx, line)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "up":
			m.recallPrev()
			return m, nil
		case "down":
			m.recallNext()
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := max(msg.Height-2, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.input.Width = max(msg.Width-len(Prompt)-1, 1)
		m.refresh()
		return m, nil

	case resultMsg:
		m.busy = false
		if msg.result.IsClear() {
			m.history = nil
		} else {
			m.history = append(m.history, historyItem{command: msg.line, result: msg.result})
		}
		m.refresh()
		return m, nil

	case warmDoneMsg:
		// Failures are logged by the session and surface on the next data command.
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" || m.busy {
		return m, nil
	}

	m.input.Reset()
	m.busy = true
	m.recall = append(m.recall, line)
	m.recallIdx = len(m.recall)
	m.refresh()
	return m, execute(m.ctx, m.session, line)
}

func (m *Model) recallPrev() {
	if m.recallIdx == 0 {
		return
	}
	m.recallIdx--
	m.input.SetValue(m.recall[m.recallIdx])
	m.input.CursorEnd()
}

func (m *Model) recallNext() {
	if m.recallIdx >= len(m.recall) {
		return
	}
	m.recallIdx++
	if m.recallIdx == len(m.recall) {
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.recall[m.recallIdx])
	m.input.CursorEnd()
}

// refresh re-renders history into the viewport and scrolls to the newest output.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m Model) renderHistory() string {
	blocks := make([]string, 0, len(m.history))
	for _, item := range m.history {
		if item.banner {
			blocks = append(blocks, renderBanner(m.theme, m.width, m.version, m.loginAt))
			continue
		}
		block := m.theme.Prompt.Render(Prompt) + m.theme.Command.Render(item.command)
		if item.result.Content != "" {
			block += "\n" + m.styleFor(item.result.Kind).Render(item.result.Content)
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) styleFor(kind dispatch.Kind) lipgloss.Style {
	switch kind {
	case dispatch.KindError:
		return m.theme.Error
	case dispatch.KindSuccess:
		return m.theme.Success
	default:
		return m.theme.Info
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing CV Terminal..."
	}

	bottom := m.input.View()
	if m.busy {
		bottom = m.theme.Dim.Render("Processing...")
	}
	return m.viewport.View() + "\n" + bottom
}

// Run starts the terminal on the alternate screen and blocks until the user quits.
func Run(ctx context.Context, session Session, opts Options) error {
	p := tea.NewProgram(New(ctx, session, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
