package watch

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/neo1908/cv-terminal/internal/cv"
	"github.com/neo1908/cv-terminal/internal/events"
)

const (
	maxEventLog    = 50
	statusInterval = 5 * time.Second
)

// Model is the BubbleTea model for the watch view.
type Model struct {
	apiURL string

	width  int
	height int

	cache    CacheState
	eventLog []events.Event
	lastID   int64

	theme     Theme
	hubEvents chan events.Event
	lastError string
}

// New creates a watch model for the API at apiURL.
func New(apiURL string) Model {
	return Model{
		apiURL:    apiURL,
		theme:     NewDefaultTheme(),
		hubEvents: make(chan events.Event, 100),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		subscribeToEvents(m.apiURL, 0, m.hubEvents),
		receiveNextEvent(m.hubEvents),
		func() tea.Msg { return fetchStatus(m.apiURL) },
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case eventMsg:
		e := events.Event(msg)
		if e.ID > m.lastID {
			m.lastID = e.ID
		}

		// Newest first
		m.eventLog = append([]events.Event{e}, m.eventLog...)
		if len(m.eventLog) > maxEventLog {
			m.eventLog = m.eventLog[:maxEventLog]
		}
		m.cache.Connected = true
		m.lastError = ""

		cmds := []tea.Cmd{receiveNextEvent(m.hubEvents)}
		// Cache transitions change the header; refresh it now rather than on the next poll.
		if e.Type != events.CommandExecuted {
			cmds = append(cmds, func() tea.Msg { return fetchStatus(m.apiURL) })
		}
		return m, tea.Batch(cmds...)

	case statusMsg:
		m.cache = CacheState{
			Cached:    msg.Cached,
			State:     msg.State,
			TTL:       time.Duration(msg.TTLMS) * time.Millisecond,
			Digest:    cv.ShortDigest(msg.Digest),
			Connected: true,
			LastCheck: time.Now(),
		}
		if msg.AgeMS != nil {
			m.cache.Age = time.Duration(*msg.AgeMS) * time.Millisecond
		}
		m.lastError = ""
		return m, tea.Tick(statusInterval, func(time.Time) tea.Msg {
			return fetchStatus(m.apiURL)
		})

	case sseDisconnectedMsg:
		m.cache.Connected = false
		m.lastError = "SSE disconnected, reconnecting..."
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return reconnectMsg{}
		})

	case reconnectMsg:
		return m, subscribeToEvents(m.apiURL, m.lastID, m.hubEvents)

	case errMsg:
		m.cache.Connected = false
		m.lastError = msg.Error()
		return m, tea.Tick(statusInterval, func(time.Time) tea.Msg {
			return fetchStatus(m.apiURL)
		})
	}

	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing watch..."
	}

	parts := []string{
		renderHeader(m.cache, m.apiURL, m.theme, m.width),
		renderEventStream(m.eventLog, m.theme, m.width),
	}
	if m.lastError != "" {
		parts = append(parts, m.theme.StatusFailed.Render(fmt.Sprintf(" ⚠ %s", m.lastError)))
	}
	parts = append(parts, m.theme.Dim.Render(" [q] Quit"))

	return lipgloss.NewStyle().Margin(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
}

// Run starts the watch view and blocks until the user quits.
func Run(apiURL string) error {
	p := tea.NewProgram(New(apiURL), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
