// Package tui provides the Bubble Tea session history browser.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tickengine/internal/storage"
)

// Browser layout constants
const (
	minWidthForSidebar = 100 // Minimum width to show the detail sidebar
	sidebarWidth       = 28  // Width of the detail sidebar
	maxSessions        = 200 // Max sessions to load
)

// Filters lists the backend filters, "all" first.
var Filters = []string{"all", "sdl", "terminal", "headless", "ssh"}

// SessionSource loads stored sessions.
type SessionSource interface {
	RecentSessions(limit int) ([]storage.Session, error)
	SessionsByBackend(backend string, limit int) ([]storage.Session, error)
}

// SessionsKeyMap defines the key bindings for the browser.
type SessionsKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextFilter key.Binding
	PrevFilter key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SessionsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextFilter, k.PrevFilter, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k SessionsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextFilter, k.PrevFilter, k.Quit},
	}
}

// DefaultSessionsKeyMap returns default key bindings.
func DefaultSessionsKeyMap() SessionsKeyMap {
	return SessionsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextFilter: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next backend"),
		),
		PrevFilter: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev backend"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SessionsModel is the Bubble Tea model for the session history.
type SessionsModel struct {
	source      SessionSource
	filter      int
	sessions    []storage.Session
	loadErr     error
	table       table.Model
	help        help.Model
	keys        SessionsKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewSessionsModel creates the browser and loads every session.
func NewSessionsModel(source SessionSource, width, height int) SessionsModel {
	h := help.New()
	h.ShowAll = false

	m := SessionsModel{
		source:      source,
		keys:        DefaultSessionsKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table sized for the window.
func (m *SessionsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Started", Width: 13},
		{Title: "Backend", Width: 9},
		{Title: "Length", Width: 8},
		{Title: "Frames", Width: 8},
		{Title: "FPS", Width: 6},
		{Title: "Steps", Width: 8},
		{Title: "End", Width: 12},
	}

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load fetches the sessions for the current filter.
func (m *SessionsModel) load() {
	m.sessions, m.loadErr = nil, nil
	if m.source != nil {
		if f := Filters[m.filter]; f == "all" {
			m.sessions, m.loadErr = m.source.RecentSessions(maxSessions)
		} else {
			m.sessions, m.loadErr = m.source.SessionsByBackend(f, maxSessions)
		}
	}
	m.updateTableRows()
}

// updateTableRows refreshes the table from the loaded sessions.
func (m *SessionsModel) updateTableRows() {
	rows := make([]table.Row, len(m.sessions))
	for i, s := range m.sessions {
		rows[i] = SessionRow(s)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// SessionRow formats a session as table cells.
func SessionRow(s storage.Session) table.Row {
	return table.Row{
		s.StartedAt.Format("Jan 02 15:04"),
		s.Backend,
		s.Duration.Round(100 * time.Millisecond).String(),
		fmt.Sprintf("%d", s.Frames),
		fmt.Sprintf("%.1f", s.FPS()),
		fmt.Sprintf("%d", s.Steps),
		s.EndReason,
	}
}

// Filter returns the active backend filter.
func (m SessionsModel) Filter() string {
	return Filters[m.filter]
}

// Sessions returns the loaded sessions.
func (m SessionsModel) Sessions() []storage.Session {
	return m.sessions
}

// Init starts the periodic refresh.
func (m SessionsModel) Init() tea.Cmd {
	return refreshCmd(refreshInterval)
}

// reload fetches the sessions again, keeping the cursor where it was.
func (m *SessionsModel) reload() {
	cursor := m.table.Cursor()
	m.load()
	if n := len(m.sessions); n > 0 {
		m.table.SetCursor(min(cursor, n-1))
	}
}

// Update handles messages for the browser.
func (m SessionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextFilter):
			m.filter = (m.filter + 1) % len(Filters)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevFilter):
			m.filter--
			if m.filter < 0 {
				m.filter = len(Filters) - 1
			}
			m.load()
			return m, nil
		}

	case RefreshMsg:
		m.reload()
		return m, refreshCmd(refreshInterval)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the browser.
func (m SessionsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("LOOP SESSIONS", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	content := tableStyle.Render(m.renderTableContent())

	if m.showSidebar {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, "  ", m.renderDetail())
	}
	b.WriteString(content)

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTabs renders the backend filters with the active one highlighted.
func (m SessionsModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(Filters))
	for i, f := range Filters {
		if i == m.filter {
			tabs[i] = activeTabStyle.Render(f)
		} else {
			tabs[i] = tabStyle.Render(" " + f + " ")
		}
	}
	return strings.Join(tabs, " ")
}

// renderDetail renders the selected session's timing in a sidebar.
func (m SessionsModel) renderDetail() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var b strings.Builder
	b.WriteString("Details\n")
	b.WriteString(strings.Repeat("-", sidebarWidth-4))
	b.WriteString("\n")

	i := m.table.Cursor()
	if i < 0 || i >= len(m.sessions) {
		b.WriteString("nothing selected")
		return sidebarStyle.Render(b.String())
	}

	s := m.sessions[i]
	fmt.Fprintf(&b, "step      %.2f ms\n", s.FixedStepMs)
	fmt.Fprintf(&b, "interval  %.2f ms\n", s.IntervalMs)
	fmt.Fprintf(&b, "refresh   %d Hz\n", s.RefreshHz)
	fmt.Fprintf(&b, "overruns  %d\n", s.Overruns)
	fmt.Fprintf(&b, "toggles   %d\n", s.Toggles)
	fmt.Fprintf(&b, "saved     %s", s.CreatedAt.Format("2006-01-02 15:04"))
	return sidebarStyle.Render(b.String())
}

// renderTableContent renders the table or an empty message.
func (m SessionsModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	if m.loadErr != nil {
		return emptyStyle.Render("Could not load sessions:\n" + m.loadErr.Error())
	}
	if len(m.sessions) == 0 {
		return emptyStyle.Render("No sessions recorded yet.\nRun 'tickengine run' to record one!")
	}
	return m.table.View()
}

// centerText pads text so it is centered in width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunSessions runs the browser until the user quits.
func RunSessions(source SessionSource, width, height int) error {
	p := tea.NewProgram(
		NewSessionsModel(source, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
