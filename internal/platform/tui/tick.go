package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// refreshInterval is how often the browser re-reads the database so sessions
// recorded by a running server show up without restarting.
const refreshInterval = 3 * time.Second

// RefreshMsg is sent to trigger a reload of the session list.
type RefreshMsg time.Time

// refreshCmd returns a Bubble Tea command that sends a refresh message after interval.
func refreshCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return RefreshMsg(t)
	})
}
