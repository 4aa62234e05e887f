package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tickengine/internal/storage"
)

type fakeSource struct {
	sessions []storage.Session
	err      error
}

func (f fakeSource) RecentSessions(limit int) ([]storage.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sessions, nil
}

func (f fakeSource) SessionsByBackend(backend string, limit int) ([]storage.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []storage.Session
	for _, s := range f.sessions {
		if s.Backend == backend {
			out = append(out, s)
		}
	}
	return out, nil
}

func testSessions() []storage.Session {
	start := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	return []storage.Session{
		{Backend: "sdl", StartedAt: start, Duration: 2 * time.Second, Frames: 120, Steps: 200, EndReason: "quit"},
		{Backend: "terminal", StartedAt: start, Duration: time.Second, Frames: 30, Steps: 100, EndReason: "cancelled"},
		{Backend: "sdl", StartedAt: start, Duration: time.Second, Frames: 60, Steps: 100, EndReason: "deadline"},
	}
}

func press(m SessionsModel, msg tea.KeyMsg) (SessionsModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(SessionsModel), cmd
}

func TestSessionsFilterCycles(t *testing.T) {
	m := NewSessionsModel(fakeSource{sessions: testSessions()}, 120, 40)

	if m.Filter() != "all" || len(m.Sessions()) != 3 {
		t.Fatalf("initial filter %q with %d sessions, expected all with 3", m.Filter(), len(m.Sessions()))
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Filter() != "sdl" || len(m.Sessions()) != 2 {
		t.Errorf("after tab: filter %q with %d sessions, expected sdl with 2", m.Filter(), len(m.Sessions()))
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Filter() != Filters[len(Filters)-1] {
		t.Errorf("after wrapping back: filter %q, expected %q", m.Filter(), Filters[len(Filters)-1])
	}
	if len(m.Sessions()) != 0 {
		t.Errorf("ssh filter has %d sessions, expected 0", len(m.Sessions()))
	}
}

func TestSessionsQuit(t *testing.T) {
	m := NewSessionsModel(fakeSource{}, 80, 24)

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("quit key returned nil command")
	}
	if m.View() != "" {
		t.Error("View() after quit is not empty")
	}
}

func TestSessionsViewEmptyAndError(t *testing.T) {
	m := NewSessionsModel(fakeSource{}, 80, 24)
	if !strings.Contains(m.View(), "No sessions recorded yet.") {
		t.Error("empty View() missing placeholder")
	}

	m = NewSessionsModel(fakeSource{err: errors.New("locked")}, 80, 24)
	if !strings.Contains(m.View(), "locked") {
		t.Error("View() does not show the load error")
	}
}

func TestSessionsViewShowsDetailWhenWide(t *testing.T) {
	m := NewSessionsModel(fakeSource{sessions: testSessions()}, 80, 30)
	if strings.Contains(m.View(), "Details") {
		t.Error("narrow View() shows the sidebar")
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 30})
	m = next.(SessionsModel)
	if !strings.Contains(m.View(), "Details") {
		t.Error("wide View() missing the sidebar")
	}
}

func TestSessionRow(t *testing.T) {
	row := SessionRow(testSessions()[0])
	expected := []string{"May 01 12:30", "sdl", "2s", "120", "60.0", "200", "quit"}
	if len(row) != len(expected) {
		t.Fatalf("SessionRow() has %d cells, expected %d", len(row), len(expected))
	}
	for i := range expected {
		if row[i] != expected[i] {
			t.Errorf("cell %d = %q, expected %q", i, row[i], expected[i])
		}
	}
}

func TestCenterText(t *testing.T) {
	if got := centerText("ab", 6); got != "  ab" {
		t.Errorf("centerText() = %q, expected %q", got, "  ab")
	}
	if got := centerText("abcdef", 4); got != "abcdef" {
		t.Errorf("centerText() = %q, expected unchanged", got)
	}
}

func TestSessionsRefreshPicksUpNewRows(t *testing.T) {
	src := &fakeSource{sessions: testSessions()[:1]}
	m := NewSessionsModel(src, 80, 24)
	if m.Init() == nil {
		t.Fatal("Init() returned nil command")
	}

	src.sessions = testSessions()
	next, cmd := m.Update(RefreshMsg(time.Now()))
	m = next.(SessionsModel)

	if len(m.Sessions()) != 3 {
		t.Errorf("after refresh: %d sessions, expected 3", len(m.Sessions()))
	}
	if cmd == nil {
		t.Error("refresh did not schedule the next one")
	}
}
