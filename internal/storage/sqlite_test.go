package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func session(backend string, startedAt time.Time, frames int) Session {
	return Session{
		Backend:     backend,
		StartedAt:   startedAt,
		Duration:    2 * time.Second,
		Frames:      frames,
		Steps:       200,
		Overruns:    1,
		Toggles:     2,
		FixedStepMs: 10,
		IntervalMs:  16.666,
		RefreshHz:   60,
		EndReason:   "quit",
	}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)
	base := time.UnixMilli(1_700_000_000_000)

	want := session("sdl", base, 120)
	id, err := store.SaveSession(want)
	if err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("SaveSession() id = %d, expected positive", id)
	}

	sessions, err := store.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("RecentSessions() returned %d sessions, expected 1", len(sessions))
	}

	got := sessions[0]
	if got.ID != id {
		t.Errorf("ID = %d, expected %d", got.ID, id)
	}
	if !got.StartedAt.Equal(want.StartedAt) {
		t.Errorf("StartedAt = %v, expected %v", got.StartedAt, want.StartedAt)
	}
	if got.Duration != want.Duration {
		t.Errorf("Duration = %v, expected %v", got.Duration, want.Duration)
	}
	if got.Backend != "sdl" || got.Frames != 120 || got.Steps != 200 || got.Overruns != 1 || got.Toggles != 2 {
		t.Errorf("counters = %+v, expected those saved", got)
	}
	if got.FixedStepMs != 10 || got.IntervalMs != 16.666 || got.RefreshHz != 60 {
		t.Errorf("timing = %+v, expected those saved", got)
	}
	if got.EndReason != "quit" {
		t.Errorf("EndReason = %q, expected quit", got.EndReason)
	}
	if got.FPS() != 60 {
		t.Errorf("FPS() = %v, expected 60", got.FPS())
	}
}

func TestStoreRecentSessionsOrderAndLimit(t *testing.T) {
	store := openTestStore(t)
	base := time.UnixMilli(1_700_000_000_000)

	for i := range 5 {
		if _, err := store.SaveSession(session("terminal", base.Add(time.Duration(i)*time.Minute), i)); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	sessions, err := store.RecentSessions(3)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("Expected 3 sessions with limit, got %d", len(sessions))
	}
	if sessions[0].Frames != 4 || sessions[1].Frames != 3 || sessions[2].Frames != 2 {
		t.Errorf("Sessions not newest first: %v", sessions)
	}
}

func TestStoreSessionsByBackend(t *testing.T) {
	store := openTestStore(t)
	base := time.UnixMilli(1_700_000_000_000)

	store.SaveSession(session("sdl", base, 1))
	store.SaveSession(session("terminal", base, 2))
	store.SaveSession(session("sdl", base.Add(time.Second), 3))

	sessions, err := store.SessionsByBackend("sdl", 0)
	if err != nil {
		t.Fatalf("SessionsByBackend() failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sdl sessions, got %d", len(sessions))
	}
	for _, s := range sessions {
		if s.Backend != "sdl" {
			t.Errorf("Backend = %q, expected sdl", s.Backend)
		}
	}
}

func TestStoreTotals(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.Totals()
	if err != nil {
		t.Fatalf("Totals() on empty store failed: %v", err)
	}
	if empty.Sessions != 0 || !empty.LastRun.IsZero() {
		t.Errorf("empty Totals() = %+v, expected zero", empty)
	}

	base := time.UnixMilli(1_700_000_000_000)
	store.SaveSession(session("sdl", base, 100))
	store.SaveSession(session("sdl", base.Add(time.Hour), 50))

	totals, err := store.Totals()
	if err != nil {
		t.Fatalf("Totals() failed: %v", err)
	}
	if totals.Sessions != 2 || totals.Frames != 150 || totals.Steps != 400 {
		t.Errorf("Totals() = %+v, expected 2 sessions, 150 frames, 400 steps", totals)
	}
	if totals.Duration != 4*time.Second {
		t.Errorf("Duration = %v, expected 4s", totals.Duration)
	}
	if !totals.LastRun.Equal(base.Add(time.Hour)) {
		t.Errorf("LastRun = %v, expected %v", totals.LastRun, base.Add(time.Hour))
	}
}

func TestStoreClearSessions(t *testing.T) {
	store := openTestStore(t)
	store.SaveSession(session("headless", time.Now(), 1))

	if err := store.ClearSessions(); err != nil {
		t.Fatalf("ClearSessions() failed: %v", err)
	}
	sessions, err := store.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("Expected no sessions after clear, got %d", len(sessions))
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestParseTime(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	if got := parseTime(ts); !got.Equal(ts) {
		t.Errorf("parseTime(time) = %v, expected %v", got, ts)
	}
	if got := parseTime("2024-05-01 12:30:00"); !got.Equal(ts) {
		t.Errorf("parseTime(string) = %v, expected %v", got, ts)
	}
	if got := parseTime(nil); !got.IsZero() {
		t.Errorf("parseTime(nil) = %v, expected zero", got)
	}
}
