// Package storage persists loop session records in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Session is one finished run of the loop.
type Session struct {
	ID          int64
	Backend     string
	StartedAt   time.Time
	Duration    time.Duration
	Frames      int
	Steps       int
	Overruns    int
	Toggles     int
	FixedStepMs float64
	IntervalMs  float64
	RefreshHz   int
	EndReason   string
	CreatedAt   time.Time
}

// FPS returns the average frame rate of the session.
func (s Session) FPS() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Duration.Seconds()
}

// Totals aggregates every stored session.
type Totals struct {
	Sessions int
	Frames   int64
	Steps    int64
	Duration time.Duration
	LastRun  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			backend TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			frames INTEGER NOT NULL DEFAULT 0,
			steps INTEGER NOT NULL DEFAULT 0,
			overruns INTEGER NOT NULL DEFAULT 0,
			toggles INTEGER NOT NULL DEFAULT 0,
			fixed_step_ms REAL NOT NULL,
			interval_ms REAL NOT NULL,
			refresh_hz INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at DESC);
		CREATE INDEX IF NOT EXISTS idx_sessions_backend ON sessions(backend);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession records a finished session.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(sess Session) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO sessions
		 (backend, started_at, duration_ms, frames, steps, overruns, toggles,
		  fixed_step_ms, interval_ms, refresh_hz, end_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.Backend,
		sess.StartedAt.UnixMilli(),
		sess.Duration.Milliseconds(),
		sess.Frames,
		sess.Steps,
		sess.Overruns,
		sess.Toggles,
		sess.FixedStepMs,
		sess.IntervalMs,
		sess.RefreshHz,
		sess.EndReason,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const sessionColumns = `id, backend, started_at, duration_ms, frames, steps, overruns, toggles,
		        fixed_step_ms, interval_ms, refresh_hz, end_reason, created_at`

// RecentSessions retrieves the latest sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+sessionColumns+`
		 FROM sessions
		 ORDER BY started_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	return scanSessions(rows)
}

// SessionsByBackend retrieves the latest sessions of one backend, newest first.
func (s *Store) SessionsByBackend(backend string, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+sessionColumns+`
		 FROM sessions
		 WHERE backend = ?
		 ORDER BY started_at DESC, id DESC
		 LIMIT ?`,
		backend, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	return scanSessions(rows)
}

func scanSessions(rows *sql.Rows) ([]Session, error) {
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			sess       Session
			startedMs  int64
			durationMs int64
			createdAt  any
		)
		if err := rows.Scan(
			&sess.ID,
			&sess.Backend,
			&startedMs,
			&durationMs,
			&sess.Frames,
			&sess.Steps,
			&sess.Overruns,
			&sess.Toggles,
			&sess.FixedStepMs,
			&sess.IntervalMs,
			&sess.RefreshHz,
			&sess.EndReason,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		sess.StartedAt = time.UnixMilli(startedMs)
		sess.Duration = time.Duration(durationMs) * time.Millisecond
		sess.CreatedAt = parseTime(createdAt)
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sessions, nil
}

// parseTime handles both time.Time and string datetimes returned by the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Totals aggregates all sessions.
func (s *Store) Totals() (Totals, error) {
	var (
		t        Totals
		frames   sql.NullInt64
		steps    sql.NullInt64
		duration sql.NullInt64
		last     sql.NullInt64
	)
	err := s.db.QueryRow(
		`SELECT COUNT(*), SUM(frames), SUM(steps), SUM(duration_ms), MAX(started_at)
		 FROM sessions`,
	).Scan(&t.Sessions, &frames, &steps, &duration, &last)
	if err != nil {
		return Totals{}, fmt.Errorf("storage: cannot query totals: %w", err)
	}

	t.Frames = frames.Int64
	t.Steps = steps.Int64
	t.Duration = time.Duration(duration.Int64) * time.Millisecond
	if last.Valid {
		t.LastRun = time.UnixMilli(last.Int64)
	}
	return t, nil
}

// ClearSessions deletes every session record.
func (s *Store) ClearSessions() error {
	if _, err := s.db.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}
