// Package history persists pane lifecycle events to a local SQLite database
// so past runs can be inspected after the host exits.
package history

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS pane_events (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    pane_id   TEXT NOT NULL,
    name      TEXT NOT NULL DEFAULT '',
    event     TEXT NOT NULL,
    at        TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pane_events_at ON pane_events(at);
`

// Store wraps the SQLite database holding the lifecycle log.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open creates or opens the database at $XDG_STATE_HOME/shimux/history.db.
func Open(log *slog.Logger) (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(home, ".local", "state")
	}
	dir := filepath.Join(stateHome, "shimux")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return OpenAt(filepath.Join(dir, "history.db"), log)
}

// OpenAt opens the database at an explicit path.
func OpenAt(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}

	// WAL mode for safe concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, log: log}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one lifecycle event. It satisfies the registry's recorder
// seam, which carries no error channel, so failures are logged and dropped.
func (s *Store) Record(paneID, name, event string, at time.Time) {
	_, err := s.db.Exec(`
		INSERT INTO pane_events (pane_id, name, event, at)
		VALUES (?, ?, ?, ?)
	`, paneID, name, event, at.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		s.log.Warn("history write failed", "pane", paneID, "event", event, "err", err)
	}
}

// Entry is one recorded lifecycle event.
type Entry struct {
	PaneID string
	Name   string
	Event  string
	At     time.Time
}

// ListRecent returns the newest events first, up to limit.
func (s *Store) ListRecent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT pane_id, name, event, at
		FROM pane_events
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var e Entry
		var at string
		if err := rows.Scan(&e.PaneID, &e.Name, &e.Event, &at); err != nil {
			return nil, err
		}
		e.At, _ = time.Parse("2006-01-02 15:04:05", at)
		result = append(result, e)
	}
	return result, rows.Err()
}
