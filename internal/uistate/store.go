package uistate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a named session does not exist.
var ErrNotFound = errors.New("session not found")

const storeSchema = `
CREATE TABLE IF NOT EXISTS sessions (
    name TEXT PRIMARY KEY,
    state TEXT NOT NULL,       -- Registry.Marshal output
    updated_at INTEGER NOT NULL -- UnixNano
);
`

// Session describes a saved session.
type Session struct {
	Name      string
	UpdatedAt time.Time
}

// Store keeps named UI state documents in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the session database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Save stores the registry's current state under name, replacing any
// earlier session of that name.
func (s *Store) Save(ctx context.Context, name string, r *Registry) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO sessions (name, state, updated_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		name, string(data), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("saving session %q: %w", name, err)
	}
	return nil
}

// Load applies the session called name to r. It returns ErrNotFound if no
// such session exists.
func (s *Store) Load(ctx context.Context, name string, r *Registry) error {
	var state string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM sessions WHERE name = ?`, name).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("loading session %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("loading session %q: %w", name, err)
	}
	return r.Unmarshal([]byte(state))
}

// List returns the saved sessions, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, updated_at FROM sessions ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var ts int64
		if err := rows.Scan(&sess.Name, &ts); err != nil {
			return nil, fmt.Errorf("listing sessions: %w", err)
		}
		sess.UpdatedAt = time.Unix(0, ts)
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Delete removes the session called name. It returns ErrNotFound if no such
// session exists.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting session %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting session %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("deleting session %q: %w", name, ErrNotFound)
	}
	return nil
}
