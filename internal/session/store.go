// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/session/store.go
// Summary: SQLite persistence for tab sessions.
// Usage: Open a Store, Save the TabStore's PersistableState under a session
//   id, and Load or Latest it on the next start.
// Notes: Only tab identity, order and titles are stored. Pane layouts and
//   terminal handles are runtime state.

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/framegrace/texelide/texel"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
    id         TEXT PRIMARY KEY,
    saved_at   INTEGER NOT NULL,
    active_tab INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tabs (
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    position   INTEGER NOT NULL,
    tab_id     INTEGER NOT NULL,
    kind       INTEGER NOT NULL,
    file_path  TEXT NOT NULL DEFAULT '',
    title      TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (session_id, position)
);

CREATE INDEX IF NOT EXISTS idx_sessions_saved_at ON sessions(saved_at);
`

// ErrNotFound is returned when a session id is not in the store.
var ErrNotFound = errors.New("session not found")

// Info summarises a stored session.
type Info struct {
	ID       uuid.UUID
	SavedAt  time.Time
	TabCount int
}

// Store is a SQLite-backed session store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the session database at path. Use
// ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	dsn += "?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if err := checkSchemaVersion(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func checkSchemaVersion(db *sql.DB) error {
	var current int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("failed to read schema version: %w", err)
	case current > schemaVersion:
		return fmt.Errorf("session database schema %d is newer than supported %d", current, schemaVersion)
	}
	return nil
}

// NewID returns a fresh session id.
func NewID() uuid.UUID {
	return uuid.New()
}

// Save replaces the stored state for id.
func (s *Store) Save(ctx context.Context, id uuid.UUID, state texel.PersistedState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	key := id.String()
	if _, err := tx.ExecContext(ctx, "DELETE FROM tabs WHERE session_id = ?", key); err != nil {
		return fmt.Errorf("failed to clear tabs: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, saved_at, active_tab) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at, active_tab = excluded.active_tab`,
		key, s.now().UnixNano(), int64(state.ActiveTabID)); err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO tabs (session_id, position, tab_id, kind, file_path, title) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()
	for i, tab := range state.Tabs {
		if _, err := stmt.ExecContext(ctx, key, i, int64(tab.ID), int(tab.Kind), tab.FilePath, tab.Title); err != nil {
			return fmt.Errorf("failed to insert tab %d: %w", tab.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	log.Printf("[SESSION] Saved %s with %d tabs", key, len(state.Tabs))
	return nil
}

// Load returns the stored state for id, or ErrNotFound.
func (s *Store) Load(ctx context.Context, id uuid.UUID) (texel.PersistedState, error) {
	key := id.String()
	var active int64
	err := s.db.QueryRowContext(ctx, "SELECT active_tab FROM sessions WHERE id = ?", key).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return texel.PersistedState{}, ErrNotFound
	}
	if err != nil {
		return texel.PersistedState{}, fmt.Errorf("failed to load session: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT tab_id, kind, file_path, title FROM tabs WHERE session_id = ? ORDER BY position", key)
	if err != nil {
		return texel.PersistedState{}, fmt.Errorf("failed to load tabs: %w", err)
	}
	defer rows.Close()

	state := texel.PersistedState{ActiveTabID: texel.TabID(active)}
	for rows.Next() {
		var (
			tabID int64
			kind  int
			tab   texel.PersistedTab
		)
		if err := rows.Scan(&tabID, &kind, &tab.FilePath, &tab.Title); err != nil {
			return texel.PersistedState{}, fmt.Errorf("failed to scan tab: %w", err)
		}
		tab.ID = texel.TabID(tabID)
		tab.Kind = texel.TabKind(kind)
		state.Tabs = append(state.Tabs, tab)
	}
	if err := rows.Err(); err != nil {
		return texel.PersistedState{}, fmt.Errorf("failed to read tabs: %w", err)
	}
	return state, nil
}

// Latest returns the most recently saved session, or ErrNotFound when the
// store is empty.
func (s *Store) Latest(ctx context.Context) (uuid.UUID, texel.PersistedState, error) {
	var key string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM sessions ORDER BY saved_at DESC LIMIT 1").Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, texel.PersistedState{}, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, texel.PersistedState{}, fmt.Errorf("failed to query latest session: %w", err)
	}
	id, err := uuid.Parse(key)
	if err != nil {
		return uuid.Nil, texel.PersistedState{}, fmt.Errorf("invalid session id %q: %w", key, err)
	}
	state, err := s.Load(ctx, id)
	return id, state, err
}

// List returns all sessions, newest first.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.saved_at, COUNT(t.tab_id)
		FROM sessions s LEFT JOIN tabs t ON t.session_id = s.id
		GROUP BY s.id
		ORDER BY s.saved_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var (
			key   string
			saved int64
			info  Info
		)
		if err := rows.Scan(&key, &saved, &info.TabCount); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		id, err := uuid.Parse(key)
		if err != nil {
			log.Printf("[SESSION] Skipping row with invalid id %q: %v", key, err)
			continue
		}
		info.ID = id
		info.SavedAt = time.Unix(0, saved)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes a session and its tabs.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
