package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// StateDB is the local state database. It persists the report collection
// between runs and carries the one-shot hand-off channel the dashboard's
// edit action writes for the chat loop.
type StateDB struct {
	db *sql.DB
}

const stateSchema = `
CREATE TABLE IF NOT EXISTS store_state (
	k INTEGER PRIMARY KEY CHECK (k = 1),
	data TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS handoff (
	k INTEGER PRIMARY KEY CHECK (k = 1),
	data TEXT NOT NULL,
	created_at TEXT NOT NULL
);`

// OpenStateDB opens (creating if needed) the state database at path
func OpenStateDB(path string) (*StateDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if _, err := db.Exec(stateSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &StateDB{db: db}, nil
}

// Close closes the database
func (s *StateDB) Close() error {
	return s.db.Close()
}

// SaveStoreState persists a report store snapshot
func (s *StateDB) SaveStoreState(state *StoreState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal store state: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO store_state (k, data, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(k) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(data), time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save store state: %w", err)
	}
	return nil
}

// LoadStoreState loads the persisted report store snapshot. It returns
// nil without error when no snapshot exists; a corrupt snapshot is logged
// and treated as absent.
func (s *StateDB) LoadStoreState() (*StoreState, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM store_state WHERE k = 1`).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load store state: %w", err)
	}

	var state StoreState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		LogWarn("discarding corrupt store state: %v", err)
		return nil, nil
	}
	return &state, nil
}

// WriteHandoff stores a hand-off payload, replacing any unconsumed one
func (s *StateDB) WriteHandoff(payload *HandoffPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal handoff: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO handoff (k, data, created_at) VALUES (1, ?, ?)
		 ON CONFLICT(k) DO UPDATE SET data = excluded.data, created_at = excluded.created_at`,
		string(data), time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write handoff: %w", err)
	}
	return nil
}

// ConsumeHandoff reads and deletes the hand-off payload in one
// transaction, so a second consumer (or a reload) finds nothing. It
// returns nil when no payload is pending; a corrupt payload is logged,
// discarded and reported as absent.
func (s *StateDB) ConsumeHandoff() (*HandoffPayload, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin handoff consume: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var data string
	err = tx.QueryRow(`SELECT data FROM handoff WHERE k = 1`).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read handoff: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM handoff WHERE k = 1`); err != nil {
		return nil, fmt.Errorf("clear handoff: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit handoff consume: %w", err)
	}

	var payload HandoffPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		LogWarn("discarding corrupt handoff payload: %v", err)
		return nil, nil
	}
	return &payload, nil
}
