package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

const fixtureSchema = `
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

// CreateStateFixture creates a state database fixture with pre-seeded
// rows. Either JSON document may be empty to leave its table empty.
func CreateStateFixture(t *testing.T, dbPath, storeStateJSON, handoffJSON string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(fixtureSchema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	now := time.Now().Format(time.RFC3339)
	if storeStateJSON != "" {
		if _, err := db.Exec(`INSERT INTO store_state (k, data, updated_at) VALUES (1, ?, ?)`, storeStateJSON, now); err != nil {
			t.Fatalf("Failed to insert store state: %v", err)
		}
	}
	if handoffJSON != "" {
		if _, err := db.Exec(`INSERT INTO handoff (k, data, created_at) VALUES (1, ?, ?)`, handoffJSON, now); err != nil {
			t.Fatalf("Failed to insert handoff: %v", err)
		}
	}
}
