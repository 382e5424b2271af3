// Package store keeps a local sqlite snapshot of the last fetched time
// logs so exports keep working offline and the dashboard has a
// last-known-good fallback when the backend is unreachable.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// Open creates or opens the snapshot database under the config directory.
func Open() (*DB, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("finding home directory: %w", err)
	}
	return OpenAt(filepath.Join(home, ".config", "wipdash", "wipdash.db"))
}

// OpenAt opens the snapshot database at an explicit path.
func OpenAt(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	store := &DB{db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return store, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS time_logs (
			id TEXT PRIMARY KEY,
			date DATETIME NOT NULL,
			client_id TEXT NOT NULL,
			client_name TEXT NOT NULL,
			job_id TEXT NOT NULL DEFAULT '',
			job_name TEXT NOT NULL DEFAULT '',
			job_type_id TEXT NOT NULL DEFAULT '',
			job_type_name TEXT NOT NULL DEFAULT '',
			team_member_id TEXT NOT NULL DEFAULT '',
			team_member_name TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			duration_seconds INTEGER NOT NULL,
			billable_rate REAL NOT NULL DEFAULT 0,
			amount REAL NOT NULL DEFAULT 0,
			billable INTEGER NOT NULL DEFAULT 1,
			status TEXT NOT NULL DEFAULT 'notInvoiced',
			purpose_id TEXT NOT NULL DEFAULT '',
			purpose_name TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	return nil
}

func (db *DB) GetState(key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (db *DB) SetState(key, value string) error {
	_, err := db.Exec(
		"INSERT INTO state (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}
