// Package store persists channel bindings, pairing codes and schedule
// definitions in SQLite.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// Open initializes the database and creates tables on first use.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %v", err)
	}
	// Binding writes must be atomic under concurrent senders.
	db.SetMaxOpenConns(1)

	query := `
	CREATE TABLE IF NOT EXISTS bindings (
		channel TEXT,
		sender_id TEXT,
		agent_id TEXT NOT NULL,
		bot_name TEXT,
		created_at DATETIME,
		PRIMARY KEY(channel, sender_id)
	);
	CREATE TABLE IF NOT EXISTS pairing_codes (
		code TEXT PRIMARY KEY,
		agent_id TEXT NOT NULL,
		expires_at DATETIME,
		used INTEGER DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS schedules (
		id TEXT PRIMARY KEY,
		agent_id TEXT NOT NULL,
		name TEXT,
		expression TEXT NOT NULL,
		prompt TEXT NOT NULL,
		enabled INTEGER DEFAULT 1,
		last_run DATETIME,
		last_result TEXT
	);
	`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to initialize store tables: %v", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
