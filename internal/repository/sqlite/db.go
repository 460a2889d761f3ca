// Package sqlite implements C10's durable repository backing store: the
// same DeckRepository/MatchRepository contracts as internal/repository's
// in-memory implementations, stored as JSON blobs under a thin relational
// envelope, following the teacher's internal/database package (itself
// grounded on peterwoodman-lords-of-conquest's modernc.org/sqlite usage,
// chosen over mattn/go-sqlite3 so the binary stays CGo-free).
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the shared *sql.DB connection both repositories use.
type DB struct {
	conn *sql.DB
}

// Open opens (creating if necessary) a SQLite database at dsn and runs
// migrations. dsn may be ":memory:" for tests.
func Open(dsn string) (*DB, error) {
	if dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	conn, err := sql.Open("sqlite", dsn+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS decks (
			id            TEXT PRIMARY KEY,
			tournament_id TEXT,
			json_state    TEXT NOT NULL,
			updated_at    DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_decks_tournament ON decks(tournament_id);

		CREATE TABLE IF NOT EXISTS matches (
			id            TEXT PRIMARY KEY,
			tournament_id TEXT,
			json_state    TEXT NOT NULL,
			updated_at    DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_matches_tournament ON matches(tournament_id);
	`)
	return err
}
