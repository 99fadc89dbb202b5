// Package sqlite stores the catalog and conversation records in a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver registered by go-sqlite3
const DriverName = "sqlite3"

// timeLayout is how timestamps are written to TEXT columns
const timeLayout = time.RFC3339Nano

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id       TEXT    NOT NULL UNIQUE,
		name             TEXT    NOT NULL,
		category         TEXT    NOT NULL DEFAULT '',
		description      TEXT    NOT NULL DEFAULT '',
		ingredients      TEXT    NOT NULL DEFAULT '[]',
		price            REAL    NOT NULL DEFAULT 0,
		calories         INTEGER NOT NULL DEFAULT 0,
		prep_time        TEXT    NOT NULL DEFAULT '',
		dietary_tags     TEXT    NOT NULL DEFAULT '[]',
		mood_tags        TEXT    NOT NULL DEFAULT '[]',
		allergens        TEXT    NOT NULL DEFAULT '[]',
		popularity_score INTEGER NOT NULL DEFAULT 0,
		chef_special     INTEGER NOT NULL DEFAULT 0,
		limited_time     INTEGER NOT NULL DEFAULT 0,
		spice_level      INTEGER NOT NULL DEFAULT 0,
		image_prompt     TEXT    NOT NULL DEFAULT '',
		image_url        TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_name  TEXT NOT NULL DEFAULT 'guest',
		started_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		conversation_id INTEGER NOT NULL REFERENCES conversations(id),
		sender          TEXT    NOT NULL,
		text            TEXT    NOT NULL,
		created_at      TEXT    NOT NULL,
		interest_score  INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id)`,
}

// Open opens (creating if needed) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("database path is required")
	}

	db, err := sql.Open(DriverName, dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite serializes writers; a single connection also keeps :memory: databases alive
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates any missing tables
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
