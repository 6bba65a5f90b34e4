// Package journal records signup and unregister actions in a local SQLite
// database. The journal is an audit trail, not registry state: losing it
// never affects what the API serves.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	ActionSignup     = "signup"
	ActionUnregister = "unregister"
)

type Entry struct {
	ID        int64
	Activity  string
	Email     string
	Action    string
	CreatedAt time.Time
}

type Journal struct {
	db *sql.DB
}

func Open(dbPath string) (*Journal, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one concurrent writer. Limit the pool to a
	// single connection so all access is serialized at the Go level,
	// preventing SQLITE_BUSY errors from concurrent HTTP handlers.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS signup_journal (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		activity   TEXT NOT NULL,
		email      TEXT NOT NULL,
		action     TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Journal{db: db}, nil
}

func (j *Journal) Append(ctx context.Context, activity, email, action string, at time.Time) error {
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO signup_journal (activity, email, action, created_at) VALUES (?, ?, ?, ?)",
		activity, email, action, at.UTC().Format(time.RFC3339),
	)
	return err
}

// ListRecent returns up to limit entries, newest first.
func (j *Journal) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := j.db.QueryContext(ctx,
		"SELECT id, activity, email, action, created_at FROM signup_journal ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []Entry
	for rows.Next() {
		var e Entry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Activity, &e.Email, &e.Action, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		result = append(result, e)
	}
	return result, rows.Err()
}

// Prune deletes entries created before the cutoff and reports how many rows
// were removed.
func (j *Journal) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := j.db.ExecContext(ctx,
		"DELETE FROM signup_journal WHERE created_at < ?",
		before.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (j *Journal) Close() error {
	return j.db.Close()
}
