// Package journal keeps an opt-in, append-only record of authentication
// ceremony outcomes in a local SQLite file. The bridge itself never writes
// here; hosts that want an audit trail record outcomes explicitly.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Journal wraps the SQLite handle.
type Journal struct {
	db   *sql.DB
	path string
}

// Entry is one recorded ceremony outcome.
type Entry struct {
	ID        int64
	When      time.Time
	Success   bool
	Reason    string
	Mechanism string
}

// Open initialises the journal database at the given path, creating the
// schema when missing.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("journal path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping journal database: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS ceremonies (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		at        TEXT NOT NULL,
		success   INTEGER NOT NULL,
		reason    TEXT NOT NULL DEFAULT '',
		mechanism TEXT NOT NULL DEFAULT ''
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure ceremonies table: %w", err)
	}

	if err := os.Chmod(path, 0o600); err != nil {
		db.Close()
		return nil, fmt.Errorf("restrict journal permissions: %w", err)
	}

	return &Journal{db: db, path: path}, nil
}

// Record appends one outcome. A zero When is stamped with the current time.
func (j *Journal) Record(e Entry) error {
	if e.When.IsZero() {
		e.When = time.Now().UTC()
	}
	success := 0
	if e.Success {
		success = 1
	}
	_, err := j.db.Exec(
		`INSERT INTO ceremonies (at, success, reason, mechanism) VALUES (?, ?, ?, ?)`,
		e.When.UTC().Format(time.RFC3339Nano), success, e.Reason, e.Mechanism,
	)
	if err != nil {
		return fmt.Errorf("record ceremony: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.Query(
		`SELECT id, at, success, reason, mechanism FROM ceremonies ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query ceremonies: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			at      string
			success int
		)
		if err := rows.Scan(&e.ID, &at, &success, &e.Reason, &e.Mechanism); err != nil {
			return nil, fmt.Errorf("scan ceremony row: %w", err)
		}
		when, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("parse ceremony timestamp %q: %w", at, err)
		}
		e.When = when
		e.Success = success != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ceremonies: %w", err)
	}
	return entries, nil
}

// Close releases the database handle.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}
