// Package audit records the raw inputs of eligibility queries to an
// append-only log. Auditing is best effort: callers log failures and carry on.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is the raw form input of one query.
type Entry struct {
	Rank     string
	Quota    string
	Category string
	College  string
	Course   string
	GroupBy  string
}

// Auditor appends query entries to an external log.
type Auditor interface {
	Record(ctx context.Context, e Entry) error
}

// Nop discards every entry.
type Nop struct{}

// Record implements Auditor.
func (Nop) Record(context.Context, Entry) error { return nil }

const schemaSQL = `CREATE TABLE IF NOT EXISTS query_log (
	id          TEXT PRIMARY KEY,
	recorded_at TEXT NOT NULL,
	rank        TEXT NOT NULL,
	quota       TEXT NOT NULL,
	category    TEXT NOT NULL,
	college     TEXT NOT NULL,
	course      TEXT NOT NULL,
	group_by    TEXT NOT NULL
)`

// SQLiteAuditor appends entries to a query_log table in a SQLite file.
type SQLiteAuditor struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the audit database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteAuditor, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening audit db %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // single writer
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating audit schema in %s: %w", path, err)
	}
	return &SQLiteAuditor{db: db, now: time.Now}, nil
}

// Record implements Auditor.
func (a *SQLiteAuditor) Record(ctx context.Context, e Entry) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO query_log (id, recorded_at, rank, quota, category, college, course, group_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), a.now().UTC().Format(time.RFC3339Nano),
		e.Rank, e.Quota, e.Category, e.College, e.Course, e.GroupBy,
	)
	if err != nil {
		return fmt.Errorf("appending audit entry: %w", err)
	}
	return nil
}

// Entries returns all recorded entries in insertion order.
func (a *SQLiteAuditor) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT rank, quota, category, college, course, group_by FROM query_log ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Rank, &e.Quota, &e.Category, &e.College, &e.Course, &e.GroupBy); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the database.
func (a *SQLiteAuditor) Close() error {
	return a.db.Close()
}
