// Package buildlog persists a local history of compiler invocations
// (SPEC_FULL.md §10.6). It is consulted only by the `jsasta stats`
// subcommand: a missing or corrupt ledger degrades to "no history" rather
// than a compile failure, so the compiler's exit code never depends on it.
package buildlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS builds (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	work_id TEXT NOT NULL,
	file_path TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	errors INTEGER NOT NULL,
	warnings INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	recorded_at TEXT NOT NULL
);
`

// Record is one row: one compiler invocation against one file.
type Record struct {
	WorkID      string
	FilePath    string
	ContentHash string
	Errors      int
	Warnings    int
	DurationMS  int64
	RecordedAt  time.Time
}

// Ledger wraps the sqlite handle backing the build history.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger database at dbPath, including
// any missing parent directories.
func Open(dbPath string) (*Ledger, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("buildlog: creating %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("buildlog: opening %s: %w", dbPath, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("buildlog: migrating schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the underlying database handle.
func (l *Ledger) Close() error { return l.db.Close() }

// Append records one compiler invocation.
func (l *Ledger) Append(r Record) error {
	_, err := l.db.Exec(
		`INSERT INTO builds (work_id, file_path, content_hash, errors, warnings, duration_ms, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.WorkID, r.FilePath, r.ContentHash, r.Errors, r.Warnings, r.DurationMS, r.RecordedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("buildlog: appending record: %w", err)
	}
	return nil
}

// Recent returns the last limit records, most recent first.
func (l *Ledger) Recent(limit int) ([]Record, error) {
	rows, err := l.db.Query(
		`SELECT work_id, file_path, content_hash, errors, warnings, duration_ms, recorded_at
		 FROM builds ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("buildlog: querying recent records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var recordedAt string
		if err := rows.Scan(&r.WorkID, &r.FilePath, &r.ContentHash, &r.Errors, &r.Warnings, &r.DurationMS, &recordedAt); err != nil {
			return nil, fmt.Errorf("buildlog: scanning record: %w", err)
		}
		r.RecordedAt, _ = time.Parse(time.RFC3339, recordedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Summary aggregates across every recorded build for a single file.
type Summary struct {
	FilePath     string
	BuildCount   int
	TotalErrors  int
	TotalWarning int
	LastBuild    time.Time
}

// SummaryFor aggregates every recorded build of filePath into one Summary:
// build count, summed errors and warnings, and the latest recorded time.
func (l *Ledger) SummaryFor(filePath string) (Summary, error) {
	row := l.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(errors),0), COALESCE(SUM(warnings),0), MAX(recorded_at)
		 FROM builds WHERE file_path = ?`, filePath)
	var s Summary
	s.FilePath = filePath
	var lastBuild sql.NullString
	if err := row.Scan(&s.BuildCount, &s.TotalErrors, &s.TotalWarning, &lastBuild); err != nil {
		return Summary{}, fmt.Errorf("buildlog: summarizing %s: %w", filePath, err)
	}
	if lastBuild.Valid {
		s.LastBuild, _ = time.Parse(time.RFC3339, lastBuild.String)
	}
	return s, nil
}
