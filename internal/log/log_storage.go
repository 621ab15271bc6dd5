// log_storage.go implements SQLite-based persistent audit logging.
//
// Separated from log.go to isolate database concerns. The main log.go
// provides the fluent API for building log entries, while this file
// handles persistence. Using SQLite enables cross-project log queries
// and structured filtering that plain text logs cannot provide. The
// project field uses a hash of the directory path to enable aggregation
// while preserving privacy.
//
// Design: Errors during logging are silently ignored (best-effort).
// This prevents log failures from breaking the main operation - a
// bundle apply should succeed even if we can't record it.

package log

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

// Logger writes audit log entries to a SQLite database.
type Logger struct {
	db      *sql.DB
	project string
}

func (l *Logger) log(e Entry) {
	var detail *string
	if len(e.Detail) > 0 {
		if b, err := json.Marshal(e.Detail); err == nil {
			s := string(b)
			detail = &s
		}
	}

	success := 0
	if e.Success {
		success = 1
	}

	_, err := l.db.Exec(`
		INSERT INTO log (start, end, project, source, action, bundle, output_dir,
		                 files, success, error, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Start, e.End, l.project, e.Source, e.Action,
		nilIfEmpty(e.Bundle), nilIfEmpty(e.Output), nilIfZero(e.Files),
		success, nilIfEmpty(e.Error), detail,
	)
	if err != nil {
		// Best-effort logging: don't break main operation, but report failure
		_, _ = fmt.Fprintf(os.Stderr, "sprout: audit log write failed: %v\n", err)
	}
}

// recent queries the newest entries for this logger's project.
func (l *Logger) recent(limit int) ([]Entry, error) {
	rows, err := l.db.Query(`
		SELECT start, end, source, action, bundle, output_dir, files, success, error
		FROM log
		WHERE project = ?
		ORDER BY id DESC
		LIMIT ?`, l.project, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var bundle, output, errMsg sql.NullString
		var files sql.NullInt64
		var success int
		if err := rows.Scan(&e.Start, &e.End, &e.Source, &e.Action,
			&bundle, &output, &files, &success, &errMsg); err != nil {
			return nil, err
		}
		e.Bundle = bundle.String
		e.Output = output.String
		e.Files = int(files.Int64)
		e.Success = success == 1
		e.Error = errMsg.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// dbPathFunc is the function that returns the database path.
// Tests can override this to use a temp directory.
var dbPathFunc = defaultDBPath

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fall back to current directory if home cannot be determined.
		// This allows logging to work in unusual environments
		// (containers, etc.) rather than silently failing.
		return filepath.Join(".sprout", "log", "sprout-log.db")
	}
	return filepath.Join(home, ".sprout", "log", "sprout-log.db")
}

func dbPath() string {
	return dbPathFunc()
}

// DBPath returns the path to the log database.
func DBPath() string {
	return dbPath()
}

// hash creates a project identifier from the directory path, enabling
// cross-project log queries while preserving privacy.
func hash(s string) string {
	h, err := blake2b.New(8, nil) // 64-bit = 16 hex chars
	if err != nil {
		// Should never happen with nil key, but don't silently ignore
		panic("blake2b.New failed: " + err.Error())
	}
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// migrate creates the log table if it doesn't exist. Safe for concurrent access.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS log (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			start      INTEGER NOT NULL,
			end        INTEGER NOT NULL,
			project    TEXT NOT NULL,
			source     TEXT NOT NULL,
			action     TEXT NOT NULL,
			bundle     TEXT,
			output_dir TEXT,
			files      INTEGER,
			success    INTEGER NOT NULL,
			error      TEXT,
			detail     TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_log_start ON log(start);
		CREATE INDEX IF NOT EXISTS idx_log_project ON log(project);
		CREATE INDEX IF NOT EXISTS idx_log_source ON log(source);
	`)
	return err
}

// nilIfEmpty returns nil for empty strings, reducing NULL checks in queries.
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nilIfZero returns nil for zero values.
func nilIfZero(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
