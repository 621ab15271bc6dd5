// Package log provides centralised audit logging for sprout operations.
// Logs are stored in ~/.sprout/log/sprout-log.db and track apply and
// check operations across projects.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("cli:apply", "apply").
//		Bundle(bundlePath).
//		Output(outputDir).
//		Files(len(result.Created) + len(result.Overwritten)).
//		Write(err)
//
// The source parameter follows the format "cli:{command}" for CLI
// commands or "mcp:{tool}" for MCP tools. Examples: "cli:apply",
// "cli:check", "mcp:sprout_apply".
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source string // e.g., "cli:apply", "mcp:sprout_check"
	Action string // verb: apply, check, list, diff
	Bundle string // bundle file the operation read ("-" for stdin)
	Output string // output root the operation targeted
	Files  int    // number of files written or checked

	// Timing
	Start int64 // unix timestamp when Event() called
	End   int64 // unix timestamp when Write() called

	Success bool           // whether operation succeeded
	Error   string         // error message if failed
	Detail  map[string]any // additional operation-specific data
}

// Builder constructs a log entry using a fluent API.
// Create with [Event], chain methods to set fields, then call
// [Builder.Write] to write the entry.
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
//
// The source identifies where the operation originated:
//   - CLI commands: "cli:{command}" (e.g., "cli:apply", "cli:check")
//   - MCP tools: "mcp:{tool}" (e.g., "mcp:sprout_apply")
//
// The action describes what was performed: "apply", "check", "list",
// "diff".
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// Bundle sets the bundle file this operation read.
// Use "-" when the bundle came from stdin.
func (b *Builder) Bundle(path string) *Builder {
	b.entry.Bundle = path
	return b
}

// Output sets the output root this operation targeted.
func (b *Builder) Output(dir string) *Builder {
	b.entry.Output = dir
	return b
}

// Files sets the number of files the operation wrote or checked.
func (b *Builder) Files(n int) *Builder {
	b.entry.Files = n
	return b
}

// Detail adds a key-value pair to the log entry's detail map.
// Can be called multiple times to add multiple details.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the log entry to the database, deriving success/failure
// from err. This is the standard way to complete a log entry after an
// operation:
//
//	result, err := materialise.Write(w, entries, dir, opts)
//	log.Event("cli:apply", "apply").Bundle(p).Write(err)
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may choose to ignore them
// (best-effort logging).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetProject sets the project identifier for subsequent log entries.
// The dir should be the absolute path of the working directory.
func SetProject(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.project = hash(dir)
	}
}

// Log writes an entry. Safe to call if logger not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Recent returns the most recent entries for the current project,
// newest first. Returns nil if the logger is not initialised.
func Recent(limit int) ([]Entry, error) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return nil, nil
	}
	return l.recent(limit)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
