package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/backdesk/backdesk/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// entityTables lists every table carried by the snapshot, in an order that
// satisfies foreign key references (parents before children).
var entityTables = []string{"users", "customers", "tasks"}

// Session is the handle to the embedded engine and its backing file.
//
// The engine lives entirely in memory; the backing file holds the last
// exported state. Construct one Session per process with Open and pass it
// down explicitly.
//
// Thread-safety: a mutex serializes the mutate-then-export cycle, so
// concurrent request handlers cannot interleave partial exports. Reads run
// against the same single connection and need no extra coordination.
type Session struct {
	mu    sync.Mutex
	db    *sql.DB
	path  string
	clock model.Clock
}

// Open creates a Session backed by the file at path.
//
// If the file exists its contents are loaded into a fresh in-memory engine.
// If it does not exist — whether never created or since deleted — a fresh
// engine is initialized from the embedded schema; the two cases are
// indistinguishable to the store and are deliberately treated the same.
// A file that exists but cannot be read as a database is an error, never a
// silent re-initialization.
func Open(path string) (*Session, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, NewDatabaseError("open engine", err)
	}

	// A single connection keeps the in-memory database alive and gives the
	// engine one writer, matching its locking model.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewDatabaseError("connect to engine", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, NewDatabaseError("apply pragmas", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, NewDatabaseError("apply schema", err)
	}

	s := &Session{db: db, path: path, clock: model.WallClock{}}

	if _, err := os.Stat(path); err == nil {
		if err := s.restore(); err != nil {
			db.Close()
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		db.Close()
		return nil, NewDatabaseError(fmt.Sprintf("stat backing file %s", path), err)
	}

	return s, nil
}

// Close releases the engine. The backing file is left as written by the
// last successful mutation; Close does not export.
func (s *Session) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the backing file path.
func (s *Session) Path() string {
	return s.path
}

// SetClock replaces the timestamp source. Tests use a fixed clock for
// deterministic created_at values.
func (s *Session) SetClock(c model.Clock) {
	s.clock = c
}

// Query executes a read-only statement and returns the resulting rows.
// Callers are responsible for closing the returned rows.
func (s *Session) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapEngineError("query", err)
	}
	return rows, nil
}

// QueryRow executes a read-only statement expected to return at most one
// row. Errors are deferred to Scan, matching database/sql.
func (s *Session) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, query, args...)
}

// restore loads the backing file into the in-memory engine by attaching it
// and copying every entity table. Row ids are preserved. The file is read
// only; it is not modified even if loading fails.
func (s *Session) restore() error {
	if _, err := s.db.Exec("ATTACH DATABASE ? AS snap", s.path); err != nil {
		return NewDatabaseError(fmt.Sprintf("attach backing file %s", s.path), err)
	}

	// Force a read through the attached file. Corruption and non-database
	// content surface here rather than lazily on first entity read.
	tables := map[string]bool{}
	rows, err := s.db.Query("SELECT name FROM snap.sqlite_master WHERE type = 'table'")
	if err != nil {
		s.db.Exec("DETACH DATABASE snap")
		return NewDatabaseError(fmt.Sprintf("read backing file %s", s.path), err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			s.db.Exec("DETACH DATABASE snap")
			return NewDatabaseError("read backing file tables", err)
		}
		tables[name] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		s.db.Exec("DETACH DATABASE snap")
		return NewDatabaseError("read backing file tables", err)
	}
	rows.Close()

	for _, table := range entityTables {
		if !tables[table] {
			s.db.Exec("DETACH DATABASE snap")
			return NewDatabaseError(
				fmt.Sprintf("backing file %s is missing table %q", s.path, table), nil)
		}

		stmt := fmt.Sprintf("INSERT INTO main.%s SELECT * FROM snap.%s", table, table)
		if _, err := s.db.Exec(stmt); err != nil {
			s.db.Exec("DETACH DATABASE snap")
			return NewDatabaseError(fmt.Sprintf("load table %s", table), err)
		}
	}

	if _, err := s.db.Exec("DETACH DATABASE snap"); err != nil {
		return NewDatabaseError("detach backing file", err)
	}

	return nil
}
