package store

import (
	"context"
	"fmt"
	"os"
)

// Result describes a successful mutation.
type Result struct {
	// LastInsertID is the id assigned to an inserted row, 0 otherwise.
	LastInsertID int64

	// RowsAffected counts the rows changed by the statement.
	RowsAffected int64
}

// Mutate executes one write statement, then unconditionally exports the
// entire engine state to the backing file.
//
// Every insert, update, and delete pays the full-export cost: there is no
// write-ahead log, no batching, and no background flush. There is also no
// transaction boundary spanning multiple Mutate calls; a failure between two
// calls leaves the file reflecting whatever statements succeeded before it.
//
// If the statement succeeds but the export fails, the error reports the
// export failure: the in-memory engine has the new state but the file does
// not, and the caller must treat the mutation as failed.
func (s *Session) Mutate(ctx context.Context, query string, args ...any) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return Result{}, mapEngineError("execute mutation", err)
	}

	var out Result
	if out.LastInsertID, err = res.LastInsertId(); err != nil {
		return Result{}, NewDatabaseError("last insert id", err)
	}
	if out.RowsAffected, err = res.RowsAffected(); err != nil {
		return Result{}, NewDatabaseError("rows affected", err)
	}

	if err := s.export(); err != nil {
		return Result{}, err
	}

	return out, nil
}

// Export writes the current engine state to the backing file without a
// mutation. Used to materialize the file eagerly at initialization;
// normal operation relies on the export that follows every mutation.
func (s *Session) Export() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.export()
}

// export serializes the whole in-memory database to the backing file.
//
// The engine writes a complete copy to a temporary sibling file, which then
// atomically replaces the backing file. A crash mid-export leaves the
// previous export intact; "last full export wins" is the only durability
// guarantee the store makes.
//
// Callers must hold s.mu.
func (s *Session) export() error {
	tmp := s.path + ".tmp"

	// VACUUM INTO refuses to overwrite, so clear any leftover from a
	// previous crashed export.
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return NewDatabaseError(fmt.Sprintf("remove stale export %s", tmp), err)
	}

	if _, err := s.db.Exec("VACUUM INTO ?", tmp); err != nil {
		return NewDatabaseError(fmt.Sprintf("export to %s", tmp), err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return NewDatabaseError(fmt.Sprintf("replace backing file %s", s.path), err)
	}

	return nil
}
