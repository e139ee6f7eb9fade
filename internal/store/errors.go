package store

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ErrorCode categorizes store errors.
type ErrorCode string

const (
	// ErrCodeDatabase indicates an engine or I/O failure.
	ErrCodeDatabase ErrorCode = "DATABASE_ERROR"

	// ErrCodeNotFound indicates the requested record does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeConstraint indicates the engine rejected a write because it
	// would violate a schema constraint (unique email, task ownership).
	// Callers that don't care about the distinction may treat it as a
	// database error; the HTTP layer maps it to a conflict status.
	ErrCodeConstraint ErrorCode = "CONSTRAINT_VIOLATION"
)

// Error is the single error type crossing the store boundary.
//
// Every failure is surfaced verbatim to the caller; the store never retries
// and makes no distinction between transient and permanent failures.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Resource names the entity kind (for NOT_FOUND errors).
	Resource string

	// ID identifies the missing record (for NOT_FOUND errors).
	ID int64

	// Constraint carries the engine's constraint message
	// (for CONSTRAINT_VIOLATION errors).
	Constraint string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s: %s %d not found", e.Code, e.Resource, e.ID)
	case ErrCodeConstraint:
		return fmt.Sprintf("%s: %s", e.Code, e.Constraint)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewDatabaseError creates an Error for an engine or I/O failure.
func NewDatabaseError(message string, err error) *Error {
	return &Error{Code: ErrCodeDatabase, Message: message, Err: err}
}

// NewNotFoundError creates an Error for a missing record.
func NewNotFoundError(resource string, id int64) *Error {
	return &Error{Code: ErrCodeNotFound, Resource: resource, ID: id}
}

// IsNotFound reports whether err is a NOT_FOUND store error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == ErrCodeNotFound
}

// IsConstraint reports whether err is a CONSTRAINT_VIOLATION store error.
// Uses errors.As to handle wrapped errors.
func IsConstraint(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == ErrCodeConstraint
}

// mapEngineError converts an error returned by the SQLite driver into a
// store Error. Constraint failures get their own code; everything else
// (malformed SQL, I/O failure, corrupt file) collapses into DATABASE_ERROR.
func mapEngineError(message string, err error) *Error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return &Error{
			Code:       ErrCodeConstraint,
			Message:    message,
			Constraint: sqliteErr.Error(),
			Err:        err,
		}
	}
	return NewDatabaseError(message, err)
}
