// Package model defines the entity records managed by backdesk.
//
// All entities use a surrogate integer id assigned by the storage engine.
// Timestamps are RFC 3339 strings and booleans are stored as integers,
// matching the column types of the backing schema.
package model

import "time"

// TimeFormat is the storage format for all entity timestamps.
const TimeFormat = time.RFC3339

// User is an account that can own tasks.
// Email is unique across all users.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// Customer is an external contact record.
type Customer struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Company   string `json:"company,omitempty"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at"`
}

// Task is a unit of work assigned to a user.
//
// UserID references users.id. The reference is enforced by the engine but
// does not cascade: deleting a user with live tasks fails with a constraint
// violation, and callers must delete the tasks first.
type Task struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Title     string `json:"title"`
	Done      bool   `json:"done"`
	DueDate   string `json:"due_date,omitempty"`
	CreatedAt string `json:"created_at"`
}

// Clock supplies timestamps for new records.
// The production implementation reads the wall clock; tests substitute a
// fixed clock for deterministic created_at values.
type Clock interface {
	Now() string
}

// WallClock is the production Clock. It formats the current UTC time
// truncated to whole seconds so round-tripped records compare equal.
type WallClock struct{}

// Now returns the current UTC time as an RFC 3339 string.
func (WallClock) Now() string {
	return time.Now().UTC().Truncate(time.Second).Format(TimeFormat)
}
