package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/backdesk/backdesk/internal/model"
)

var userColumns = []string{"id", "name", "email", "role", "created_at"}

var userFilterable = map[string]bool{
	"id": true, "name": true, "email": true, "role": true, "created_at": true,
}

// CreateUser inserts a user and returns it with its assigned id and
// created_at stamp. A duplicate email surfaces as a constraint violation
// and leaves the existing row unchanged.
func (s *Session) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	if u.Role == "" {
		u.Role = "member"
	}
	u.CreatedAt = s.clock.Now()

	res, err := s.Mutate(ctx, `
		INSERT INTO users (name, email, role, created_at)
		VALUES (?, ?, ?, ?)
	`, u.Name, u.Email, u.Role, u.CreatedAt)
	if err != nil {
		return model.User{}, err
	}

	u.ID = res.LastInsertID
	return u, nil
}

// GetUser retrieves a user by id.
func (s *Session) GetUser(ctx context.Context, id int64) (model.User, error) {
	row := s.QueryRow(ctx, `
		SELECT id, name, email, role, created_at
		FROM users
		WHERE id = ?
	`, id)

	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, NewNotFoundError("user", id)
	}
	if err != nil {
		return model.User{}, mapEngineError("read user", err)
	}
	return u, nil
}

// ListUsers returns users matching opts. Returns an empty slice, not nil,
// when nothing matches.
func (s *Session) ListUsers(ctx context.Context, opts ListOptions) ([]model.User, error) {
	query, params, err := buildList("users", userColumns, userFilterable, opts)
	if err != nil {
		return nil, NewDatabaseError("build user query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, mapEngineError("list users", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, mapEngineError("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapEngineError("iterate users", err)
	}

	return users, nil
}

// UpdateUser overwrites the mutable fields of the user identified by u.ID
// and returns the stored record.
func (s *Session) UpdateUser(ctx context.Context, u model.User) (model.User, error) {
	if u.Role == "" {
		u.Role = "member"
	}

	res, err := s.Mutate(ctx, `
		UPDATE users
		SET name = ?, email = ?, role = ?
		WHERE id = ?
	`, u.Name, u.Email, u.Role, u.ID)
	if err != nil {
		return model.User{}, err
	}
	if res.RowsAffected == 0 {
		return model.User{}, NewNotFoundError("user", u.ID)
	}

	return s.GetUser(ctx, u.ID)
}

// DeleteUser removes a user by id. A user that still owns tasks cannot be
// deleted; the engine rejects the write as a constraint violation and the
// caller must delete the tasks first.
func (s *Session) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.Mutate(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return NewNotFoundError("user", id)
	}
	return nil
}
