package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/backdesk/backdesk/internal/model"
)

var taskColumns = []string{"id", "user_id", "title", "done", "due_date", "created_at"}

var taskFilterable = map[string]bool{
	"id": true, "user_id": true, "done": true, "due_date": true, "created_at": true,
}

// CreateTask inserts a task and returns it with its assigned id and
// created_at stamp. The referenced user must exist; a dangling user_id is
// rejected by the engine as a constraint violation.
func (s *Session) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	t.CreatedAt = s.clock.Now()

	res, err := s.Mutate(ctx, `
		INSERT INTO tasks (user_id, title, done, due_date, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, t.UserID, t.Title, boolToInt(t.Done), t.DueDate, t.CreatedAt)
	if err != nil {
		return model.Task{}, err
	}

	t.ID = res.LastInsertID
	return t, nil
}

// GetTask retrieves a task by id.
func (s *Session) GetTask(ctx context.Context, id int64) (model.Task, error) {
	row := s.QueryRow(ctx, `
		SELECT id, user_id, title, done, due_date, created_at
		FROM tasks
		WHERE id = ?
	`, id)

	t, err := scanTask(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, NewNotFoundError("task", id)
	}
	if err != nil {
		return model.Task{}, mapEngineError("read task", err)
	}
	return t, nil
}

// ListTasks returns tasks matching opts. Returns an empty slice, not nil,
// when nothing matches.
func (s *Session) ListTasks(ctx context.Context, opts ListOptions) ([]model.Task, error) {
	query, params, err := buildList("tasks", taskColumns, taskFilterable, opts)
	if err != nil {
		return nil, NewDatabaseError("build task query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, mapEngineError("list tasks", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, mapEngineError("scan task", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapEngineError("iterate tasks", err)
	}

	return tasks, nil
}

// UpdateTask overwrites the mutable fields of the task identified by t.ID
// and returns the stored record.
func (s *Session) UpdateTask(ctx context.Context, t model.Task) (model.Task, error) {
	res, err := s.Mutate(ctx, `
		UPDATE tasks
		SET user_id = ?, title = ?, done = ?, due_date = ?
		WHERE id = ?
	`, t.UserID, t.Title, boolToInt(t.Done), t.DueDate, t.ID)
	if err != nil {
		return model.Task{}, err
	}
	if res.RowsAffected == 0 {
		return model.Task{}, NewNotFoundError("task", t.ID)
	}

	return s.GetTask(ctx, t.ID)
}

// DeleteTask removes a task by id.
func (s *Session) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.Mutate(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return NewNotFoundError("task", id)
	}
	return nil
}

// scanTask reads one task row, converting the stored done integer back to
// a bool.
func scanTask(scan func(...any) error) (model.Task, error) {
	var t model.Task
	var done int
	if err := scan(&t.ID, &t.UserID, &t.Title, &done, &t.DueDate, &t.CreatedAt); err != nil {
		return model.Task{}, err
	}
	t.Done = done != 0
	return t, nil
}

// boolToInt converts a bool to the integer representation stored in the
// done column.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
