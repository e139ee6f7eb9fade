package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/backdesk/backdesk/internal/model"
)

func TestCreateTask_RoundTrip(t *testing.T) {
	s := openTestSession(t, filepath.Join(t.TempDir(), "backdesk.db"))
	ctx := context.Background()

	u, err := s.CreateUser(ctx, model.User{Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	created, err := s.CreateTask(ctx, model.Task{
		UserID:  u.ID,
		Title:   "write report",
		Done:    true,
		DueDate: "2024-06-01",
	})
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}
	if created.ID == 0 {
		t.Error("CreateTask() did not assign an id")
	}

	got, err := s.GetTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTask() failed: %v", err)
	}
	if got != created {
		t.Errorf("GetTask() = %+v, want %+v", got, created)
	}
}

func TestCreateTask_DanglingUser(t *testing.T) {
	s := openTestSession(t, filepath.Join(t.TempDir(), "backdesk.db"))

	_, err := s.CreateTask(context.Background(), model.Task{UserID: 99, Title: "orphan"})
	if !IsConstraint(err) {
		t.Errorf("CreateTask() with dangling user = %v, want CONSTRAINT_VIOLATION", err)
	}
}

func TestDeleteUser_WithLiveTasks(t *testing.T) {
	s := openTestSession(t, filepath.Join(t.TempDir(), "backdesk.db"))
	ctx := context.Background()

	u, err := s.CreateUser(ctx, model.User{Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	task, err := s.CreateTask(ctx, model.Task{UserID: u.ID, Title: "pending"})
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}

	// Deleting the parent while a child references it is rejected. There is
	// no cascade.
	err = s.DeleteUser(ctx, u.ID)
	if !IsConstraint(err) {
		t.Fatalf("DeleteUser() with live tasks = %v, want CONSTRAINT_VIOLATION", err)
	}
	if _, err := s.GetUser(ctx, u.ID); err != nil {
		t.Errorf("user disappeared after rejected delete: %v", err)
	}

	// Deleting the children first makes the parent delete succeed.
	if err := s.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask() failed: %v", err)
	}
	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser() after child delete failed: %v", err)
	}
}

func TestListTasks_ByUserAndDone(t *testing.T) {
	s := openTestSession(t, filepath.Join(t.TempDir(), "backdesk.db"))
	ctx := context.Background()

	u1, err := s.CreateUser(ctx, model.User{Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	u2, err := s.CreateUser(ctx, model.User{Name: "Bob", Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	for _, task := range []model.Task{
		{UserID: u1.ID, Title: "a", Done: true},
		{UserID: u1.ID, Title: "b"},
		{UserID: u2.ID, Title: "c", Done: true},
	} {
		if _, err := s.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask(%s) failed: %v", task.Title, err)
		}
	}

	done, err := s.ListTasks(ctx, ListOptions{
		Filters: []Filter{
			{Column: "user_id", Op: "=", Value: u1.ID},
			{Column: "done", Op: "=", Value: 1},
		},
	})
	if err != nil {
		t.Fatalf("ListTasks() failed: %v", err)
	}
	if len(done) != 1 || done[0].Title != "a" {
		t.Errorf("filtered tasks = %+v", done)
	}

	paged, err := s.ListTasks(ctx, ListOptions{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("ListTasks() paged failed: %v", err)
	}
	if len(paged) != 2 || paged[0].Title != "b" || paged[1].Title != "c" {
		t.Errorf("paged tasks = %+v", paged)
	}
}
