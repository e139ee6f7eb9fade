package api

import (
	"net/http"
	"strconv"

	"github.com/backdesk/backdesk/internal/model"
	"github.com/backdesk/backdesk/internal/schema"
	"github.com/backdesk/backdesk/internal/store"
)

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTasks(w, r)
	case http.MethodPost:
		s.createTask(w, r)
	default:
		writeMethodNotAllowed(w, r)
	}
}

func (s *Server) handleTaskByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getTask(w, r, id)
	case http.MethodPut:
		s.updateTask(w, r, id)
	case http.MethodDelete:
		s.deleteTask(w, r, id)
	default:
		writeMethodNotAllowed(w, r)
	}
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	payload = schema.NormalizeStrings(payload)

	if errs := s.validator.Validate("task", payload); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	created, err := s.session.CreateTask(r.Context(), taskFromPayload(payload))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request, id int64) {
	t, err := s.session.GetTask(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, t)
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := pageOptions(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if v := q.Get("user_id"); v != "" {
		userID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, badParam("user_id", v).Error())
			return
		}
		opts.Filters = append(opts.Filters, store.Filter{Column: "user_id", Op: "=", Value: userID})
	}
	if v := q.Get("done"); v != "" {
		done, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, badParam("done", v).Error())
			return
		}
		val := 0
		if done {
			val = 1
		}
		opts.Filters = append(opts.Filters, store.Filter{Column: "done", Op: "=", Value: val})
	}

	tasks, err := s.session.ListTasks(r.Context(), opts)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, tasks)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request, id int64) {
	payload, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	payload = schema.NormalizeStrings(payload)

	if errs := s.validator.Validate("task", payload); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	t := taskFromPayload(payload)
	t.ID = id
	updated, err := s.session.UpdateTask(r.Context(), t)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.session.DeleteTask(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

func taskFromPayload(payload map[string]any) model.Task {
	return model.Task{
		UserID:  intField(payload, "user_id"),
		Title:   stringField(payload, "title"),
		Done:    boolField(payload, "done"),
		DueDate: stringField(payload, "due_date"),
	}
}
