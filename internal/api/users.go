package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/backdesk/backdesk/internal/model"
	"github.com/backdesk/backdesk/internal/schema"
	"github.com/backdesk/backdesk/internal/store"
)

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listUsers(w, r)
	case http.MethodPost:
		s.createUser(w, r)
	default:
		writeMethodNotAllowed(w, r)
	}
}

func (s *Server) handleUserByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getUser(w, r, id)
	case http.MethodPut:
		s.updateUser(w, r, id)
	case http.MethodDelete:
		s.deleteUser(w, r, id)
	default:
		writeMethodNotAllowed(w, r)
	}
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	payload = schema.NormalizeStrings(payload)

	if errs := s.validator.Validate("user", payload); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	created, err := s.session.CreateUser(r.Context(), userFromPayload(payload))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request, id int64) {
	u, err := s.session.GetUser(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	opts, err := pageOptions(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, col := range []string{"role", "email"} {
		if v := r.URL.Query().Get(col); v != "" {
			opts.Filters = append(opts.Filters, store.Filter{Column: col, Op: "=", Value: v})
		}
	}

	users, err := s.session.ListUsers(r.Context(), opts)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, users)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request, id int64) {
	payload, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	payload = schema.NormalizeStrings(payload)

	if errs := s.validator.Validate("user", payload); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	u := userFromPayload(payload)
	u.ID = id
	updated, err := s.session.UpdateUser(r.Context(), u)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.session.DeleteUser(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

// userFromPayload maps a validated payload to a User. Validation has
// already guaranteed field presence and types.
func userFromPayload(payload map[string]any) model.User {
	return model.User{
		Name:  stringField(payload, "name"),
		Email: stringField(payload, "email"),
		Role:  stringField(payload, "role"),
	}
}

// stringField reads an optional string field from a payload.
func stringField(payload map[string]any, key string) string {
	v, _ := payload[key].(string)
	return v
}

// intField reads an optional integer field from a payload.
func intField(payload map[string]any, key string) int64 {
	v, _ := payload[key].(int64)
	return v
}

// boolField reads an optional bool field from a payload.
func boolField(payload map[string]any, key string) bool {
	v, _ := payload[key].(bool)
	return v
}

// pageOptions parses the paging and ordering query parameters shared by
// every list endpoint: limit, offset, order, desc.
func pageOptions(q url.Values) (store.ListOptions, error) {
	var opts store.ListOptions
	var err error

	if v := q.Get("limit"); v != "" {
		if opts.Limit, err = strconv.Atoi(v); err != nil || opts.Limit < 0 {
			return store.ListOptions{}, badParam("limit", v)
		}
	}
	if v := q.Get("offset"); v != "" {
		if opts.Offset, err = strconv.Atoi(v); err != nil || opts.Offset < 0 {
			return store.ListOptions{}, badParam("offset", v)
		}
	}
	opts.OrderBy = q.Get("order")
	if v := q.Get("desc"); v != "" {
		if opts.Desc, err = strconv.ParseBool(v); err != nil {
			return store.ListOptions{}, badParam("desc", v)
		}
	}
	return opts, nil
}
