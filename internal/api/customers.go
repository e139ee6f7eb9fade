package api

import (
	"net/http"

	"github.com/backdesk/backdesk/internal/model"
	"github.com/backdesk/backdesk/internal/schema"
	"github.com/backdesk/backdesk/internal/store"
)

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listCustomers(w, r)
	case http.MethodPost:
		s.createCustomer(w, r)
	default:
		writeMethodNotAllowed(w, r)
	}
}

func (s *Server) handleCustomerByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getCustomer(w, r, id)
	case http.MethodPut:
		s.updateCustomer(w, r, id)
	case http.MethodDelete:
		s.deleteCustomer(w, r, id)
	default:
		writeMethodNotAllowed(w, r)
	}
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	payload = schema.NormalizeStrings(payload)

	if errs := s.validator.Validate("customer", payload); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	created, err := s.session.CreateCustomer(r.Context(), customerFromPayload(payload))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request, id int64) {
	c, err := s.session.GetCustomer(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	opts, err := pageOptions(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, col := range []string{"company", "email"} {
		if v := r.URL.Query().Get(col); v != "" {
			opts.Filters = append(opts.Filters, store.Filter{Column: col, Op: "=", Value: v})
		}
	}

	customers, err := s.session.ListCustomers(r.Context(), opts)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, customers)
}

func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request, id int64) {
	payload, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	payload = schema.NormalizeStrings(payload)

	if errs := s.validator.Validate("customer", payload); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	c := customerFromPayload(payload)
	c.ID = id
	updated, err := s.session.UpdateCustomer(r.Context(), c)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (s *Server) deleteCustomer(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.session.DeleteCustomer(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

func customerFromPayload(payload map[string]any) model.Customer {
	return model.Customer{
		Name:    stringField(payload, "name"),
		Email:   stringField(payload, "email"),
		Company: stringField(payload, "company"),
		Phone:   stringField(payload, "phone"),
	}
}
