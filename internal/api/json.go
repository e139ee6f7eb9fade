package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/backdesk/backdesk/internal/schema"
	"github.com/backdesk/backdesk/internal/store"
)

// envelope is the JSON shape of every response.
// Exactly one of Data, Error, or Errors is set.
type envelope struct {
	Success bool                     `json:"success"`
	Data    any                      `json:"data,omitempty"`
	Error   string                   `json:"error,omitempty"`
	Errors  []schema.ValidationError `json:"errors,omitempty"`
}

// maxBodyBytes caps request bodies. Entity payloads are small; anything
// beyond this is a client error.
const maxBodyBytes = 1 << 20

// decodeBody parses a JSON request body into a generic payload map.
//
// Numbers are decoded via json.Number and narrowed to int64 when integral
// so that schema validation sees proper integers rather than float64.
func decodeBody(r *http.Request) (map[string]any, error) {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode request body: %w", err)
	}

	for k, v := range payload {
		if n, ok := v.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				payload[k] = i
			} else if f, err := n.Float64(); err == nil {
				payload[k] = f
			}
		}
	}
	return payload, nil
}

// badParam builds the error for an unparseable query parameter.
func badParam(name, value string) error {
	return fmt.Errorf("invalid %s parameter %q", name, value)
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

// writeJSON writes an envelope with the given status.
func writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding an envelope of plain structs and strings cannot fail;
	// if it somehow does the status is already committed.
	_ = json.NewEncoder(w).Encode(env)
}

// writeData writes a success envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeError writes a failure envelope with a single message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}

// writeValidationErrors writes a 400 envelope carrying every violation.
func writeValidationErrors(w http.ResponseWriter, errs []schema.ValidationError) {
	writeJSON(w, http.StatusBadRequest, envelope{Success: false, Errors: errs})
}

// writeMethodNotAllowed writes the 405 envelope.
func writeMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed,
		fmt.Sprintf("method %s not allowed", r.Method))
}

// writeStoreError maps a store failure to its status code:
// NOT_FOUND to 404, CONSTRAINT_VIOLATION to 409, everything else to 500.
func writeStoreError(w http.ResponseWriter, err error) {
	var se *store.Error
	if errors.As(err, &se) {
		switch se.Code {
		case store.ErrCodeNotFound:
			writeError(w, http.StatusNotFound, se.Error())
			return
		case store.ErrCodeConstraint:
			writeError(w, http.StatusConflict, se.Error())
			return
		}
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
