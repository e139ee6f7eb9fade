// Package harness executes YAML-defined API scenarios against a real
// server over a fresh database, with a fixed clock and sequential request
// ids so every run produces an identical trace. Traces can be compared
// against golden files.
package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/backdesk/backdesk/internal/api"
	"github.com/backdesk/backdesk/internal/schema"
	"github.com/backdesk/backdesk/internal/store"
	"github.com/backdesk/backdesk/internal/testutil"
)

// fixedTimestamp is the created_at value every harness-created record
// carries.
const fixedTimestamp = "2024-05-01T10:00:00Z"

// Harness executes scenarios. Each Run uses a fresh database so
// scenarios are isolated from each other.
type Harness struct {
	dir string
}

// New creates a Harness that keeps its databases under dir.
func New(dir string) *Harness {
	return &Harness{dir: dir}
}

// StepResult records one executed step.
type StepResult struct {
	Step     int            `json:"step"`
	Name     string         `json:"name,omitempty"`
	Method   string         `json:"method"`
	Path     string         `json:"path"`
	Status   int            `json:"status"`
	Response map[string]any `json:"response"`
}

// RunResult is the outcome of a scenario run.
type RunResult struct {
	Scenario string       `json:"scenario"`
	Trace    []StepResult `json:"trace"`

	// Failures lists every unmet expectation. Empty means the scenario
	// passed.
	Failures []string `json:"-"`
}

// Run executes a scenario against a fresh server and returns its trace
// and any expectation failures.
func (h *Harness) Run(sc *Scenario) (*RunResult, error) {
	dbDir, err := os.MkdirTemp(h.dir, "scenario-*")
	if err != nil {
		return nil, fmt.Errorf("create scenario dir: %w", err)
	}
	defer os.RemoveAll(dbDir)

	session, err := store.Open(filepath.Join(dbDir, "backdesk.db"))
	if err != nil {
		return nil, fmt.Errorf("open scenario database: %w", err)
	}
	defer session.Close()
	session.SetClock(testutil.NewFixedClock(fixedTimestamp))

	validator, err := schema.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("compile schemas: %w", err)
	}

	server := api.New(slog.New(slog.DiscardHandler), session, validator)
	server.SetIDGenerator(testutil.NewSequentialIDs())
	handler := server.Handler()

	result := &RunResult{Scenario: sc.Name}

	for i, step := range sc.Steps {
		var body bytes.Buffer
		if step.Body != nil {
			if err := json.NewEncoder(&body).Encode(step.Body); err != nil {
				return nil, fmt.Errorf("step %d: encode body: %w", i, err)
			}
		}

		req := httptest.NewRequest(step.Method, step.Path, &body)
		if step.Body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		var response map[string]any
		if rec.Body.Len() > 0 {
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				return nil, fmt.Errorf("step %d: response is not JSON: %w", i, err)
			}
		}

		result.Trace = append(result.Trace, StepResult{
			Step:     i,
			Name:     step.Name,
			Method:   step.Method,
			Path:     step.Path,
			Status:   rec.Code,
			Response: response,
		})

		result.Failures = append(result.Failures, checkStep(i, step, rec.Code, response)...)
	}

	return result, nil
}

