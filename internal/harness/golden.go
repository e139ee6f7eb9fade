package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares the full trace against a
// golden file at testdata/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// The trace is deterministic: fixed clock, sequential request ids, and a
// fresh database per run, so any diff is a real behavior change.
func RunWithGolden(t *testing.T, h *Harness, sc *Scenario) {
	t.Helper()

	result, err := h.Run(sc)
	if err != nil {
		t.Fatalf("scenario %q failed to run: %v", sc.Name, err)
	}
	for _, failure := range result.Failures {
		t.Error(failure)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		t.Fatalf("marshal trace: %v", err)
	}
	data = append(data, '\n')

	g := goldie.New(t)
	g.Assert(t, sc.Name, data)
}
