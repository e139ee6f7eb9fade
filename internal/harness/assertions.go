package harness

import (
	"fmt"
	"reflect"
	"strings"
)

// checkStep evaluates a step's expectations against its response.
// Returns one failure message per unmet expectation.
func checkStep(i int, step Step, status int, response map[string]any) []string {
	if step.Expect == nil {
		return nil
	}

	label := step.Name
	if label == "" {
		label = fmt.Sprintf("%s %s", step.Method, step.Path)
	}

	var failures []string

	if step.Expect.Status != 0 && status != step.Expect.Status {
		failures = append(failures,
			fmt.Sprintf("step %d (%s): status = %d, want %d", i, label, status, step.Expect.Status))
	}

	if step.Expect.Success != nil {
		got, _ := response["success"].(bool)
		if got != *step.Expect.Success {
			failures = append(failures,
				fmt.Sprintf("step %d (%s): success = %v, want %v", i, label, got, *step.Expect.Success))
		}
	}

	if step.Expect.Error != "" {
		got, _ := response["error"].(string)
		if !strings.Contains(got, step.Expect.Error) {
			failures = append(failures,
				fmt.Sprintf("step %d (%s): error %q does not contain %q", i, label, got, step.Expect.Error))
		}
	}

	if len(step.Expect.Data) > 0 {
		data, _ := response["data"].(map[string]any)
		failures = append(failures, matchSubset(i, label, step.Expect.Data, data)...)
	}

	return failures
}

// matchSubset compares expected fields against actual data. Only the
// expected keys are checked; extra actual fields are fine.
//
// Numbers are compared as float64s: YAML integers and decoded JSON
// numbers would otherwise never be equal.
func matchSubset(i int, label string, want map[string]any, got map[string]any) []string {
	var failures []string

	for key, wantVal := range want {
		gotVal, ok := got[key]
		if !ok {
			failures = append(failures,
				fmt.Sprintf("step %d (%s): data.%s missing, want %v", i, label, key, wantVal))
			continue
		}
		if !valuesEqual(wantVal, gotVal) {
			failures = append(failures,
				fmt.Sprintf("step %d (%s): data.%s = %v, want %v", i, label, key, gotVal, wantVal))
		}
	}

	return failures
}

// valuesEqual compares a YAML-decoded expected value with a JSON-decoded
// actual value.
func valuesEqual(want, got any) bool {
	if wf, ok := toFloat(want); ok {
		gf, ok := toFloat(got)
		return ok && wf == gf
	}
	return reflect.DeepEqual(want, got)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
