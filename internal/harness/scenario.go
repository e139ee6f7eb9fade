package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines an API test scenario: an ordered list of HTTP steps
// executed against a fresh database, each with optional expectations on
// the response.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden file
	// name for trace comparison.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Steps are executed in order against one session, so later steps see
	// the state earlier steps created.
	Steps []Step `yaml:"steps"`
}

// Step is one HTTP request with optional response expectations.
type Step struct {
	// Name labels the step in failure messages.
	Name string `yaml:"name,omitempty"`

	// Method is the HTTP method.
	Method string `yaml:"method"`

	// Path is the request path, including any query string.
	Path string `yaml:"path"`

	// Body is the JSON request body, if any.
	Body map[string]any `yaml:"body,omitempty"`

	// Expect validates the response. If nil, the step only has to return
	// some response; nothing is checked.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies expected response properties.
type Expect struct {
	// Status is the expected HTTP status code.
	Status int `yaml:"status"`

	// Success, if set, is matched against the envelope's success flag.
	Success *bool `yaml:"success,omitempty"`

	// Data contains expected envelope data fields. This is a subset
	// match: only the listed fields are compared.
	Data map[string]any `yaml:"data,omitempty"`

	// Error, if non-empty, must be a substring of the envelope's error.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads and validates a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	return ParseScenario(data)
}

// ParseScenario parses a scenario from YAML bytes. Unknown keys are
// rejected so typos in expectations fail loudly instead of silently
// checking nothing.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	if sc.Name == "" {
		return nil, fmt.Errorf("scenario has no name")
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", sc.Name)
	}
	for i, step := range sc.Steps {
		if step.Method == "" || step.Path == "" {
			return nil, fmt.Errorf("scenario %q step %d: method and path are required", sc.Name, i)
		}
	}

	return &sc, nil
}
