// Package schema validates entity payloads against CUE schemas before they
// reach the store. Validation is fail-slow: every problem in a payload is
// reported, not just the first.
package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed entities.cue
var schemaSource string

// Validation error codes (V100-V199).
const (
	// ErrCodeSchema indicates the payload violates the entity schema
	// (missing required field, wrong type, failed constraint).
	ErrCodeSchema = "V100"

	// ErrCodeUnknownEntity indicates validation was requested for an
	// entity kind the schema does not define.
	ErrCodeUnknownEntity = "V101"
)

// ValidationError describes one schema violation in a payload.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validator checks entity payloads against the embedded CUE schemas.
// Construct once and share; Validate is safe for concurrent use.
type Validator struct {
	ctx      *cue.Context
	entities map[string]cue.Value
}

// NewValidator compiles the embedded schemas.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	root := ctx.CompileString(schemaSource, cue.Filename("entities.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("compile entity schemas: %w", err)
	}

	v := &Validator{ctx: ctx, entities: map[string]cue.Value{}}
	for _, name := range []string{"user", "customer", "task"} {
		def := "#" + strings.ToUpper(name[:1]) + name[1:]
		val := root.LookupPath(cue.ParsePath(def))
		if err := val.Err(); err != nil {
			return nil, fmt.Errorf("lookup %s: %w", def, err)
		}
		v.entities[name] = val
	}

	return v, nil
}

// Validate checks payload against the schema for entity (one of "user",
// "customer", "task"). Returns all violations found; an empty slice means
// the payload is valid.
func (v *Validator) Validate(entity string, payload map[string]any) []ValidationError {
	schemaVal, ok := v.entities[entity]
	if !ok {
		return []ValidationError{{
			Message: fmt.Sprintf("no schema for entity %q", entity),
			Code:    ErrCodeUnknownEntity,
		}}
	}

	data := v.ctx.Encode(payload)
	if err := data.Err(); err != nil {
		return []ValidationError{{
			Message: fmt.Sprintf("payload is not encodable: %v", err),
			Code:    ErrCodeSchema,
		}}
	}

	unified := schemaVal.Unify(data)

	// Concrete(true) makes missing required fields an error; optional
	// fields stay optional.
	err := unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var out []ValidationError
	for _, e := range cueerrors.Errors(err) {
		out = append(out, ValidationError{
			Field:   fieldFromPath(e.Path()),
			Message: messageOf(e),
			Code:    ErrCodeSchema,
		})
	}
	return out
}

// fieldFromPath converts a CUE error path to the payload field name.
// The leading definition selector (e.g. "#User") is dropped.
func fieldFromPath(path []string) string {
	parts := make([]string, 0, len(path))
	for _, p := range path {
		if strings.HasPrefix(p, "#") {
			continue
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, ".")
}

// messageOf renders a CUE error's message without position information.
func messageOf(e cueerrors.Error) string {
	format, args := e.Msg()
	return fmt.Sprintf(format, args...)
}
