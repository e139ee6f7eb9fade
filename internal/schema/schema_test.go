package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator()
	require.NoError(t, err, "NewValidator()")
	return v
}

func TestValidate_ValidUser(t *testing.T) {
	v := newValidator(t)

	errs := v.Validate("user", map[string]any{
		"name":  "John Doe",
		"email": "john@example.com",
	})
	assert.Empty(t, errs)

	errs = v.Validate("user", map[string]any{
		"name":  "Ada",
		"email": "ada@example.com",
		"role":  "admin",
	})
	assert.Empty(t, errs)
}

func TestValidate_MissingRequiredField(t *testing.T) {
	v := newValidator(t)

	errs := v.Validate("user", map[string]any{"name": "John Doe"})
	require.NotEmpty(t, errs, "missing email must fail validation")
	for _, e := range errs {
		assert.Equal(t, ErrCodeSchema, e.Code)
	}
}

func TestValidate_BadEmail(t *testing.T) {
	v := newValidator(t)

	errs := v.Validate("user", map[string]any{
		"name":  "John Doe",
		"email": "not-an-email",
	})
	require.NotEmpty(t, errs)
	assert.Equal(t, "email", errs[0].Field)
}

func TestValidate_BadRole(t *testing.T) {
	v := newValidator(t)

	errs := v.Validate("user", map[string]any{
		"name":  "John Doe",
		"email": "john@example.com",
		"role":  "superuser",
	})
	require.NotEmpty(t, errs)
	assert.Equal(t, "role", errs[0].Field)
}

func TestValidate_UnknownField(t *testing.T) {
	v := newValidator(t)

	errs := v.Validate("user", map[string]any{
		"name":     "John Doe",
		"email":    "john@example.com",
		"password": "hunter2",
	})
	require.NotEmpty(t, errs, "closed schema must reject unknown fields")
}

func TestValidate_Task(t *testing.T) {
	v := newValidator(t)

	errs := v.Validate("task", map[string]any{
		"user_id":  1,
		"title":    "write report",
		"done":     true,
		"due_date": "2024-06-01",
	})
	assert.Empty(t, errs)

	errs = v.Validate("task", map[string]any{
		"user_id":  0,
		"title":    "",
		"due_date": "June 1st",
	})
	require.NotEmpty(t, errs)
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	assert.True(t, fields["user_id"], "user_id violation reported, got %v", errs)
	assert.True(t, fields["title"], "title violation reported, got %v", errs)
}

func TestValidate_UnknownEntity(t *testing.T) {
	v := newValidator(t)

	errs := v.Validate("invoice", map[string]any{})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeUnknownEntity, errs[0].Code)
}

func TestNormalizeStrings(t *testing.T) {
	in := map[string]any{
		"name":    "  José  ", // decomposed é with padding
		"email":   "jose@example.com",
		"user_id": 7,
	}
	out := NormalizeStrings(in)

	assert.Equal(t, "José", out["name"], "NFC composition and trim")
	assert.Equal(t, "jose@example.com", out["email"])
	assert.Equal(t, 7, out["user_id"])

	// Input map is untouched.
	assert.Equal(t, "  José  ", in["name"])
}
