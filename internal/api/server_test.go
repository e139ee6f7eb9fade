package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backdesk/backdesk/internal/schema"
	"github.com/backdesk/backdesk/internal/store"
	"github.com/backdesk/backdesk/internal/testutil"
)

// newTestServer builds a Server over a fresh session with deterministic
// clock and request ids.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	session, err := store.Open(filepath.Join(t.TempDir(), "backdesk.db"))
	require.NoError(t, err, "store.Open")
	t.Cleanup(func() { session.Close() })
	session.SetClock(testutil.NewFixedClock("2024-05-01T10:00:00Z"))

	validator, err := schema.NewValidator()
	require.NoError(t, err, "schema.NewValidator")

	s := New(slog.New(slog.DiscardHandler), session, validator)
	s.SetIDGenerator(testutil.NewSequentialIDs())
	return s
}

// do runs one request through the full middleware stack and decodes the
// envelope.
func do(t *testing.T, s *Server, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env),
			"response body: %s", rec.Body.String())
	}
	return rec, env
}

func TestCreateUser_JohnDoeScenario(t *testing.T) {
	s := newTestServer(t)

	rec, env := do(t, s, http.MethodPost, "/api/users", map[string]any{
		"name":  "John Doe",
		"email": "john@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, env.Success)

	data := env.Data.(map[string]any)
	assert.Equal(t, "John Doe", data["name"])
	assert.Equal(t, "john@example.com", data["email"])
	assert.NotZero(t, data["id"], "generated identifier expected")

	// Fetch-all returns exactly one row matching those fields.
	rec, env = do(t, s, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := env.Data.([]any)
	require.Len(t, list, 1)
	row := list[0].(map[string]any)
	assert.Equal(t, "John Doe", row["name"])
	assert.Equal(t, "john@example.com", row["email"])

	// A second user with the same email yields one error and count stays 1.
	rec, env = do(t, s, http.MethodPost, "/api/users", map[string]any{
		"name":  "Johnny",
		"email": "john@example.com",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
	assert.Empty(t, env.Errors)

	_, env = do(t, s, http.MethodGet, "/api/users", nil)
	assert.Len(t, env.Data.([]any), 1)
}

func TestCreateUser_ValidationErrors(t *testing.T) {
	s := newTestServer(t)

	rec, env := do(t, s, http.MethodPost, "/api/users", map[string]any{
		"name": "No Email",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Errors, "validation errors carried in errors array")
}

func TestCreateUser_MalformedBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestServer(t)

	rec, env := do(t, s, http.MethodGet, "/api/users/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "not found")
}

func TestUserByID_BadID(t *testing.T) {
	s := newTestServer(t)

	rec, _ := do(t, s, http.MethodGet, "/api/users/banana", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUsers_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec, env := do(t, s, http.MethodPatch, "/api/users", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.False(t, env.Success)

	rec, _ = do(t, s, http.MethodPost, "/api/users/1", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestUpdateAndDeleteUser(t *testing.T) {
	s := newTestServer(t)

	_, env := do(t, s, http.MethodPost, "/api/users", map[string]any{
		"name": "Ada", "email": "ada@example.com",
	})
	id := int64(env.Data.(map[string]any)["id"].(float64))

	rec, env := do(t, s, http.MethodPut, jsonPath("/api/users", id), map[string]any{
		"name": "Ada Lovelace", "email": "ada@example.com", "role": "admin",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ada Lovelace", env.Data.(map[string]any)["name"])
	assert.Equal(t, "admin", env.Data.(map[string]any)["role"])

	rec, env = do(t, s, http.MethodDelete, jsonPath("/api/users", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, _ = do(t, s, http.MethodGet, jsonPath("/api/users", id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTasks_ForeignKeyConflict(t *testing.T) {
	s := newTestServer(t)

	_, env := do(t, s, http.MethodPost, "/api/users", map[string]any{
		"name": "Ada", "email": "ada@example.com",
	})
	userID := int64(env.Data.(map[string]any)["id"].(float64))

	rec, env := do(t, s, http.MethodPost, "/api/tasks", map[string]any{
		"user_id": userID, "title": "write report", "done": false,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	taskID := int64(env.Data.(map[string]any)["id"].(float64))

	// Deleting the task's owner conflicts; deleting the task first works.
	rec, _ = do(t, s, http.MethodDelete, jsonPath("/api/users", userID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = do(t, s, http.MethodDelete, jsonPath("/api/tasks", taskID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, s, http.MethodDelete, jsonPath("/api/users", userID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListTasks_Filters(t *testing.T) {
	s := newTestServer(t)

	_, env := do(t, s, http.MethodPost, "/api/users", map[string]any{
		"name": "Ada", "email": "ada@example.com",
	})
	userID := int64(env.Data.(map[string]any)["id"].(float64))

	for _, body := range []map[string]any{
		{"user_id": userID, "title": "a", "done": true},
		{"user_id": userID, "title": "b", "done": false},
	} {
		rec, _ := do(t, s, http.MethodPost, "/api/tasks", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, env := do(t, s, http.MethodGet, "/api/tasks?done=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := env.Data.([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].(map[string]any)["title"])

	rec, _ = do(t, s, http.MethodGet, "/api/tasks?done=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCustomers_CRUD(t *testing.T) {
	s := newTestServer(t)

	rec, env := do(t, s, http.MethodPost, "/api/customers", map[string]any{
		"name": "Acme", "email": "office@acme.test", "company": "Acme Corp",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := int64(env.Data.(map[string]any)["id"].(float64))

	rec, env = do(t, s, http.MethodGet, jsonPath("/api/customers", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme Corp", env.Data.(map[string]any)["company"])

	rec, env = do(t, s, http.MethodGet, "/api/customers?company=Acme+Corp", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.Data.([]any), 1)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)

	rec, _ := do(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-Id"))

	rec, _ = do(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, "req-2", rec.Header().Get("X-Request-Id"))
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec, env := do(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, _ = do(t, s, http.MethodPost, "/healthz", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	do(t, s, http.MethodGet, "/healthz", nil)

	req := httptest.NewRequest(http.MethodGet, "/debug/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "backdesk_http_requests_total")
}

// jsonPath joins a collection path with an id.
func jsonPath(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}
