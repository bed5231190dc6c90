package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/repository"
	"task-tracker/internal/service"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	completionRepo := repository.NewCompletionRepository(db)

	auth := service.NewAuthService(userRepo, "test-secret", time.Hour, 24*time.Hour)
	tasks := service.NewTaskService(taskRepo)
	completions := service.NewCompletionService(completionRepo, taskRepo)

	logger := log.New(io.Discard)
	return New(":0", logger, auth, tasks, completions)
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func registerUser(t *testing.T, srv *Server, username string) string {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "correct horse",
		"password_confirm": "correct horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Access string `json:"access"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.Access)
	return resp.Access
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice")

	rec := doJSON(t, srv, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		Username string `json:"username"`
	}
	decodeBody(t, rec, &me)
	assert.Equal(t, "alice", me.Username)

	rec = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnauthenticatedRejected(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/tasks", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTaskValidationOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice")

	rec := doJSON(t, srv, http.MethodPost, "/api/tasks", token, map[string]string{
		"title":     "pay rent",
		"task_type": "once",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Field string `json:"field"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "due_date", body.Field)

	// nothing stored
	rec = doJSON(t, srv, http.MethodGet, "/api/tasks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []json.RawMessage
	decodeBody(t, rec, &tasks)
	assert.Empty(t, tasks)
}

func TestCompletionFlow(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice")

	rec := doJSON(t, srv, http.MethodPost, "/api/tasks", token, map[string]string{
		"title":     "exercise",
		"task_type": "daily",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var task struct {
		ID uint `json:"id"`
	}
	decodeBody(t, rec, &task)

	// daily task shows up today
	rec = doJSON(t, srv, http.MethodGet, "/api/tasks/today", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var today []struct {
		IsCompletedToday bool `json:"is_completed_today"`
	}
	decodeBody(t, rec, &today)
	require.Len(t, today, 1)
	assert.False(t, today[0].IsCompletedToday)

	// first completion creates, second is a no-op
	rec = doJSON(t, srv, http.MethodPost, "/api/completions", token, map[string]any{"task_id": task.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var marked struct {
		Created    bool `json:"created"`
		Completion struct {
			ID uint `json:"id"`
		} `json:"completion"`
	}
	decodeBody(t, rec, &marked)
	assert.True(t, marked.Created)

	rec = doJSON(t, srv, http.MethodPost, "/api/completions", token, map[string]any{"task_id": task.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &marked)
	assert.False(t, marked.Created)

	rec = doJSON(t, srv, http.MethodGet, "/api/tasks/today", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &today)
	require.Len(t, today, 1)
	assert.True(t, today[0].IsCompletedToday)

	// streak and stats reflect the single completion
	rec = doJSON(t, srv, http.MethodGet, "/api/completions/streak?task_id=1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var streak struct {
		Streak int `json:"streak"`
	}
	decodeBody(t, rec, &streak)
	assert.Equal(t, 1, streak.Streak)

	rec = doJSON(t, srv, http.MethodGet, "/api/completions/weekly_stats?task_id=1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats struct {
		TotalDays      int      `json:"total_days"`
		CompletedDays  int      `json:"completed_days"`
		CompletionRate float64  `json:"completion_rate"`
		Dates          []string `json:"dates"`
	}
	decodeBody(t, rec, &stats)
	assert.Equal(t, 7, stats.TotalDays)
	assert.Equal(t, 1, stats.CompletedDays)
	assert.Equal(t, 14.3, stats.CompletionRate)
	assert.Len(t, stats.Dates, 1)

	// undo and verify
	rec = doJSON(t, srv, http.MethodDelete, "/api/completions/1", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/completions/check?task_id=1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var check struct {
		Completed bool `json:"completed"`
	}
	decodeBody(t, rec, &check)
	assert.False(t, check.Completed)
}

func TestArchiveFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice")

	rec := doJSON(t, srv, http.MethodPost, "/api/tasks", token, map[string]string{
		"title":     "old habit",
		"task_type": "daily",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/tasks/1/archive", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var task struct {
		Status     string  `json:"status"`
		ArchivedAt *string `json:"archived_at"`
	}
	decodeBody(t, rec, &task)
	assert.Equal(t, "archived", task.Status)
	assert.NotNil(t, task.ArchivedAt)

	rec = doJSON(t, srv, http.MethodPost, "/api/tasks/1/restore", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &task)
	assert.Equal(t, "active", task.Status)
	assert.Nil(t, task.ArchivedAt)
}

func TestCrossUserAccessIsNotFound(t *testing.T) {
	srv := newTestServer(t)
	aliceToken := registerUser(t, srv, "alice")
	bobToken := registerUser(t, srv, "bob")

	rec := doJSON(t, srv, http.MethodPost, "/api/tasks", aliceToken, map[string]string{
		"title":     "secret",
		"task_type": "daily",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/tasks/1", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/completions/streak?task_id=1", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
