package server

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/shopping-list/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Server{
		Port:            8000,
		ShutdownTimeout: time.Second,
		DB:              config.DB{URL: ":memory:"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func serve(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{name: "create list", method: http.MethodPost, path: "/shopping-lists/", body: `{"name":"Groceries"}`, wantStatus: http.StatusCreated},
		{name: "create list without slash", method: http.MethodPost, path: "/shopping-lists", body: `{"name":"Party"}`, wantStatus: http.StatusCreated},
		{name: "list lists", method: http.MethodGet, path: "/shopping-lists/", wantStatus: http.StatusOK},
		{name: "list lists without slash", method: http.MethodGet, path: "/shopping-lists", wantStatus: http.StatusOK},
		{name: "get list", method: http.MethodGet, path: "/shopping-lists/1", wantStatus: http.StatusOK},
		{name: "update list", method: http.MethodPut, path: "/shopping-lists/1", body: `{"description":"weekly"}`, wantStatus: http.StatusOK},
		{name: "create item", method: http.MethodPost, path: "/shopping-items/", body: `{"name":"Milk","shopping_list_id":1}`, wantStatus: http.StatusCreated},
		{name: "list items", method: http.MethodGet, path: "/shopping-items/?shopping_list_id=1", wantStatus: http.StatusOK},
		{name: "get item", method: http.MethodGet, path: "/shopping-items/1", wantStatus: http.StatusOK},
		{name: "update item", method: http.MethodPut, path: "/shopping-items/1", body: `{"quantity":2}`, wantStatus: http.StatusOK},
		{name: "toggle item", method: http.MethodPatch, path: "/shopping-items/1/toggle", wantStatus: http.StatusOK},
		{name: "delete item", method: http.MethodDelete, path: "/shopping-items/1", wantStatus: http.StatusOK},
		{name: "delete list", method: http.MethodDelete, path: "/shopping-lists/2", wantStatus: http.StatusOK},
		{name: "tools", method: http.MethodGet, path: "/tools", wantStatus: http.StatusOK},
		{name: "invoke tool", method: http.MethodPost, path: "/tools/get_shopping_lists", body: `{}`, wantStatus: http.StatusOK},
		{name: "health", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/recipes", wantStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodPost, path: "/shopping-items/1/toggle", wantStatus: http.StatusMethodNotAllowed},
	}

	// Steps build on each other, so they run in order against one server.
	for _, tt := range tests {
		rr := serve(s, tt.method, tt.path, tt.body)
		assert.Equal(t, tt.wantStatus, rr.Code, "%s: %s", tt.name, rr.Body.String())
	}
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t)

	serve(s, http.MethodGet, "/shopping-lists/", "")
	serve(s, http.MethodGet, "/shopping-lists/5", "")

	rr := serve(s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",route="/shopping-lists`)
	assert.Contains(t, body, `http_requests_total{method="GET",route="/shopping-lists/{id}",status="404"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestNew_BadDatabaseURL(t *testing.T) {
	cfg := config.Server{DB: config.DB{URL: "mysql://localhost/shop"}}

	_, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestNew_LogsSchemaVersion(t *testing.T) {
	var logs bytes.Buffer
	cfg := config.Server{ShutdownTimeout: time.Second, DB: config.DB{URL: ":memory:"}}

	s, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	assert.Contains(t, logs.String(), "database ready")
	assert.Contains(t, logs.String(), "dialect=sqlite")
	assert.Contains(t, logs.String(), "schema_version=1")
}
