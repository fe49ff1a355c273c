// Package testserver runs the full HTTP stack over an in-memory SQLite store.
package testserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/workflow/internal/app"
	"github.com/rpggio/workflow/internal/sqlite"
)

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Services *app.Services
}

// Response is a decoded JSON response.
type Response struct {
	Status int
	Body   map[string]any
}

// Data returns the envelope's data field as an object.
func (r Response) Data(t *testing.T) map[string]any {
	t.Helper()
	data, ok := r.Body["data"].(map[string]any)
	require.True(t, ok, "data is not an object: %v", r.Body["data"])
	return data
}

// List returns the envelope's data field as a list.
func (r Response) List(t *testing.T) []any {
	t.Helper()
	data, ok := r.Body["data"].([]any)
	require.True(t, ok, "data is not a list: %v", r.Body["data"])
	return data
}

func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	services := app.NewServices(app.NewSQLiteStores(db), nil)
	handler, err := app.NewHandler(services, app.HandlerOptions{Metrics: true, Version: "test"}, nil)
	require.NoError(t, err)

	server := httptest.NewServer(handler)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:   server,
		DB:       db,
		Services: services,
	}
}

// Do sends body as JSON (or raw when it is a string) and decodes the JSON reply.
func (ts *TestServer) Do(t *testing.T, method, path string, body any) Response {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	require.NoError(t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := Response{Status: resp.StatusCode}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out.Body))
	}
	return out
}

// GraphQL posts a query and returns the decoded result.
func (ts *TestServer) GraphQL(t *testing.T, query string, variables map[string]any) Response {
	t.Helper()
	return ts.Do(t, http.MethodPost, "/graphql", map[string]any{"query": query, "variables": variables})
}
