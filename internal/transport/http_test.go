package transport_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/workflow/internal/testserver"
)

func createProject(t *testing.T, ts *testserver.TestServer, body map[string]any) string {
	t.Helper()
	resp := ts.Do(t, http.MethodPost, "/api/v1/projects", body)
	require.Equal(t, http.StatusCreated, resp.Status, resp.Body)
	return resp.Data(t)["id"].(string)
}

func createTask(t *testing.T, ts *testserver.TestServer, projectID, title, status string) string {
	t.Helper()
	body := map[string]any{
		"title":     title,
		"assignee":  map[string]any{"name": "Ana"},
		"projectId": projectID,
	}
	if status != "" {
		body["status"] = status
	}
	resp := ts.Do(t, http.MethodPost, "/api/v1/tasks", body)
	require.Equal(t, http.StatusCreated, resp.Status, resp.Body)
	return resp.Data(t)["id"].(string)
}

func TestHTTPServer_Health(t *testing.T) {
	ts := testserver.New(t)

	resp := ts.Do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "OK", resp.Body["status"])
	require.Equal(t, "Workflow Backend is running", resp.Body["message"])
	require.NotEmpty(t, resp.Body["timestamp"])
}

func TestHTTPServer_UnknownRoute(t *testing.T) {
	ts := testserver.New(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/widgets"},
		{http.MethodPost, "/api/v1/tasks/stats"},
	} {
		resp := ts.Do(t, tc.method, tc.path, nil)
		require.Equal(t, http.StatusNotFound, resp.Status, tc.path)
		require.Equal(t, false, resp.Body["success"])
		require.Equal(t, "Route not found", resp.Body["message"])
	}
}

func TestHTTPServer_InvalidJSON(t *testing.T) {
	ts := testserver.New(t)

	for _, body := range []string{
		`{"title":`,
		`{"title":"x"} garbage`,
		`{"title":"x"}{"title":"y"}`,
	} {
		resp := ts.Do(t, http.MethodPost, "/api/v1/projects", body)
		require.Equal(t, http.StatusBadRequest, resp.Status, body)
		require.Equal(t, "Invalid JSON payload", resp.Body["message"])
	}

	resp := ts.Do(t, http.MethodGet, "/api/v1/projects", nil)
	require.Empty(t, resp.List(t))

	resp = ts.Do(t, http.MethodPost, "/api/v1/projects", "{\"title\":\"x\"}\n")
	require.Equal(t, http.StatusCreated, resp.Status)
}

func TestHTTPServer_ValidationErrors(t *testing.T) {
	ts := testserver.New(t)

	resp := ts.Do(t, http.MethodPost, "/api/v1/projects", map[string]any{
		"status":   "archived",
		"progress": 120,
	})
	require.Equal(t, http.StatusBadRequest, resp.Status)
	require.Equal(t, "Validation failed", resp.Body["message"])
	require.Equal(t, []any{
		"Title is required",
		"Status must be planning, active, completed, or on-hold",
		"Progress cannot be more than 100",
	}, resp.Body["errors"])

	resp = ts.Do(t, http.MethodGet, "/api/v1/tasks?limit=-1", nil)
	require.Equal(t, http.StatusBadRequest, resp.Status)
	require.Equal(t, []any{"limit must be a non-negative integer"}, resp.Body["errors"])
}

func TestHTTPServer_ProjectProgressScenario(t *testing.T) {
	ts := testserver.New(t)

	resp := ts.Do(t, http.MethodPost, "/api/v1/projects", map[string]any{"title": "Launch"})
	require.Equal(t, http.StatusCreated, resp.Status)
	require.Equal(t, "Project created successfully", resp.Body["message"])
	project := resp.Data(t)
	require.Equal(t, float64(0), project["progress"])
	require.Equal(t, "planning", project["status"])
	require.Nil(t, project["daysRemaining"])
	projectID := project["id"].(string)

	createTask(t, ts, projectID, "Write copy", "done")
	todoID := createTask(t, ts, projectID, "Ship it", "todo")

	resp = ts.Do(t, http.MethodGet, "/api/v1/projects/"+projectID+"/stats", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "Project statistics retrieved successfully", resp.Body["message"])
	stats := resp.Data(t)
	require.Equal(t, float64(50), stats["progress"])
	require.Equal(t, float64(2), stats["totalTasks"])
	require.Equal(t, float64(1), stats["completedTasks"])
	require.Equal(t, float64(1), stats["pendingTasks"])
	require.Equal(t, float64(0), stats["teamSize"])

	resp = ts.Do(t, http.MethodPatch, "/api/v1/tasks/"+todoID+"/status", map[string]any{"status": "in-progress"})
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, float64(50), resp.Data(t)["completionPercentage"])

	resp = ts.Do(t, http.MethodGet, "/api/v1/projects/"+projectID, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	detail := resp.Data(t)
	require.Equal(t, "Launch", detail["title"])
	require.Equal(t, float64(2), detail["taskCount"])
	require.Equal(t, float64(1), detail["completedTaskCount"])
	require.Len(t, detail["tasks"], 2)

	resp = ts.Do(t, http.MethodDelete, "/api/v1/tasks/"+todoID, nil)
	require.Equal(t, http.StatusOK, resp.Status)

	resp = ts.Do(t, http.MethodGet, "/api/v1/projects/"+projectID+"/stats", nil)
	require.Equal(t, float64(100), resp.Data(t)["progress"])
}

func TestHTTPServer_CreateTaskMissingProject(t *testing.T) {
	ts := testserver.New(t)

	resp := ts.Do(t, http.MethodPost, "/api/v1/tasks", map[string]any{
		"title":     "Orphan",
		"assignee":  map[string]any{"name": "Ana"},
		"projectId": "does-not-exist",
	})
	require.Equal(t, http.StatusNotFound, resp.Status)
	require.Equal(t, "Project not found", resp.Body["message"])

	resp = ts.Do(t, http.MethodGet, "/api/v1/tasks", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Empty(t, resp.List(t))
}

func TestHTTPServer_InvalidStatusLeavesTaskUnchanged(t *testing.T) {
	ts := testserver.New(t)
	projectID := createProject(t, ts, map[string]any{"title": "Launch"})
	taskID := createTask(t, ts, projectID, "Ship it", "")

	resp := ts.Do(t, http.MethodPatch, "/api/v1/tasks/"+taskID+"/status", map[string]any{"status": "archived"})
	require.Equal(t, http.StatusBadRequest, resp.Status)
	require.Equal(t, "Invalid status. Must be todo, in-progress, or done", resp.Body["message"])

	resp = ts.Do(t, http.MethodGet, "/api/v1/tasks/"+taskID, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "todo", resp.Data(t)["status"])
}

func TestHTTPServer_DeleteMissing(t *testing.T) {
	ts := testserver.New(t)

	resp := ts.Do(t, http.MethodDelete, "/api/v1/tasks/nope", nil)
	require.Equal(t, http.StatusNotFound, resp.Status)
	require.Equal(t, "Task not found", resp.Body["message"])

	resp = ts.Do(t, http.MethodDelete, "/api/v1/projects/nope", nil)
	require.Equal(t, http.StatusNotFound, resp.Status)
	require.Equal(t, "Project not found", resp.Body["message"])
}

func TestHTTPServer_DeleteProjectCascades(t *testing.T) {
	ts := testserver.New(t)
	projectID := createProject(t, ts, map[string]any{"title": "Launch"})
	taskID := createTask(t, ts, projectID, "Ship it", "")

	resp := ts.Do(t, http.MethodDelete, "/api/v1/projects/"+projectID, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "Project deleted successfully", resp.Body["message"])
	require.Contains(t, resp.Body, "data")
	require.Nil(t, resp.Body["data"])

	resp = ts.Do(t, http.MethodGet, "/api/v1/tasks/"+taskID, nil)
	require.Equal(t, http.StatusNotFound, resp.Status)
}

func TestHTTPServer_TaskListings(t *testing.T) {
	ts := testserver.New(t)
	projectID := createProject(t, ts, map[string]any{"title": "Launch"})
	createTask(t, ts, projectID, "Write copy", "done")
	createTask(t, ts, projectID, "Ship it", "todo")
	otherID := createProject(t, ts, map[string]any{"title": "Other"})
	createTask(t, ts, otherID, "Elsewhere", "todo")

	resp := ts.Do(t, http.MethodGet, "/api/v1/tasks/project/"+projectID+"?status=todo", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	tasks := resp.List(t)
	require.Len(t, tasks, 1)
	require.Equal(t, "Ship it", tasks[0].(map[string]any)["title"])

	resp = ts.Do(t, http.MethodGet, "/api/v1/tasks/project/missing", nil)
	require.Equal(t, http.StatusNotFound, resp.Status)
	require.Equal(t, "Project not found", resp.Body["message"])

	resp = ts.Do(t, http.MethodGet, "/api/v1/projects/"+projectID+"/tasks", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Len(t, resp.List(t), 2)

	resp = ts.Do(t, http.MethodGet, "/api/v1/tasks?assignee=Ana&projectId="+otherID, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Len(t, resp.List(t), 1)

	resp = ts.Do(t, http.MethodGet, "/api/v1/tasks/stats", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	stats := resp.Data(t)
	require.Equal(t, float64(3), stats["totalTasks"])
	require.Equal(t, float64(2), stats["todoTasks"])
	require.Equal(t, float64(1), stats["completedTasks"])
}

func TestHTTPServer_TasksCarryProjectSummary(t *testing.T) {
	ts := testserver.New(t)
	projectID := createProject(t, ts, map[string]any{"title": "Launch", "status": "active"})

	resp := ts.Do(t, http.MethodPost, "/api/v1/tasks", map[string]any{
		"title":     "Write copy",
		"assignee":  map[string]any{"name": "Ana"},
		"projectId": projectID,
	})
	require.Equal(t, http.StatusCreated, resp.Status)
	created := resp.Data(t)
	require.Equal(t, projectID, created["projectId"])
	require.Equal(t, map[string]any{
		"id":       projectID,
		"title":    "Launch",
		"status":   "active",
		"progress": float64(0),
	}, created["project"])
	taskID := created["id"].(string)

	resp = ts.Do(t, http.MethodPatch, "/api/v1/tasks/"+taskID+"/status", map[string]any{"status": "done"})
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, float64(100), resp.Data(t)["project"].(map[string]any)["progress"])

	resp = ts.Do(t, http.MethodGet, "/api/v1/tasks/"+taskID, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "Launch", resp.Data(t)["project"].(map[string]any)["title"])

	resp = ts.Do(t, http.MethodPut, "/api/v1/tasks/"+taskID, map[string]any{"title": "Write better copy"})
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "active", resp.Data(t)["project"].(map[string]any)["status"])

	resp = ts.Do(t, http.MethodGet, "/api/v1/tasks", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	list := resp.List(t)
	require.Len(t, list, 1)
	require.Equal(t, "Launch", list[0].(map[string]any)["project"].(map[string]any)["title"])
}

func TestHTTPServer_UpdateAndRecalculate(t *testing.T) {
	ts := testserver.New(t)
	projectID := createProject(t, ts, map[string]any{"title": "Launch", "progress": 90})

	resp := ts.Do(t, http.MethodPut, "/api/v1/projects/"+projectID, map[string]any{
		"status": "on-hold",
		"team":   []any{map[string]any{"name": "Ana"}},
	})
	require.Equal(t, http.StatusOK, resp.Status)
	project := resp.Data(t)
	require.Equal(t, "on-hold", project["status"])
	require.Equal(t, "Launch", project["title"])
	require.Equal(t, float64(90), project["progress"])

	resp = ts.Do(t, http.MethodPut, "/api/v1/projects/"+projectID+"/progress", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, "Project progress updated successfully", resp.Body["message"])
	require.Equal(t, map[string]any{"progress": float64(0)}, resp.Data(t))

	resp = ts.Do(t, http.MethodPut, "/api/v1/projects/missing/progress", nil)
	require.Equal(t, http.StatusNotFound, resp.Status)
}

func TestHTTPServer_Metrics(t *testing.T) {
	ts := testserver.New(t)
	ts.Do(t, http.MethodGet, "/health", nil)

	resp, err := http.Get(ts.Server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
