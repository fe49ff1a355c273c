package validation_test

import (
	"strings"
	"testing"
	"time"

	"github.com/rpggio/workflow/internal/validation"
	"github.com/stretchr/testify/require"
)

func messagesOf(t *testing.T, err error) []string {
	t.Helper()
	verr, ok := validation.AsError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	return verr.Messages
}

func TestProjectCreate_Messages(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    []string
	}{
		{
			name:    "missing title",
			payload: map[string]any{},
			want:    []string{"Title is required"},
		},
		{
			name:    "blank title is trimmed",
			payload: map[string]any{"title": "   "},
			want:    []string{"Title is required"},
		},
		{
			name:    "long title",
			payload: map[string]any{"title": strings.Repeat("a", 101)},
			want:    []string{"Title cannot be more than 100 characters"},
		},
		{
			name:    "bad status",
			payload: map[string]any{"title": "Launch", "status": "done"},
			want:    []string{"Status must be planning, active, completed, or on-hold"},
		},
		{
			name:    "progress above range",
			payload: map[string]any{"title": "Launch", "progress": 150},
			want:    []string{"Progress cannot be more than 100"},
		},
		{
			name:    "team member without name",
			payload: map[string]any{"title": "Launch", "team": []any{map[string]any{"avatar": "a.png"}}},
			want:    []string{"Team member name is required"},
		},
		{
			name:    "due date in the past",
			payload: map[string]any{"title": "Launch", "dueDate": "2000-01-01"},
			want:    []string{"Due date must be in the future"},
		},
		{
			name:    "unknown field",
			payload: map[string]any{"title": "Launch", "owner": "sam"},
			want:    []string{`"owner" is not allowed`},
		},
		{
			name: "messages follow field order",
			payload: map[string]any{
				"dueDate":  "2001-05-05",
				"progress": -1,
				"status":   "unknown",
				"title":    "",
			},
			want: []string{
				"Title is required",
				"Status must be planning, active, completed, or on-hold",
				"Progress cannot be less than 0",
				"Due date must be in the future",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validation.ProjectCreate.Validate(tt.payload)
			require.Equal(t, tt.want, messagesOf(t, err))
		})
	}
}

func TestProjectCreate_ValidTrimsStrings(t *testing.T) {
	due := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)
	doc, err := validation.ProjectCreate.Validate(map[string]any{
		"title":    "  Launch  ",
		"status":   "on-hold",
		"progress": 20,
		"team":     []any{map[string]any{"name": " Ana "}},
		"dueDate":  due,
	})
	require.NoError(t, err)
	require.Equal(t, "Launch", doc["title"])

	team := doc["team"].([]any)
	require.Equal(t, "Ana", team[0].(map[string]any)["name"])
}

func TestProjectUpdate_AllFieldsOptional(t *testing.T) {
	_, err := validation.ProjectUpdate.Validate(map[string]any{})
	require.NoError(t, err)

	_, err = validation.ProjectUpdate.Validate(map[string]any{"title": ""})
	require.Equal(t, []string{"Title is required"}, messagesOf(t, err))
}

func TestTaskCreate_Messages(t *testing.T) {
	_, err := validation.TaskCreate.Validate(map[string]any{})
	require.Equal(t, []string{
		"Task title is required",
		"Assignee is required",
		"Project ID is required",
	}, messagesOf(t, err))

	_, err = validation.TaskCreate.Validate(map[string]any{
		"title":          "Write docs",
		"assignee":       map[string]any{},
		"projectId":      "p1",
		"priority":       "urgent",
		"estimatedHours": -2,
		"actualHours":    -1,
	})
	require.Equal(t, []string{
		"Priority must be low, medium, or high",
		"Assignee name is required",
		"Estimated hours cannot be negative",
		"Actual hours cannot be negative",
	}, messagesOf(t, err))
}

func TestTaskUpdate_RejectsProjectID(t *testing.T) {
	_, err := validation.TaskUpdate.Validate(map[string]any{"projectId": "other"})
	require.Equal(t, []string{`"projectId" is not allowed`}, messagesOf(t, err))

	_, err = validation.TaskUpdate.Validate(map[string]any{"status": "in-progress", "tags": []any{"a"}})
	require.NoError(t, err)
}

func TestValidate_RejectsNonObject(t *testing.T) {
	_, err := validation.ProjectCreate.Validate([]string{"a"})
	require.Equal(t, []string{"Payload must be a JSON object"}, messagesOf(t, err))
}

func TestDecode(t *testing.T) {
	var out struct {
		Title   string           `json:"title"`
		DueDate *validation.Date `json:"dueDate"`
	}
	err := validation.Decode(map[string]any{"title": "Launch", "dueDate": "2030-02-03"}, &out)
	require.NoError(t, err)
	require.Equal(t, "Launch", out.Title)
	require.Equal(t, time.Date(2030, 2, 3, 0, 0, 0, 0, time.UTC), *out.DueDate.Ptr())
}

func TestParseDate(t *testing.T) {
	got, err := validation.ParseDate("2030-02-03T10:00:00+02:00")
	require.NoError(t, err)
	require.Equal(t, time.Date(2030, 2, 3, 8, 0, 0, 0, time.UTC), got)

	_, err = validation.ParseDate("next tuesday")
	require.Error(t, err)
}
