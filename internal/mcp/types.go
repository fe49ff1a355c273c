package mcp

// Tool inputs. Fields without omitempty are required by the generated input
// schema.

type ListProjectsParams struct {
	Status    string `json:"status,omitempty" jsonschema:"filter by status: planning, active, completed or on-hold"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of projects"`
	Offset    int    `json:"offset,omitempty" jsonschema:"number of projects to skip"`
	SortBy    string `json:"sortBy,omitempty" jsonschema:"createdAt, updatedAt, title, dueDate, progress or status"`
	SortOrder string `json:"sortOrder,omitempty" jsonschema:"asc or desc (default desc)"`
}

type ProjectIDParams struct {
	ProjectID string `json:"projectId" jsonschema:"project ID"`
}

type MemberParams struct {
	Name   string `json:"name" jsonschema:"display name"`
	Avatar string `json:"avatar,omitempty" jsonschema:"avatar URL"`
}

type CreateProjectParams struct {
	Title       string         `json:"title" jsonschema:"project title, at most 100 characters"`
	Description string         `json:"description,omitempty" jsonschema:"at most 500 characters"`
	Status      string         `json:"status,omitempty" jsonschema:"planning, active, completed or on-hold (default planning)"`
	Progress    *int           `json:"progress,omitempty" jsonschema:"initial progress 0-100"`
	Team        []MemberParams `json:"team,omitempty" jsonschema:"team members"`
	DueDate     string         `json:"dueDate,omitempty" jsonschema:"future date, RFC3339 or YYYY-MM-DD"`
}

type CreateTaskParams struct {
	Title          string       `json:"title" jsonschema:"task title, at most 100 characters"`
	Description    string       `json:"description,omitempty" jsonschema:"at most 500 characters"`
	Status         string       `json:"status,omitempty" jsonschema:"todo, in-progress or done (default todo)"`
	Priority       string       `json:"priority,omitempty" jsonschema:"low, medium or high (default medium)"`
	Assignee       MemberParams `json:"assignee" jsonschema:"person responsible"`
	ProjectID      string       `json:"projectId" jsonschema:"owning project ID"`
	DueDate        string       `json:"dueDate,omitempty" jsonschema:"future date, RFC3339 or YYYY-MM-DD"`
	EstimatedHours *float64     `json:"estimatedHours,omitempty" jsonschema:"estimate in hours, not negative"`
	ActualHours    *float64     `json:"actualHours,omitempty" jsonschema:"hours spent, not negative"`
	Tags           []string     `json:"tags,omitempty" jsonschema:"free-form labels"`
}

type UpdateTaskStatusParams struct {
	TaskID string `json:"taskId" jsonschema:"task ID"`
	Status string `json:"status" jsonschema:"todo, in-progress or done"`
}

type BulkUpdateTaskStatusParams struct {
	TaskIDs []string `json:"taskIds" jsonschema:"task IDs; unknown IDs are skipped"`
	Status  string   `json:"status" jsonschema:"todo, in-progress or done"`
}

type DashboardStatsParams struct{}

// ProgressResult is returned by recalculate_progress.
type ProgressResult struct {
	ProjectID string `json:"projectId"`
	Progress  int    `json:"progress"`
}
