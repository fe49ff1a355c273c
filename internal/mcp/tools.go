package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/workflow/internal/domain/project"
)

type tools struct {
	services Services
	logger   *slog.Logger
}

func registerTools(server *sdkmcp.Server, services Services, logger *slog.Logger) {
	t := &tools{services: services, logger: logger}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List projects, newest first unless sortBy/sortOrder say otherwise",
	}, t.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project_stats",
		Description: "Task totals, progress, days remaining and team size for one project",
	}, t.getProjectStats)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a project. Status defaults to planning and progress to 0",
	}, t.createProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_task",
		Description: "Create a task in an existing project and recompute the project's progress",
	}, t.createTask)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_task_status",
		Description: "Move a task to todo, in-progress or done and recompute its project's progress",
	}, t.updateTaskStatus)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "bulk_update_task_status",
		Description: "Set the status of many tasks at once. Unknown IDs are skipped; the updated tasks are returned",
	}, t.bulkUpdateTaskStatus)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recalculate_progress",
		Description: "Recompute a project's progress from its tasks",
	}, t.recalculateProgress)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "dashboard_stats",
		Description: "Project and task counts by status and priority, including overdue tasks",
	}, t.dashboardStats)
}

func (t *tools) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListProjectsParams) (*sdkmcp.CallToolResult, any, error) {
	projects, err := t.services.Projects.List(ctx, project.ListOptions{
		Status:    project.Status(in.Status),
		Limit:     in.Limit,
		Offset:    in.Offset,
		SortBy:    in.SortBy,
		SortOrder: in.SortOrder,
	})
	if err != nil {
		return nil, nil, t.toolError("list_projects", err)
	}
	return textResult(projects)
}

func (t *tools) getProjectStats(ctx context.Context, _ *sdkmcp.CallToolRequest, in ProjectIDParams) (*sdkmcp.CallToolResult, any, error) {
	stats, err := t.services.Projects.Stats(ctx, in.ProjectID)
	if err != nil {
		return nil, nil, t.toolError("get_project_stats", err)
	}
	return textResult(stats)
}

func (t *tools) createProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, any, error) {
	created, err := t.services.Projects.Create(ctx, in)
	if err != nil {
		return nil, nil, t.toolError("create_project", err)
	}
	return textResult(created)
}

func (t *tools) createTask(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateTaskParams) (*sdkmcp.CallToolResult, any, error) {
	created, err := t.services.Tasks.Create(ctx, in)
	if err != nil {
		return nil, nil, t.toolError("create_task", err)
	}
	return textResult(created)
}

func (t *tools) updateTaskStatus(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateTaskStatusParams) (*sdkmcp.CallToolResult, any, error) {
	updated, err := t.services.Tasks.UpdateStatus(ctx, in.TaskID, in.Status)
	if err != nil {
		return nil, nil, t.toolError("update_task_status", err)
	}
	return textResult(updated)
}

func (t *tools) bulkUpdateTaskStatus(ctx context.Context, _ *sdkmcp.CallToolRequest, in BulkUpdateTaskStatusParams) (*sdkmcp.CallToolResult, any, error) {
	updated, err := t.services.Tasks.BulkUpdateStatus(ctx, in.TaskIDs, in.Status)
	if err != nil {
		return nil, nil, t.toolError("bulk_update_task_status", err)
	}
	return textResult(updated)
}

func (t *tools) recalculateProgress(ctx context.Context, _ *sdkmcp.CallToolRequest, in ProjectIDParams) (*sdkmcp.CallToolResult, any, error) {
	value, err := t.services.Projects.RecalculateProgress(ctx, in.ProjectID)
	if err != nil {
		return nil, nil, t.toolError("recalculate_progress", err)
	}
	return textResult(ProgressResult{ProjectID: in.ProjectID, Progress: value})
}

func (t *tools) dashboardStats(ctx context.Context, _ *sdkmcp.CallToolRequest, _ DashboardStatsParams) (*sdkmcp.CallToolResult, any, error) {
	stats, err := t.services.Dashboard.Stats(ctx)
	if err != nil {
		return nil, nil, t.toolError("dashboard_stats", err)
	}
	return textResult(stats)
}

// toolError returns a coded error for known domain failures. Anything else is
// logged and reported without its internals.
func (t *tools) toolError(tool string, err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	t.logger.Error("mcp tool failed", "tool", tool, "error", err)
	return &APIError{Code: "INTERNAL", Message: "internal error"}
}

func textResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encoding tool result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
