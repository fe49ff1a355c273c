package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `workflow tracks Projects and the Tasks inside them.

Core concepts:
- Project: title, status (planning, active, completed, on-hold), team and an integer progress 0-100.
- Task: belongs to exactly one project; status (todo, in-progress, done), priority (low, medium, high) and an assignee.
- Progress is round(done / total * 100) over the project's tasks and is recomputed whenever a task is created, deleted or changes status.

Typical flow:
1) Orient: list_projects, then get_project_stats or dashboard_stats.
2) Plan: create_project, then create_task for each piece of work (projectId must exist).
3) Track: update_task_status for one task, bulk_update_task_status for many (unknown IDs are skipped).
4) If progress looks stale, call recalculate_progress.

Errors carry a code: PROJECT_NOT_FOUND, TASK_NOT_FOUND, VALIDATION_FAILED or INVALID_STATUS.

Docs:
- workflow://docs/fields (field rules and defaults)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "workflow://docs/fields",
		Name:        "docs_fields",
		Title:       "workflow field rules",
		Description: "Validation rules and defaults for project and task fields.",
		Content: `# Field rules

## Project
- title: required, at most 100 characters, trimmed.
- description: at most 500 characters.
- status: planning (default), active, completed, on-hold.
- progress: integer 0-100, defaults to 0, recomputed from tasks.
- team: list of {name, avatar}; name is required.
- dueDate: optional, must be in the future when written.

## Task
- title: required, at most 100 characters.
- description: at most 500 characters.
- status: todo (default), in-progress, done.
- priority: low, medium (default), high.
- assignee: required {name, avatar}.
- projectId: required, must reference an existing project; cannot be changed later.
- dueDate: optional, must be in the future when written.
- estimatedHours, actualHours: not negative; actualHours defaults to 0.
- tags: list of strings, duplicates removed.

Deleting a project deletes its tasks.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
