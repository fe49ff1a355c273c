package graphql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/graphql-go/graphql"

	"github.com/rpggio/workflow/internal/domain/dashboard"
	"github.com/rpggio/workflow/internal/domain/progress"
	"github.com/rpggio/workflow/internal/domain/project"
	"github.com/rpggio/workflow/internal/domain/task"
)

// ProjectService is the project behaviour the schema resolves against.
type ProjectService interface {
	List(ctx context.Context, opts project.ListOptions) ([]project.Project, error)
	ListByStatus(ctx context.Context, status project.Status) ([]project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	Create(ctx context.Context, payload any) (*project.Project, error)
	Update(ctx context.Context, id string, payload any) (*project.Project, error)
	Delete(ctx context.Context, id string) error
	Counts(ctx context.Context, id string) (progress.Counts, error)
}

// TaskService is the task behaviour the schema resolves against.
type TaskService interface {
	List(ctx context.Context, filter task.Filter) ([]task.Task, error)
	Get(ctx context.Context, id string) (*task.Task, error)
	Create(ctx context.Context, payload any) (*task.Task, error)
	Update(ctx context.Context, id string, payload any) (*task.Task, error)
	BulkUpdateStatus(ctx context.Context, ids []string, status string) ([]task.Task, error)
	Delete(ctx context.Context, id string) error
}

// DashboardService computes the dashboard summary.
type DashboardService interface {
	Stats(ctx context.Context) (*dashboard.Stats, error)
}

type resolver struct {
	projects  ProjectService
	tasks     TaskService
	dashboard DashboardService
	logger    *slog.Logger
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

func intArg(p graphql.ResolveParams, name string) int {
	n, _ := p.Args[name].(int)
	return n
}

func (r *resolver) listProjects(p graphql.ResolveParams) (any, error) {
	status, _ := p.Args["status"].(project.Status)
	projects, err := r.projects.List(p.Context, project.ListOptions{
		Status:    status,
		Limit:     intArg(p, "limit"),
		Offset:    intArg(p, "offset"),
		SortBy:    stringArg(p, "sortBy"),
		SortOrder: stringArg(p, "sortOrder"),
	})
	if err != nil {
		return nil, r.fail(err, "Error fetching projects")
	}
	return projects, nil
}

func (r *resolver) project(p graphql.ResolveParams) (any, error) {
	found, err := r.projects.Get(p.Context, stringArg(p, "id"))
	if err != nil {
		return nil, r.fail(err, "Error fetching project")
	}
	return found, nil
}

func (r *resolver) projectByStatus(p graphql.ResolveParams) (any, error) {
	status, _ := p.Args["status"].(project.Status)
	projects, err := r.projects.ListByStatus(p.Context, status)
	if err != nil {
		return nil, r.fail(err, "Error fetching projects by status")
	}
	return projects, nil
}

// tasks matches assignee as a case-insensitive substring of the name.
func (r *resolver) listTasks(p graphql.ResolveParams) (any, error) {
	status, _ := p.Args["status"].(task.Status)
	priority, _ := p.Args["priority"].(task.Priority)
	tasks, err := r.tasks.List(p.Context, task.Filter{
		ProjectID:        stringArg(p, "projectId"),
		Status:           status,
		Priority:         priority,
		AssigneeContains: stringArg(p, "assignee"),
		Limit:            intArg(p, "limit"),
		Offset:           intArg(p, "offset"),
		SortBy:           stringArg(p, "sortBy"),
		SortOrder:        stringArg(p, "sortOrder"),
	})
	if err != nil {
		return nil, r.fail(err, "Error fetching tasks")
	}
	return tasks, nil
}

func (r *resolver) task(p graphql.ResolveParams) (any, error) {
	found, err := r.tasks.Get(p.Context, stringArg(p, "id"))
	if err != nil {
		return nil, r.fail(err, "Error fetching task")
	}
	return found, nil
}

func (r *resolver) tasksByProject(p graphql.ResolveParams) (any, error) {
	tasks, err := r.tasks.List(p.Context, task.Filter{ProjectID: stringArg(p, "projectId")})
	if err != nil {
		return nil, r.fail(err, "Error fetching tasks by project")
	}
	return tasks, nil
}

func (r *resolver) tasksByAssignee(p graphql.ResolveParams) (any, error) {
	tasks, err := r.tasks.List(p.Context, task.Filter{AssigneeContains: stringArg(p, "assignee")})
	if err != nil {
		return nil, r.fail(err, "Error fetching tasks by assignee")
	}
	return tasks, nil
}

func (r *resolver) dashboardStats(p graphql.ResolveParams) (any, error) {
	stats, err := r.dashboard.Stats(p.Context)
	if err != nil {
		return nil, r.fail(err, "Error fetching dashboard stats")
	}
	return stats, nil
}

func (r *resolver) createProject(p graphql.ResolveParams) (any, error) {
	created, err := r.projects.Create(p.Context, p.Args["input"])
	if err != nil {
		return nil, r.fail(err, "Error creating project")
	}
	return created, nil
}

func (r *resolver) updateProject(p graphql.ResolveParams) (any, error) {
	updated, err := r.projects.Update(p.Context, stringArg(p, "id"), p.Args["input"])
	if err != nil {
		return nil, r.fail(err, "Error updating project")
	}
	return updated, nil
}

// deleteProject removes the project and its tasks.
func (r *resolver) deleteProject(p graphql.ResolveParams) (any, error) {
	if err := r.projects.Delete(p.Context, stringArg(p, "id")); err != nil {
		return nil, r.fail(err, "Error deleting project")
	}
	return true, nil
}

func (r *resolver) createTask(p graphql.ResolveParams) (any, error) {
	created, err := r.tasks.Create(p.Context, p.Args["input"])
	if err != nil {
		return nil, r.fail(err, "Error creating task")
	}
	return created, nil
}

func (r *resolver) updateTask(p graphql.ResolveParams) (any, error) {
	updated, err := r.tasks.Update(p.Context, stringArg(p, "id"), p.Args["input"])
	if err != nil {
		return nil, r.fail(err, "Error updating task")
	}
	return updated, nil
}

func (r *resolver) deleteTask(p graphql.ResolveParams) (any, error) {
	if err := r.tasks.Delete(p.Context, stringArg(p, "id")); err != nil {
		return nil, r.fail(err, "Error deleting task")
	}
	return true, nil
}

func (r *resolver) bulkUpdateTaskStatus(p graphql.ResolveParams) (any, error) {
	raw, _ := p.Args["taskIds"].([]any)
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	status, _ := p.Args["status"].(task.Status)

	updated, err := r.tasks.BulkUpdateStatus(p.Context, ids, string(status))
	if err != nil {
		return nil, r.fail(err, "Error bulk updating tasks")
	}
	return updated, nil
}

func (r *resolver) projectTaskCount(p graphql.ResolveParams) (any, error) {
	counts, err := r.projects.Counts(p.Context, asProject(p.Source).ID)
	if err != nil {
		return nil, r.fail(err, "Error counting tasks")
	}
	return counts.Total, nil
}

func (r *resolver) projectCompletedTaskCount(p graphql.ResolveParams) (any, error) {
	counts, err := r.projects.Counts(p.Context, asProject(p.Source).ID)
	if err != nil {
		return nil, r.fail(err, "Error counting tasks")
	}
	return counts.Completed, nil
}

func (r *resolver) projectTasks(p graphql.ResolveParams) (any, error) {
	tasks, err := r.tasks.List(p.Context, task.Filter{ProjectID: asProject(p.Source).ID})
	if err != nil {
		return nil, r.fail(err, "Error fetching project tasks")
	}
	return tasks, nil
}

// taskProject resolves to null when the owning project is gone.
func (r *resolver) taskProject(p graphql.ResolveParams) (any, error) {
	found, err := r.projects.Get(p.Context, asTask(p.Source).ProjectID)
	if errors.Is(err, project.ErrProjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.fail(err, "Error fetching project")
	}
	return found, nil
}
