package project

import (
	"context"

	"github.com/rpggio/workflow/internal/domain/progress"
	"github.com/rpggio/workflow/internal/domain/task"
)

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context, opts ListOptions) ([]Project, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id string) error
}

// TaskRepository provides the task queries projects depend on.
type TaskRepository interface {
	List(ctx context.Context, filter task.Filter) ([]task.Task, error)
	CountTasks(ctx context.Context, projectID string) (progress.Counts, error)
	DeleteByProject(ctx context.Context, projectID string) (int, error)
}

// ProgressRecomputer recomputes and stores a project's progress.
type ProgressRecomputer interface {
	Recompute(ctx context.Context, projectID string) (int, error)
}
