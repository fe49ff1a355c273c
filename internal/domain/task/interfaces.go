package task

import "context"

// Repository provides persistence for tasks.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context, filter Filter) ([]Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[Status]int, error)
	CountByPriority(ctx context.Context) (map[Priority]int, error)
}

// ProjectLookup checks that a referenced project exists.
type ProjectLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ProgressRefresher recomputes a project's progress after its tasks change.
type ProgressRefresher interface {
	Refresh(ctx context.Context, projectID string)
}
