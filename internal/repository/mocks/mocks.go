package mocks

import (
	"context"
	"time"

	"github.com/rpggio/workflow/internal/domain/progress"
	"github.com/rpggio/workflow/internal/domain/project"
	"github.com/rpggio/workflow/internal/domain/task"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for the project store.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*project.Project); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.Project, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProjectRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *ProjectRepository) SetProgress(ctx context.Context, id string, value int) error {
	args := m.Called(ctx, id, value)
	return args.Error(0)
}

func (m *ProjectRepository) CountByStatus(ctx context.Context) (map[project.Status]int, error) {
	args := m.Called(ctx)
	if counts, ok := args.Get(0).(map[project.Status]int); ok {
		return counts, args.Error(1)
	}
	return nil, args.Error(1)
}

// TaskRepository is a mock for the task store.
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TaskRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*task.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) List(ctx context.Context, filter task.Filter) ([]task.Task, error) {
	args := m.Called(ctx, filter)
	if list, ok := args.Get(0).([]task.Task); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TaskRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TaskRepository) DeleteByProject(ctx context.Context, projectID string) (int, error) {
	args := m.Called(ctx, projectID)
	return args.Int(0), args.Error(1)
}

func (m *TaskRepository) CountTasks(ctx context.Context, projectID string) (progress.Counts, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(progress.Counts), args.Error(1)
}

func (m *TaskRepository) CountByStatus(ctx context.Context) (map[task.Status]int, error) {
	args := m.Called(ctx)
	if counts, ok := args.Get(0).(map[task.Status]int); ok {
		return counts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) CountByPriority(ctx context.Context) (map[task.Priority]int, error) {
	args := m.Called(ctx)
	if counts, ok := args.Get(0).(map[task.Priority]int); ok {
		return counts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) CountOverdue(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

// ProgressEngine is a mock for the progress engine.
type ProgressEngine struct {
	mock.Mock
}

func (m *ProgressEngine) Refresh(ctx context.Context, projectID string) {
	m.Called(ctx, projectID)
}

func (m *ProgressEngine) Recompute(ctx context.Context, projectID string) (int, error) {
	args := m.Called(ctx, projectID)
	return args.Int(0), args.Error(1)
}
