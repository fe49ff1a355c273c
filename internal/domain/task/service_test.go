package task_test

import (
	"context"
	"testing"

	"github.com/rpggio/workflow/internal/domain/task"
	"github.com/rpggio/workflow/internal/repository"
	"github.com/rpggio/workflow/internal/repository/mocks"
	"github.com/rpggio/workflow/internal/validation"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTaskService() (*task.Service, *mocks.TaskRepository, *mocks.ProjectRepository, *mocks.ProgressEngine) {
	tasks := &mocks.TaskRepository{}
	projects := &mocks.ProjectRepository{}
	engine := &mocks.ProgressEngine{}
	return task.NewService(tasks, projects, engine, nil), tasks, projects, engine
}

func TestTaskService_CreateDefaultsAndRefresh(t *testing.T) {
	ctx := context.Background()
	svc, tasks, projects, engine := newTaskService()

	projects.On("Exists", ctx, "proj1").Return(true, nil)
	tasks.On("Create", ctx, mock.Anything).Return(nil)
	engine.On("Refresh", ctx, "proj1").Return()

	created, err := svc.Create(ctx, map[string]any{
		"title":     " Write docs ",
		"assignee":  map[string]any{"name": "Ana"},
		"projectId": "proj1",
		"tags":      []any{"docs", "docs", "launch"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Write docs", created.Title)
	require.Equal(t, task.StatusTodo, created.Status)
	require.Equal(t, task.PriorityMedium, created.Priority)
	require.Equal(t, []string{"docs", "launch"}, created.Tags)
	require.Zero(t, created.ActualHours)
	engine.AssertCalled(t, "Refresh", ctx, "proj1")
}

func TestTaskService_CreateMissingProject(t *testing.T) {
	ctx := context.Background()
	svc, tasks, projects, engine := newTaskService()

	projects.On("Exists", ctx, "missing").Return(false, nil)

	_, err := svc.Create(ctx, map[string]any{
		"title":     "Orphan",
		"assignee":  map[string]any{"name": "Ana"},
		"projectId": "missing",
	})
	require.ErrorIs(t, err, task.ErrProjectNotFound)
	tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	engine.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
}

func TestTaskService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, tasks, _, _ := newTaskService()

	_, err := svc.Create(ctx, map[string]any{"title": "No owner", "projectId": "proj1"})
	verr, ok := validation.AsError(err)
	require.True(t, ok)
	require.Equal(t, []string{"Assignee is required"}, verr.Messages)
	tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTaskService_UpdateRefreshesOnlyOnStatus(t *testing.T) {
	ctx := context.Background()
	svc, tasks, _, engine := newTaskService()

	tasks.On("Get", ctx, "t1").Return(&task.Task{ID: "t1", ProjectID: "proj1", Status: task.StatusTodo}, nil)
	tasks.On("Update", ctx, mock.Anything).Return(nil)

	updated, err := svc.Update(ctx, "t1", map[string]any{"title": "Renamed", "assignee": map[string]any{"avatar": "a.png"}})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
	require.Equal(t, "a.png", updated.Assignee.Avatar)
	engine.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)

	engine.On("Refresh", ctx, "proj1").Return()
	updated, err = svc.Update(ctx, "t1", map[string]any{"status": "done"})
	require.NoError(t, err)
	require.Equal(t, task.StatusDone, updated.Status)
	engine.AssertNumberOfCalls(t, "Refresh", 1)
}

func TestTaskService_UpdateStatusInvalid(t *testing.T) {
	ctx := context.Background()
	svc, tasks, _, engine := newTaskService()

	_, err := svc.UpdateStatus(ctx, "t1", "archived")
	require.ErrorIs(t, err, task.ErrInvalidStatus)
	tasks.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	tasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	engine.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
}

func TestTaskService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc, tasks, _, engine := newTaskService()

	tasks.On("Get", ctx, "t1").Return(&task.Task{ID: "t1", ProjectID: "proj1", Status: task.StatusTodo}, nil)
	tasks.On("Update", ctx, mock.MatchedBy(func(t *task.Task) bool {
		return t.Status == task.StatusInProgress
	})).Return(nil)
	engine.On("Refresh", ctx, "proj1").Return()

	updated, err := svc.UpdateStatus(ctx, "t1", "in-progress")
	require.NoError(t, err)
	require.Equal(t, task.StatusInProgress, updated.Status)
	engine.AssertCalled(t, "Refresh", ctx, "proj1")
}

func TestTaskService_BulkUpdateSkipsMissing(t *testing.T) {
	ctx := context.Background()
	svc, tasks, _, engine := newTaskService()

	tasks.On("Get", ctx, "t1").Return(&task.Task{ID: "t1", ProjectID: "proj1", Status: task.StatusTodo}, nil)
	tasks.On("Get", ctx, "t2").Return(&task.Task{ID: "t2", ProjectID: "proj1", Status: task.StatusInProgress}, nil)
	tasks.On("Get", ctx, "nonexistent").Return(nil, repository.ErrNotFound)
	tasks.On("Update", ctx, mock.Anything).Return(nil)
	engine.On("Refresh", ctx, "proj1").Return()

	updated, err := svc.BulkUpdateStatus(ctx, []string{"t1", "t2", "nonexistent"}, "done")
	require.NoError(t, err)
	require.Len(t, updated, 2)
	require.Equal(t, "t1", updated[0].ID)
	require.Equal(t, "t2", updated[1].ID)
	for _, u := range updated {
		require.Equal(t, task.StatusDone, u.Status)
	}
	engine.AssertNumberOfCalls(t, "Refresh", 1)
}

func TestTaskService_BulkUpdateNoneResolve(t *testing.T) {
	ctx := context.Background()
	svc, tasks, _, engine := newTaskService()

	tasks.On("Get", ctx, "gone").Return(nil, repository.ErrNotFound)

	updated, err := svc.BulkUpdateStatus(ctx, []string{"gone"}, "done")
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Empty(t, updated)
	engine.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)

	_, err = svc.BulkUpdateStatus(ctx, []string{"gone"}, "finished")
	require.ErrorIs(t, err, task.ErrInvalidStatus)
}

func TestTaskService_DeleteMissing(t *testing.T) {
	ctx := context.Background()
	svc, tasks, _, engine := newTaskService()

	tasks.On("Get", ctx, "missing").Return(nil, repository.ErrNotFound)

	err := svc.Delete(ctx, "missing")
	require.ErrorIs(t, err, task.ErrTaskNotFound)
	tasks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	engine.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
}

func TestTaskService_DeleteRefreshesFormerProject(t *testing.T) {
	ctx := context.Background()
	svc, tasks, _, engine := newTaskService()

	tasks.On("Get", ctx, "t1").Return(&task.Task{ID: "t1", ProjectID: "proj1"}, nil)
	tasks.On("Delete", ctx, "t1").Return(nil)
	engine.On("Refresh", ctx, "proj1").Return()

	require.NoError(t, svc.Delete(ctx, "t1"))
	engine.AssertCalled(t, "Refresh", ctx, "proj1")
}

func TestTaskService_AggregateStats(t *testing.T) {
	ctx := context.Background()
	svc, tasks, _, _ := newTaskService()

	tasks.On("CountByStatus", ctx).Return(map[task.Status]int{
		task.StatusTodo:       3,
		task.StatusInProgress: 2,
		task.StatusDone:       4,
	}, nil)
	tasks.On("CountByPriority", ctx).Return(map[task.Priority]int{task.PriorityHigh: 5}, nil)

	stats, err := svc.AggregateStats(ctx)
	require.NoError(t, err)
	require.Equal(t, &task.Stats{
		TotalTasks:        9,
		TodoTasks:         3,
		InProgressTasks:   2,
		CompletedTasks:    4,
		HighPriorityTasks: 5,
	}, stats)
}

func TestCompletionPercentage(t *testing.T) {
	require.Equal(t, 100, task.CompletionPercentage(task.StatusDone))
	require.Equal(t, 50, task.CompletionPercentage(task.StatusInProgress))
	require.Equal(t, 0, task.CompletionPercentage(task.StatusTodo))
}
