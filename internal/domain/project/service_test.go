package project_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rpggio/workflow/internal/domain/progress"
	"github.com/rpggio/workflow/internal/domain/project"
	"github.com/rpggio/workflow/internal/domain/task"
	"github.com/rpggio/workflow/internal/repository"
	"github.com/rpggio/workflow/internal/repository/mocks"
	"github.com/rpggio/workflow/internal/validation"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProjectService() (*project.Service, *mocks.ProjectRepository, *mocks.TaskRepository, *mocks.ProgressEngine) {
	projects := &mocks.ProjectRepository{}
	tasks := &mocks.TaskRepository{}
	engine := &mocks.ProgressEngine{}
	return project.NewService(projects, tasks, engine, nil), projects, tasks, engine
}

func TestProjectService_CreateDefaults(t *testing.T) {
	ctx := context.Background()
	svc, projects, _, _ := newProjectService()

	projects.On("Create", ctx, mock.Anything).Return(nil)

	created, err := svc.Create(ctx, map[string]any{"title": "Launch"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, project.StatusPlanning, created.Status)
	require.Zero(t, created.Progress)
	require.NotNil(t, created.Team)
	require.Nil(t, created.DueDate)
}

func TestProjectService_CreateKeepsCallerProgress(t *testing.T) {
	ctx := context.Background()
	svc, projects, _, _ := newProjectService()

	projects.On("Create", ctx, mock.Anything).Return(nil)

	created, err := svc.Create(ctx, map[string]any{"title": "Launch", "progress": 40, "status": "active"})
	require.NoError(t, err)
	require.Equal(t, 40, created.Progress)
	require.Equal(t, project.StatusActive, created.Status)
}

func TestProjectService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, projects, _, _ := newProjectService()

	_, err := svc.Create(ctx, map[string]any{"title": ""})
	verr, ok := validation.AsError(err)
	require.True(t, ok)
	require.Equal(t, []string{"Title is required"}, verr.Messages)
	projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProjectService_UpdatePartial(t *testing.T) {
	ctx := context.Background()
	svc, projects, _, _ := newProjectService()

	projects.On("Get", ctx, "p1").Return(&project.Project{
		ID:     "p1",
		Title:  "Launch",
		Status: project.StatusPlanning,
		Team:   []project.TeamMember{{Name: "Ana"}},
	}, nil)
	projects.On("Update", ctx, mock.Anything).Return(nil)

	updated, err := svc.Update(ctx, "p1", map[string]any{"status": "on-hold"})
	require.NoError(t, err)
	require.Equal(t, "Launch", updated.Title)
	require.Equal(t, project.StatusOnHold, updated.Status)
	require.Len(t, updated.Team, 1)
}

func TestProjectService_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	svc, projects, tasks, _ := newProjectService()

	var order []string
	projects.On("Get", ctx, "p1").Return(&project.Project{ID: "p1"}, nil)
	tasks.On("DeleteByProject", ctx, "p1").Return(3, nil).Run(func(mock.Arguments) {
		order = append(order, "tasks")
	})
	projects.On("Delete", ctx, "p1").Return(nil).Run(func(mock.Arguments) {
		order = append(order, "project")
	})

	require.NoError(t, svc.Delete(ctx, "p1"))
	require.Equal(t, []string{"tasks", "project"}, order)
}

func TestProjectService_DeleteMissing(t *testing.T) {
	ctx := context.Background()
	svc, projects, tasks, _ := newProjectService()

	projects.On("Get", ctx, "missing").Return(nil, repository.ErrNotFound)

	err := svc.Delete(ctx, "missing")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
	tasks.AssertNotCalled(t, "DeleteByProject", mock.Anything, mock.Anything)
	projects.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestProjectService_Stats(t *testing.T) {
	ctx := context.Background()
	svc, projects, tasks, _ := newProjectService()

	due := time.Now().Add(49 * time.Hour)
	projects.On("Get", ctx, "p1").Return(&project.Project{
		ID:       "p1",
		Status:   project.StatusActive,
		Progress: 50,
		DueDate:  &due,
		Team:     []project.TeamMember{{Name: "Ana"}, {Name: "Bo"}},
	}, nil)
	tasks.On("CountTasks", ctx, "p1").Return(progress.Counts{Total: 2, Completed: 1}, nil)

	stats, err := svc.Stats(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalTasks)
	require.Equal(t, 1, stats.CompletedTasks)
	require.Equal(t, 1, stats.PendingTasks)
	require.Equal(t, 50, stats.Progress)
	require.Equal(t, 2, stats.TeamSize)
	require.NotNil(t, stats.DaysRemaining)
	require.Equal(t, 3, *stats.DaysRemaining)
}

func TestProjectService_DetailCounts(t *testing.T) {
	ctx := context.Background()
	svc, projects, tasks, _ := newProjectService()

	projects.On("Get", ctx, "p1").Return(&project.Project{ID: "p1"}, nil)
	tasks.On("List", ctx, task.Filter{ProjectID: "p1"}).Return([]task.Task{
		{ID: "t1", Status: task.StatusDone},
		{ID: "t2", Status: task.StatusTodo},
		{ID: "t3", Status: task.StatusDone},
	}, nil)

	detail, err := svc.Detail(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 3, detail.TaskCount)
	require.Equal(t, 2, detail.CompletedTaskCount)
}

func TestProjectService_ListTasksScopesToProject(t *testing.T) {
	ctx := context.Background()
	svc, projects, tasks, _ := newProjectService()

	projects.On("Get", ctx, "p1").Return(&project.Project{ID: "p1"}, nil)
	tasks.On("List", ctx, task.Filter{ProjectID: "p1", Status: task.StatusDone}).Return([]task.Task{{ID: "t1"}}, nil)

	list, err := svc.ListTasks(ctx, "p1", task.Filter{Status: task.StatusDone, ProjectID: "other"})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestProjectService_RecalculateProgress(t *testing.T) {
	ctx := context.Background()
	svc, _, _, engine := newProjectService()

	engine.On("Recompute", ctx, "p1").Return(67, nil)
	engine.On("Recompute", ctx, "gone").Return(0, fmt.Errorf("%w: gone", progress.ErrProjectMissing))

	value, err := svc.RecalculateProgress(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 67, value)

	_, err = svc.RecalculateProgress(ctx, "gone")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}
