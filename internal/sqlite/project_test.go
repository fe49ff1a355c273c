package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/workflow/internal/domain/project"
	"github.com/rpggio/workflow/internal/repository"
	"github.com/stretchr/testify/require"
)

func newProject(id, title string, status project.Status, created time.Time) *project.Project {
	return &project.Project{
		ID:        id,
		Title:     title,
		Status:    status,
		Team:      []project.TeamMember{{Name: "Ana", Avatar: "ana.png"}},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestProjectRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	due := time.Date(2031, 6, 1, 0, 0, 0, 0, time.UTC)
	proj := newProject("p1", "Launch", project.StatusActive, time.Now().UTC())
	proj.Description = "Ship it"
	proj.Progress = 40
	proj.DueDate = &due

	require.NoError(t, repo.Create(ctx, proj))

	retrieved, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Launch", retrieved.Title)
	require.Equal(t, "Ship it", retrieved.Description)
	require.Equal(t, project.StatusActive, retrieved.Status)
	require.Equal(t, 40, retrieved.Progress)
	require.Equal(t, proj.Team, retrieved.Team)
	require.True(t, due.Equal(*retrieved.DueDate))
	require.True(t, proj.CreatedAt.Equal(retrieved.CreatedAt))
}

func TestProjectRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_List(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, newProject("p1", "Bravo", project.StatusActive, base)))
	require.NoError(t, repo.Create(ctx, newProject("p2", "Alpha", project.StatusPlanning, base.Add(time.Second))))
	require.NoError(t, repo.Create(ctx, newProject("p3", "Charlie", project.StatusActive, base.Add(2*time.Second))))

	all, err := repo.List(ctx, project.ListOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"p3", "p2", "p1"}, projectIDs(all))

	active, err := repo.List(ctx, project.ListOptions{Status: project.StatusActive})
	require.NoError(t, err)
	require.Equal(t, []string{"p3", "p1"}, projectIDs(active))

	byTitle, err := repo.List(ctx, project.ListOptions{SortBy: "title", SortOrder: "asc", Limit: 2})
	require.NoError(t, err)
	require.Equal(t, []string{"p2", "p1"}, projectIDs(byTitle))

	offset, err := repo.List(ctx, project.ListOptions{Offset: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"p2", "p1"}, projectIDs(offset))

	unknownSort, err := repo.List(ctx, project.ListOptions{SortBy: "owner; DROP TABLE projects"})
	require.NoError(t, err)
	require.Len(t, unknownSort, 3)
}

func TestProjectRepository_UpdateAndSetProgress(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := newProject("p1", "Launch", project.StatusPlanning, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, proj))

	proj.Title = "Launch v2"
	proj.Status = project.StatusOnHold
	proj.Team = nil
	require.NoError(t, repo.Update(ctx, proj))
	require.NoError(t, repo.SetProgress(ctx, "p1", 75))

	retrieved, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Launch v2", retrieved.Title)
	require.Equal(t, project.StatusOnHold, retrieved.Status)
	require.Empty(t, retrieved.Team)
	require.Equal(t, 75, retrieved.Progress)

	require.ErrorIs(t, repo.SetProgress(ctx, "missing", 10), repository.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, newProject("missing", "x", project.StatusPlanning, time.Now())), repository.ErrNotFound)
}

func TestProjectRepository_SetProgressTouchesUpdatedAt(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	created := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, newProject("p1", "Launch", project.StatusActive, created)))
	require.NoError(t, repo.SetProgress(ctx, "p1", 40))

	retrieved, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 40, retrieved.Progress)
	require.WithinDuration(t, created, retrieved.CreatedAt, time.Millisecond)
	require.True(t, retrieved.UpdatedAt.After(created.Add(30*time.Minute)))
}

func TestProjectRepository_DeleteAndExists(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newProject("p1", "Launch", project.StatusPlanning, time.Now())))

	exists, err := repo.Exists(ctx, "p1")
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, repo.Delete(ctx, "p1"))
	exists, err = repo.Exists(ctx, "p1")
	require.NoError(t, err)
	require.False(t, exists)

	require.ErrorIs(t, repo.Delete(ctx, "p1"), repository.ErrNotFound)
}

func TestProjectRepository_CountByStatus(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Create(ctx, newProject("p1", "A", project.StatusActive, now)))
	require.NoError(t, repo.Create(ctx, newProject("p2", "B", project.StatusActive, now)))
	require.NoError(t, repo.Create(ctx, newProject("p3", "C", project.StatusOnHold, now)))

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, map[project.Status]int{project.StatusActive: 2, project.StatusOnHold: 1}, counts)
}

func projectIDs(projects []project.Project) []string {
	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	return ids
}
