package transport

import (
	"time"

	"github.com/rpggio/workflow/internal/domain/progress"
	"github.com/rpggio/workflow/internal/domain/project"
	"github.com/rpggio/workflow/internal/domain/task"
)

// Views add the derived fields clients expect. They are computed per response
// and never stored.

type projectView struct {
	project.Project
	DaysRemaining *int `json:"daysRemaining"`
}

type projectDetailView struct {
	projectView
	Tasks              []taskView `json:"tasks"`
	TaskCount          int        `json:"taskCount"`
	CompletedTaskCount int        `json:"completedTaskCount"`
}

type taskView struct {
	task.Task
	Project              *projectSummary `json:"project,omitempty"`
	DaysRemaining        *int            `json:"daysRemaining"`
	CompletionPercentage int             `json:"completionPercentage"`
}

// projectSummary is the slice of the owning project shown on a task.
type projectSummary struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Status   project.Status `json:"status"`
	Progress int            `json:"progress"`
}

func newProjectView(p project.Project, now time.Time) projectView {
	return projectView{Project: p, DaysRemaining: progress.DaysRemaining(p.DueDate, now)}
}

func newProjectViews(projects []project.Project, now time.Time) []projectView {
	views := make([]projectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, newProjectView(p, now))
	}
	return views
}

func newProjectDetailView(d *project.Detail, now time.Time) projectDetailView {
	return projectDetailView{
		projectView:        newProjectView(d.Project, now),
		Tasks:              newTaskViews(d.Tasks, now),
		TaskCount:          d.TaskCount,
		CompletedTaskCount: d.CompletedTaskCount,
	}
}

func newTaskView(t task.Task, now time.Time) taskView {
	return taskView{
		Task:                 t,
		DaysRemaining:        progress.DaysRemaining(t.DueDate, now),
		CompletionPercentage: task.CompletionPercentage(t.Status),
	}
}

func newTaskViews(tasks []task.Task, now time.Time) []taskView {
	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, newTaskView(t, now))
	}
	return views
}
