// Package dashboard aggregates global statistics across every project and task.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rpggio/workflow/internal/domain/project"
	"github.com/rpggio/workflow/internal/domain/task"
)

// ProjectCounter counts projects by status.
type ProjectCounter interface {
	CountByStatus(ctx context.Context) (map[project.Status]int, error)
}

// TaskCounter counts tasks across all projects.
type TaskCounter interface {
	CountByStatus(ctx context.Context) (map[task.Status]int, error)
	CountByPriority(ctx context.Context) (map[task.Priority]int, error)
	CountOverdue(ctx context.Context, now time.Time) (int, error)
}

// StatusCount is the number of entities in one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// PriorityCount is the number of tasks with one priority.
type PriorityCount struct {
	Priority task.Priority `json:"priority"`
	Count    int           `json:"count"`
}

// Stats is the global dashboard summary.
type Stats struct {
	TotalProjects    int             `json:"totalProjects"`
	TotalTasks       int             `json:"totalTasks"`
	CompletedTasks   int             `json:"completedTasks"`
	ActiveProjects   int             `json:"activeProjects"`
	OverdueTasks     int             `json:"overdueTasks"`
	ProjectsByStatus []StatusCount   `json:"projectsByStatus"`
	TasksByStatus    []StatusCount   `json:"tasksByStatus"`
	TasksByPriority  []PriorityCount `json:"tasksByPriority"`
}

// Service computes dashboard statistics.
type Service struct {
	projects ProjectCounter
	tasks    TaskCounter
	logger   *slog.Logger
}

// NewService creates a dashboard service.
func NewService(projects ProjectCounter, tasks TaskCounter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{projects: projects, tasks: tasks, logger: logger}
}

// Stats runs the aggregate queries concurrently. A task is overdue when its due
// date has passed and it is not done. Grouped counts list every known status
// and priority, including those with zero entries.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var (
		projectsByStatus map[project.Status]int
		tasksByStatus    map[task.Status]int
		tasksByPriority  map[task.Priority]int
		overdue          int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projectsByStatus, err = s.projects.CountByStatus(gctx)
		if err != nil {
			return fmt.Errorf("counting projects by status: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tasksByStatus, err = s.tasks.CountByStatus(gctx)
		if err != nil {
			return fmt.Errorf("counting tasks by status: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tasksByPriority, err = s.tasks.CountByPriority(gctx)
		if err != nil {
			return fmt.Errorf("counting tasks by priority: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		overdue, err = s.tasks.CountOverdue(gctx, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("counting overdue tasks: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &Stats{
		ActiveProjects:   projectsByStatus[project.StatusActive],
		CompletedTasks:   tasksByStatus[task.StatusDone],
		OverdueTasks:     overdue,
		ProjectsByStatus: make([]StatusCount, 0, len(project.Statuses)),
		TasksByStatus:    make([]StatusCount, 0, len(task.Statuses)),
		TasksByPriority:  make([]PriorityCount, 0, len(task.Priorities)),
	}
	for _, st := range project.Statuses {
		n := projectsByStatus[st]
		stats.TotalProjects += n
		stats.ProjectsByStatus = append(stats.ProjectsByStatus, StatusCount{Status: string(st), Count: n})
	}
	for _, st := range task.Statuses {
		n := tasksByStatus[st]
		stats.TotalTasks += n
		stats.TasksByStatus = append(stats.TasksByStatus, StatusCount{Status: string(st), Count: n})
	}
	for _, p := range task.Priorities {
		stats.TasksByPriority = append(stats.TasksByPriority, PriorityCount{Priority: p, Count: tasksByPriority[p]})
	}

	s.logger.Debug("dashboard stats computed", "projects", stats.TotalProjects, "tasks", stats.TotalTasks)
	return stats, nil
}
