package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/workflow/internal/metrics"
	"github.com/rpggio/workflow/internal/repository"
)

// ErrProjectMissing is returned by Recompute when the project no longer exists.
var ErrProjectMissing = errors.New("project missing for progress recompute")

// TaskCounter tallies the tasks that belong to a project.
type TaskCounter interface {
	CountTasks(ctx context.Context, projectID string) (Counts, error)
}

// ProgressWriter persists a recomputed progress value onto a project.
type ProgressWriter interface {
	SetProgress(ctx context.Context, projectID string, progress int) error
}

// Engine recomputes and stores project progress.
type Engine struct {
	tasks    TaskCounter
	projects ProgressWriter
	logger   *slog.Logger
}

// NewEngine creates a progress engine.
func NewEngine(tasks TaskCounter, projects ProgressWriter, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{tasks: tasks, projects: projects, logger: logger}
}

// Recompute loads the project's task tally, derives progress and stores it.
func (e *Engine) Recompute(ctx context.Context, projectID string) (int, error) {
	counts, err := e.tasks.CountTasks(ctx, projectID)
	if err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}

	value := Compute(counts)
	if err := e.projects.SetProgress(ctx, projectID, value); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%w: %s", ErrProjectMissing, projectID)
		}
		return 0, fmt.Errorf("storing progress: %w", err)
	}
	return value, nil
}

// Refresh is the non-fatal form of Recompute used after task mutations.
// A missing project is a no-op; other failures are logged and counted but never
// returned, so the task mutation that triggered the refresh still succeeds.
func (e *Engine) Refresh(ctx context.Context, projectID string) {
	if projectID == "" {
		return
	}

	value, err := e.Recompute(ctx, projectID)
	switch {
	case err == nil:
		metrics.IncProgressRecompute(metrics.RecomputeOK)
		e.logger.Debug("project progress recomputed", "project_id", projectID, "progress", value)
	case errors.Is(err, ErrProjectMissing):
		metrics.IncProgressRecompute(metrics.RecomputeSkipped)
		e.logger.Debug("progress recompute skipped, project missing", "project_id", projectID)
	default:
		metrics.IncProgressRecompute(metrics.RecomputeFailed)
		e.logger.Warn("progress recompute failed", "project_id", projectID, "error", err)
	}
}
