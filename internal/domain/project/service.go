package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rpggio/workflow/internal/domain/progress"
	"github.com/rpggio/workflow/internal/domain/task"
	"github.com/rpggio/workflow/internal/repository"
	"github.com/rpggio/workflow/internal/validation"
)

// Service handles project operations.
type Service struct {
	projects Repository
	tasks    TaskRepository
	progress ProgressRecomputer
	logger   *slog.Logger
}

// NewService creates a new project service.
func NewService(projects Repository, tasks TaskRepository, progress ProgressRecomputer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{projects: projects, tasks: tasks, progress: progress, logger: logger}
}

type createInput struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      Status           `json:"status"`
	Progress    *int             `json:"progress"`
	Team        []TeamMember     `json:"team"`
	DueDate     *validation.Date `json:"dueDate"`
}

type updateInput struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Status      *Status          `json:"status"`
	Progress    *int             `json:"progress"`
	Team        *[]TeamMember    `json:"team"`
	DueDate     *validation.Date `json:"dueDate"`
}

// List returns projects, newest first unless opts says otherwise.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Project, error) {
	projects, err := s.projects.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// ListByStatus returns every project in status.
func (s *Service) ListByStatus(ctx context.Context, status Status) ([]Project, error) {
	return s.List(ctx, ListOptions{Status: status})
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	p, err := s.projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return p, nil
}

// Detail returns a project with its tasks and task counts.
func (s *Service) Detail(ctx context.Context, id string) (*Detail, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.List(ctx, task.Filter{ProjectID: id})
	if err != nil {
		return nil, fmt.Errorf("listing project tasks: %w", err)
	}

	detail := &Detail{Project: *p, Tasks: tasks, TaskCount: len(tasks)}
	for _, t := range tasks {
		if t.Status == task.StatusDone {
			detail.CompletedTaskCount++
		}
	}
	return detail, nil
}

// Create validates payload and stores a new project. Progress defaults to 0
// unless the payload sets it.
func (s *Service) Create(ctx context.Context, payload any) (*Project, error) {
	doc, err := validation.ProjectCreate.Validate(payload)
	if err != nil {
		return nil, err
	}
	var in createInput
	if err := validation.Decode(doc, &in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &Project{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Team:        in.Team,
		DueDate:     in.DueDate.Ptr(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Status == "" {
		p.Status = StatusPlanning
	}
	if in.Progress != nil {
		p.Progress = *in.Progress
	}
	if p.Team == nil {
		p.Team = []TeamMember{}
	}

	if err := s.projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	s.logger.Info("project created", "project_id", p.ID, "title", p.Title)
	return p, nil
}

// Update merges the supplied fields into an existing project.
func (s *Service) Update(ctx context.Context, id string, payload any) (*Project, error) {
	doc, err := validation.ProjectUpdate.Validate(payload)
	if err != nil {
		return nil, err
	}
	var in updateInput
	if err := validation.Decode(doc, &in); err != nil {
		return nil, err
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Progress != nil {
		p.Progress = *in.Progress
	}
	if in.Team != nil {
		p.Team = *in.Team
		if p.Team == nil {
			p.Team = []TeamMember{}
		}
	}
	if in.DueDate != nil {
		p.DueDate = in.DueDate.Ptr()
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.projects.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}
	return p, nil
}

// Delete removes a project and every task that belongs to it. Tasks go first
// so a failure never leaves tasks pointing at a deleted project.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	removed, err := s.tasks.DeleteByProject(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting project tasks: %w", err)
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}

	s.logger.Info("project deleted", "project_id", id, "tasks_removed", removed)
	return nil
}

// ListTasks returns the project's tasks narrowed by filter.
func (s *Service) ListTasks(ctx context.Context, id string, filter task.Filter) ([]task.Task, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	filter.ProjectID = id
	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing project tasks: %w", err)
	}
	return tasks, nil
}

// Stats summarizes a project's tasks and schedule.
func (s *Service) Stats(ctx context.Context, id string) (*Stats, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	counts, err := s.tasks.CountTasks(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("counting project tasks: %w", err)
	}

	return &Stats{
		TotalTasks:     counts.Total,
		CompletedTasks: counts.Completed,
		PendingTasks:   counts.Pending(),
		Progress:       p.Progress,
		DaysRemaining:  progress.DaysRemaining(p.DueDate, time.Now()),
		Status:         p.Status,
		TeamSize:       len(p.Team),
	}, nil
}

// RecalculateProgress recomputes and stores the project's progress.
func (s *Service) RecalculateProgress(ctx context.Context, id string) (int, error) {
	value, err := s.progress.Recompute(ctx, id)
	if err != nil {
		if errors.Is(err, progress.ErrProjectMissing) {
			return 0, ErrProjectNotFound
		}
		return 0, fmt.Errorf("recalculating progress: %w", err)
	}
	s.logger.Info("project progress recalculated", "project_id", id, "progress", value)
	return value, nil
}

// Counts returns the project's task tally.
func (s *Service) Counts(ctx context.Context, id string) (progress.Counts, error) {
	counts, err := s.tasks.CountTasks(ctx, id)
	if err != nil {
		return progress.Counts{}, fmt.Errorf("counting project tasks: %w", err)
	}
	return counts, nil
}
