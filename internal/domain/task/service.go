package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rpggio/workflow/internal/metrics"
	"github.com/rpggio/workflow/internal/repository"
	"github.com/rpggio/workflow/internal/validation"
)

// DefaultBulkConcurrency bounds the concurrent writes of a bulk status update.
const DefaultBulkConcurrency = 8

// Service handles task operations. Every mutation that can change a project's
// progress refreshes it through the progress engine after the write succeeds.
type Service struct {
	tasks           Repository
	projects        ProjectLookup
	progress        ProgressRefresher
	logger          *slog.Logger
	bulkConcurrency int
}

// NewService creates a new task service.
func NewService(tasks Repository, projects ProjectLookup, progress ProgressRefresher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		tasks:           tasks,
		projects:        projects,
		progress:        progress,
		logger:          logger,
		bulkConcurrency: DefaultBulkConcurrency,
	}
}

type createInput struct {
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Status         Status           `json:"status"`
	Priority       Priority         `json:"priority"`
	Assignee       Assignee         `json:"assignee"`
	ProjectID      string           `json:"projectId"`
	DueDate        *validation.Date `json:"dueDate"`
	EstimatedHours *float64         `json:"estimatedHours"`
	ActualHours    float64          `json:"actualHours"`
	Tags           []string         `json:"tags"`
}

type assigneePatch struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

type updateInput struct {
	Title          *string          `json:"title"`
	Description    *string          `json:"description"`
	Status         *Status          `json:"status"`
	Priority       *Priority        `json:"priority"`
	Assignee       *assigneePatch   `json:"assignee"`
	DueDate        *validation.Date `json:"dueDate"`
	EstimatedHours *float64         `json:"estimatedHours"`
	ActualHours    *float64         `json:"actualHours"`
	Tags           *[]string        `json:"tags"`
}

// List returns tasks matching filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]Task, error) {
	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// Get fetches a task by ID.
func (s *Service) Get(ctx context.Context, id string) (*Task, error) {
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return t, nil
}

// Create validates payload and stores a new task under an existing project.
func (s *Service) Create(ctx context.Context, payload any) (*Task, error) {
	doc, err := validation.TaskCreate.Validate(payload)
	if err != nil {
		return nil, err
	}
	var in createInput
	if err := validation.Decode(doc, &in); err != nil {
		return nil, err
	}

	exists, err := s.projects.Exists(ctx, in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("checking project: %w", err)
	}
	if !exists {
		return nil, ErrProjectNotFound
	}

	now := time.Now().UTC()
	t := &Task{
		ID:             uuid.NewString(),
		Title:          in.Title,
		Description:    in.Description,
		Status:         in.Status,
		Priority:       in.Priority,
		Assignee:       in.Assignee,
		ProjectID:      in.ProjectID,
		DueDate:        in.DueDate.Ptr(),
		EstimatedHours: in.EstimatedHours,
		ActualHours:    in.ActualHours,
		Tags:           uniqueTags(in.Tags),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("creating task: %w", err)
	}
	metrics.IncTaskMutation("create")
	s.logger.Info("task created", "task_id", t.ID, "project_id", t.ProjectID, "status", t.Status)

	s.progress.Refresh(ctx, t.ProjectID)
	return t, nil
}

// Update merges the supplied fields into an existing task. Project progress is
// refreshed only when the payload carries a status.
func (s *Service) Update(ctx context.Context, id string, payload any) (*Task, error) {
	doc, err := validation.TaskUpdate.Validate(payload)
	if err != nil {
		return nil, err
	}
	var in updateInput
	if err := validation.Decode(doc, &in); err != nil {
		return nil, err
	}

	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.Assignee != nil {
		if in.Assignee.Name != nil {
			t.Assignee.Name = *in.Assignee.Name
		}
		if in.Assignee.Avatar != nil {
			t.Assignee.Avatar = *in.Assignee.Avatar
		}
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate.Ptr()
	}
	if in.EstimatedHours != nil {
		t.EstimatedHours = in.EstimatedHours
	}
	if in.ActualHours != nil {
		t.ActualHours = *in.ActualHours
	}
	if in.Tags != nil {
		t.Tags = uniqueTags(*in.Tags)
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	metrics.IncTaskMutation("update")

	if in.Status != nil {
		s.progress.Refresh(ctx, t.ProjectID)
	}
	return t, nil
}

// UpdateStatus moves a task to status. An unknown status is rejected with
// ErrInvalidStatus and the task is left unchanged.
func (s *Service) UpdateStatus(ctx context.Context, id string, status string) (*Task, error) {
	st := Status(status)
	if !st.Valid() {
		return nil, ErrInvalidStatus
	}

	t, err := s.setStatus(ctx, id, st)
	if err != nil {
		return nil, err
	}
	metrics.IncTaskMutation("status")

	s.progress.Refresh(ctx, t.ProjectID)
	return t, nil
}

// BulkUpdateStatus moves every task in ids to status. Each task is updated
// independently; ids that cannot be updated are skipped and never roll back
// the others. Updated tasks are returned in input order and each affected
// project is refreshed once.
func (s *Service) BulkUpdateStatus(ctx context.Context, ids []string, status string) ([]Task, error) {
	st := Status(status)
	if !st.Valid() {
		return nil, ErrInvalidStatus
	}

	ids = uniqueIDs(ids)
	updated := make([]*Task, len(ids))

	var g errgroup.Group
	g.SetLimit(s.bulkConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			t, err := s.setStatus(ctx, id, st)
			if err != nil {
				if errors.Is(err, ErrTaskNotFound) {
					s.logger.Debug("bulk status update skipped missing task", "task_id", id)
				} else {
					s.logger.Warn("bulk status update failed", "task_id", id, "error", err)
				}
				return nil
			}
			updated[i] = t
			return nil
		})
	}
	_ = g.Wait()

	result := make([]Task, 0, len(ids))
	var projects []string
	seen := make(map[string]bool)
	for _, t := range updated {
		if t == nil {
			continue
		}
		result = append(result, *t)
		metrics.IncTaskMutation("bulk_status")
		if !seen[t.ProjectID] {
			seen[t.ProjectID] = true
			projects = append(projects, t.ProjectID)
		}
	}
	for _, projectID := range projects {
		s.progress.Refresh(ctx, projectID)
	}

	s.logger.Info("bulk task status update", "requested", len(ids), "updated", len(result), "status", st)
	return result, nil
}

// Delete removes a task and refreshes its former project.
func (s *Service) Delete(ctx context.Context, id string) error {
	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("deleting task: %w", err)
	}
	metrics.IncTaskMutation("delete")
	s.logger.Info("task deleted", "task_id", id, "project_id", t.ProjectID)

	s.progress.Refresh(ctx, t.ProjectID)
	return nil
}

// AggregateStats counts tasks by status and high priority across all projects.
func (s *Service) AggregateStats(ctx context.Context) (*Stats, error) {
	byStatus, err := s.tasks.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting tasks by status: %w", err)
	}
	byPriority, err := s.tasks.CountByPriority(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting tasks by priority: %w", err)
	}

	stats := &Stats{
		TodoTasks:         byStatus[StatusTodo],
		InProgressTasks:   byStatus[StatusInProgress],
		CompletedTasks:    byStatus[StatusDone],
		HighPriorityTasks: byPriority[PriorityHigh],
	}
	for _, n := range byStatus {
		stats.TotalTasks += n
	}
	return stats, nil
}

func (s *Service) setStatus(ctx context.Context, id string, status Status) (*Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) save(ctx context.Context, t *Task) error {
	if err := s.tasks.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

func uniqueTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
