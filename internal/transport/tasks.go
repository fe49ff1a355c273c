package transport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/workflow/internal/domain/project"
	"github.com/rpggio/workflow/internal/domain/task"
)

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to fetch tasks"

	limit, offset, err := page(r)
	if err != nil {
		s.writeServiceError(w, r, err, failure)
		return
	}
	q := r.URL.Query()
	tasks, err := s.tasks.List(r.Context(), task.Filter{
		Status:    task.Status(q.Get("status")),
		Priority:  task.Priority(q.Get("priority")),
		Assignee:  q.Get("assignee"),
		ProjectID: q.Get("projectId"),
		Limit:     limit,
		Offset:    offset,
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	})
	if err != nil {
		s.writeServiceError(w, r, err, failure)
		return
	}
	s.writeTasks(w, r, http.StatusOK, "Tasks retrieved successfully", failure, tasks...)
}

func (s *Server) listTasksByProject(w http.ResponseWriter, r *http.Request) {
	s.writeProjectTasks(w, r, chi.URLParam(r, "projectId"), "Project tasks retrieved successfully", "Failed to fetch project tasks")
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to fetch task"

	t, err := s.tasks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err, failure)
		return
	}
	s.writeTask(w, r, http.StatusOK, "Task retrieved successfully", failure, t)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to create task"

	payload, err := decodePayload(r)
	if err != nil {
		s.writeServiceError(w, r, err, failure)
		return
	}
	t, err := s.tasks.Create(r.Context(), payload)
	if err != nil {
		s.writeServiceError(w, r, err, failure)
		return
	}
	s.writeTask(w, r, http.StatusCreated, "Task created successfully", failure, t)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to update task"

	payload, err := decodePayload(r)
	if err != nil {
		s.writeServiceError(w, r, err, failure)
		return
	}
	t, err := s.tasks.Update(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		s.writeServiceError(w, r, err, failure)
		return
	}
	s.writeTask(w, r, http.StatusOK, "Task updated successfully", failure, t)
}

func (s *Server) updateTaskStatus(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to update task status"

	payload, err := decodePayload(r)
	if err != nil {
		s.writeServiceError(w, r, err, failure)
		return
	}
	// A missing or non-string status is rejected by the service as invalid.
	body, _ := payload.(map[string]any)
	status, _ := body["status"].(string)

	t, err := s.tasks.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		s.writeServiceError(w, r, err, failure)
		return
	}
	s.writeTask(w, r, http.StatusOK, "Task status updated successfully", failure, t)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err, "Failed to delete task")
		return
	}
	WriteSuccess(w, http.StatusOK, "Task deleted successfully", nil)
}

func (s *Server) taskStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.tasks.AggregateStats(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to fetch task statistics")
		return
	}
	WriteSuccess(w, http.StatusOK, "Task statistics retrieved successfully", stats)
}

func (s *Server) writeTask(w http.ResponseWriter, r *http.Request, status int, message, failure string, t *task.Task) {
	views, err := s.taskViews(r.Context(), []task.Task{*t})
	if err != nil {
		s.writeServiceError(w, r, err, failure)
		return
	}
	WriteSuccess(w, status, message, views[0])
}

func (s *Server) writeTasks(w http.ResponseWriter, r *http.Request, status int, message, failure string, tasks ...task.Task) {
	views, err := s.taskViews(r.Context(), tasks)
	if err != nil {
		s.writeServiceError(w, r, err, failure)
		return
	}
	WriteSuccess(w, status, message, views)
}

// taskViews shapes tasks and attaches each owning project's summary, loading
// every distinct project once. A project that has gone away leaves the
// summary empty.
func (s *Server) taskViews(ctx context.Context, tasks []task.Task) ([]taskView, error) {
	views := newTaskViews(tasks, time.Now())
	summaries := make(map[string]*projectSummary)
	for i := range views {
		id := views[i].ProjectID
		summary, seen := summaries[id]
		if !seen {
			p, err := s.projects.Get(ctx, id)
			switch {
			case errors.Is(err, project.ErrProjectNotFound):
			case err != nil:
				return nil, err
			default:
				summary = &projectSummary{ID: p.ID, Title: p.Title, Status: p.Status, Progress: p.Progress}
			}
			summaries[id] = summary
		}
		views[i].Project = summary
	}
	return views, nil
}
