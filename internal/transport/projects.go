package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/workflow/internal/domain/project"
	"github.com/rpggio/workflow/internal/domain/task"
)

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to fetch projects"

	limit, offset, err := page(r)
	if err != nil {
		s.writeServiceError(w, r, err, failure)
		return
	}
	q := r.URL.Query()
	projects, err := s.projects.List(r.Context(), project.ListOptions{
		Status:    project.Status(q.Get("status")),
		Limit:     limit,
		Offset:    offset,
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	})
	if err != nil {
		s.writeServiceError(w, r, err, failure)
		return
	}
	WriteSuccess(w, http.StatusOK, "Projects retrieved successfully", newProjectViews(projects, time.Now()))
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	detail, err := s.projects.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to fetch project")
		return
	}
	WriteSuccess(w, http.StatusOK, "Project retrieved successfully", newProjectDetailView(detail, time.Now()))
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to create project"

	payload, err := decodePayload(r)
	if err != nil {
		s.writeServiceError(w, r, err, failure)
		return
	}
	p, err := s.projects.Create(r.Context(), payload)
	if err != nil {
		s.writeServiceError(w, r, err, failure)
		return
	}
	WriteSuccess(w, http.StatusCreated, "Project created successfully", newProjectView(*p, time.Now()))
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to update project"

	payload, err := decodePayload(r)
	if err != nil {
		s.writeServiceError(w, r, err, failure)
		return
	}
	p, err := s.projects.Update(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		s.writeServiceError(w, r, err, failure)
		return
	}
	WriteSuccess(w, http.StatusOK, "Project updated successfully", newProjectView(*p, time.Now()))
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err, "Failed to delete project")
		return
	}
	WriteSuccess(w, http.StatusOK, "Project deleted successfully", nil)
}

func (s *Server) listProjectTasks(w http.ResponseWriter, r *http.Request) {
	s.writeProjectTasks(w, r, chi.URLParam(r, "id"), "Project tasks retrieved successfully", "Failed to fetch project tasks")
}

func (s *Server) projectStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.projects.Stats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to fetch project statistics")
		return
	}
	WriteSuccess(w, http.StatusOK, "Project statistics retrieved successfully", stats)
}

func (s *Server) recalculateProgress(w http.ResponseWriter, r *http.Request) {
	value, err := s.projects.RecalculateProgress(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to update project progress")
		return
	}
	WriteSuccess(w, http.StatusOK, "Project progress updated successfully", map[string]int{"progress": value})
}

// writeProjectTasks serves a project's tasks filtered by status, priority and
// exact assignee name. A missing project is a 404.
func (s *Server) writeProjectTasks(w http.ResponseWriter, r *http.Request, projectID, message, failure string) {
	q := r.URL.Query()
	tasks, err := s.projects.ListTasks(r.Context(), projectID, task.Filter{
		Status:   task.Status(q.Get("status")),
		Priority: task.Priority(q.Get("priority")),
		Assignee: q.Get("assignee"),
	})
	if err != nil {
		s.writeServiceError(w, r, err, failure)
		return
	}
	s.writeTasks(w, r, http.StatusOK, message, failure, tasks...)
}
