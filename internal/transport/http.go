package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rpggio/workflow/internal/domain/project"
	"github.com/rpggio/workflow/internal/domain/task"
)

// ProjectService is the project behaviour the REST surface needs.
type ProjectService interface {
	List(ctx context.Context, opts project.ListOptions) ([]project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	Detail(ctx context.Context, id string) (*project.Detail, error)
	Create(ctx context.Context, payload any) (*project.Project, error)
	Update(ctx context.Context, id string, payload any) (*project.Project, error)
	Delete(ctx context.Context, id string) error
	ListTasks(ctx context.Context, id string, filter task.Filter) ([]task.Task, error)
	Stats(ctx context.Context, id string) (*project.Stats, error)
	RecalculateProgress(ctx context.Context, id string) (int, error)
}

// TaskService is the task behaviour the REST surface needs.
type TaskService interface {
	List(ctx context.Context, filter task.Filter) ([]task.Task, error)
	Get(ctx context.Context, id string) (*task.Task, error)
	Create(ctx context.Context, payload any) (*task.Task, error)
	Update(ctx context.Context, id string, payload any) (*task.Task, error)
	UpdateStatus(ctx context.Context, id string, status string) (*task.Task, error)
	Delete(ctx context.Context, id string) error
	AggregateStats(ctx context.Context) (*task.Stats, error)
}

// Mount attaches another handler, such as GraphQL or metrics, to the router.
type Mount struct {
	Pattern string
	Handler http.Handler
}

// Server wires HTTP handlers.
type Server struct {
	projects ProjectService
	tasks    TaskService
	logger   *slog.Logger
}

var errInvalidJSON = errors.New("invalid JSON payload")

// NewServer creates the HTTP router with middleware, the REST API under
// /api/v1 and any extra mounts.
func NewServer(projects ProjectService, tasks TaskService, logger *slog.Logger, mounts ...Mount) *chi.Mux {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(Metrics)
	r.Use(Recoverer(logger))

	srv := &Server{projects: projects, tasks: tasks, logger: logger}

	r.Get("/health", srv.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", srv.listProjects)
			r.Post("/", srv.createProject)
			r.Get("/{id}", srv.getProject)
			r.Put("/{id}", srv.updateProject)
			r.Delete("/{id}", srv.deleteProject)
			r.Get("/{id}/tasks", srv.listProjectTasks)
			r.Get("/{id}/stats", srv.projectStats)
			r.Put("/{id}/progress", srv.recalculateProgress)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", srv.listTasks)
			r.Post("/", srv.createTask)
			r.Get("/stats", srv.taskStats)
			r.Get("/project/{projectId}", srv.listTasksByProject)
			r.Get("/{id}", srv.getTask)
			r.Put("/{id}", srv.updateTask)
			r.Patch("/{id}/status", srv.updateTaskStatus)
			r.Delete("/{id}", srv.deleteTask)
		})
	})

	for _, m := range mounts {
		r.Handle(m.Pattern, m.Handler)
	}

	r.NotFound(srv.handleNotFound)
	r.MethodNotAllowed(srv.handleNotFound)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"message":   "Workflow Backend is running",
		"timestamp": timestamp(),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotFound, "Route not found", nil)
}

// decodePayload reads the request body as arbitrary JSON so the validation
// layer sees exactly what the client sent.
func decodePayload(r *http.Request) (any, error) {
	dec := json.NewDecoder(r.Body)
	var payload any
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, errInvalidJSON
	}
	// The body must hold exactly one JSON value.
	var trailing json.RawMessage
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, errInvalidJSON
	}
	return payload, nil
}
