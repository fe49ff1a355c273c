package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rpggio/workflow/internal/domain/project"
	"github.com/rpggio/workflow/internal/domain/task"
	"github.com/rpggio/workflow/internal/validation"
)

// writeServiceError maps a service error onto the envelope. Unrecognised
// errors are logged and answered with failure, never with err's text.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, failure string) {
	if verr, ok := validation.AsError(err); ok {
		WriteValidationError(w, verr.Messages)
		return
	}

	switch {
	case errors.Is(err, errInvalidJSON):
		WriteError(w, http.StatusBadRequest, "Invalid JSON payload", nil)
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, task.ErrProjectNotFound):
		WriteNotFound(w, "Project")
	case errors.Is(err, task.ErrTaskNotFound):
		WriteNotFound(w, "Task")
	case errors.Is(err, task.ErrInvalidStatus):
		WriteError(w, http.StatusBadRequest, "Invalid status. Must be todo, in-progress, or done", nil)
	default:
		s.logger.Error(failure, "method", r.Method, "path", r.URL.Path, "error", err)
		WriteError(w, http.StatusInternalServerError, failure, nil)
	}
}

// queryInt parses a non-negative integer query parameter; absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, validation.NewError(fmt.Sprintf("%s must be a non-negative integer", name))
	}
	return n, nil
}

// page reads limit and offset.
func page(r *http.Request) (limit, offset int, err error) {
	if limit, err = queryInt(r, "limit"); err != nil {
		return 0, 0, err
	}
	if offset, err = queryInt(r, "offset"); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}
