package graphql

import (
	"errors"
	"strings"

	"github.com/graphql-go/graphql/gqlerrors"

	"github.com/rpggio/workflow/internal/domain/project"
	"github.com/rpggio/workflow/internal/domain/task"
	"github.com/rpggio/workflow/internal/validation"
)

// Error codes reported under extensions.code.
const (
	CodeBadUserInput = "BAD_USER_INPUT"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL_SERVER_ERROR"
)

// Error is a resolver error with a client-facing code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Extensions implements gqlerrors.ExtendedError.
func (e *Error) Extensions() map[string]any {
	return map[string]any{"code": e.Code}
}

// fail converts a service error into a coded resolver error. Internal errors
// are logged and replaced with failure.
func (r *resolver) fail(err error, failure string) error {
	if verr, ok := validation.AsError(err); ok {
		return &Error{Code: CodeBadUserInput, Message: "Validation failed: " + strings.Join(verr.Messages, ", ")}
	}

	switch {
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, task.ErrProjectNotFound):
		return &Error{Code: CodeNotFound, Message: "Project not found"}
	case errors.Is(err, task.ErrTaskNotFound):
		return &Error{Code: CodeNotFound, Message: "Task not found"}
	case errors.Is(err, task.ErrInvalidStatus):
		return &Error{Code: CodeBadUserInput, Message: "Invalid status. Must be todo, in-progress, or done"}
	}

	r.logger.Error(failure, "error", err)
	return &Error{Code: CodeInternal, Message: failure}
}

// formatErrors gives every error a code. Errors raised by the executor itself,
// such as query syntax errors, carry no extensions and fall back to the
// internal code.
func formatErrors(errs []gqlerrors.FormattedError) []gqlerrors.FormattedError {
	for i := range errs {
		if _, ok := errs[i].Extensions["code"]; ok {
			continue
		}
		if errs[i].Extensions == nil {
			errs[i].Extensions = map[string]any{}
		}
		errs[i].Extensions["code"] = CodeInternal
	}
	return errs
}
