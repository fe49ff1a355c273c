package mcp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/workflow/internal/domain/project"
	"github.com/rpggio/workflow/internal/domain/task"
	"github.com/rpggio/workflow/internal/validation"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. It returns nil for errors
// it does not recognise.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	if verr, ok := validation.AsError(err); ok {
		return &APIError{
			Code:         "VALIDATION_FAILED",
			Message:      strings.Join(verr.Messages, "; "),
			Details:      verr.Messages,
			RecoveryHint: "Fix the listed fields and retry",
		}
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, task.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for valid IDs"}
	case errors.Is(err, task.ErrTaskNotFound):
		return &APIError{Code: "TASK_NOT_FOUND", Message: "task not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, task.ErrInvalidStatus):
		return &APIError{Code: "INVALID_STATUS", Message: "status must be todo, in-progress, or done"}
	default:
		return nil
	}
}
