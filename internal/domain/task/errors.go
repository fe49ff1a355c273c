package task

import "errors"

var (
	// ErrTaskNotFound indicates the task doesn't exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrProjectNotFound indicates the task references a project that doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidStatus indicates a status outside todo, in-progress and done.
	ErrInvalidStatus = errors.New("invalid task status")
)
