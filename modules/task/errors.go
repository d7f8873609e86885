package task

import "errors"

// Sentinel errors for task operations.
var (
	// ErrTaskNotFound is returned when the requested task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTitleRequired is returned when a task is created or renamed
	// with an empty title.
	ErrTitleRequired = errors.New("title is required")

	// ErrInvalidStatus is returned when a status value is not one of
	// pending, in-progress or completed.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidPriority is returned when a priority value is not one of
	// low, medium or high.
	ErrInvalidPriority = errors.New("invalid task priority")
)
