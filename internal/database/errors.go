package database

import "errors"

// Sentinel errors returned by Store operations. Callers match them with
// errors.Is to choose a user-facing reply; wrapped messages carry detail.
var (
	// ErrValidation indicates bad input to CreateTask (due date, frequency,
	// or description).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the task does not exist (or was deleted
	// concurrently).
	ErrNotFound = errors.New("task not found")

	// ErrNotAuthorized indicates the requesting user does not own the task.
	ErrNotAuthorized = errors.New("task not owned by requesting user")
)
