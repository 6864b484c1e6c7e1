package store

import "errors"

// Validation errors are caught before any gateway call; the cache is never
// touched when one of these is returned.
var (
	ErrEmptyTitle       = errors.New("task title must not be empty")
	ErrInvalidStatus    = errors.New("unknown task status")
	ErrMissingProject   = errors.New("task project must be set")
	ErrMissingAssignee  = errors.New("task assignee must be set")
	ErrEmptyProjectName = errors.New("project name must not be empty")
	ErrDuplicateSlug    = errors.New("a project with the same slug already exists")
	ErrEmptyEmail       = errors.New("member email must not be empty")
)
