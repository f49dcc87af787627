package ports

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrTransport      = errors.New("planner transport failure")
	ErrPlannerFailure = errors.New("planner reported failure")
)
