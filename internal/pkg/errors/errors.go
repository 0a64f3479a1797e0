package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing or unowned resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict is a generic sentinel for unique-constraint races.
	ErrConflict = errors.New("conflict")
)
