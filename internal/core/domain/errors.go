package domain

import "errors"

// Error kinds. Services wrap these with fmt.Errorf("...: %w", kind) so the
// HTTP boundary can map a failure to a status code with errors.Is without
// knowing which service produced it.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("invalid input")
)
