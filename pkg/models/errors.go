package models

import "errors"

// Outcome taxonomy shared by storage, services and the HTTP layer.
// Handlers pick status codes with errors.Is against these.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict: precondition no longer holds")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("validation error")
	ErrUpstream          = errors.New("upstream gateway error")
)
