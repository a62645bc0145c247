package services

import "errors"

// Sentinel errors the handlers translate into HTTP responses. Ownership
// failures surface as ErrNotFound on purpose: a resource owned by someone
// else must be indistinguishable from a missing one.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidStatus  = errors.New("invalid status for this operation")
	ErrValidation     = errors.New("validation failed")
	ErrInvalidLogin   = errors.New("invalid email or password")
	ErrEmailTaken     = errors.New("email already registered")
	ErrStorageFailure = errors.New("storage operation failed")
)
