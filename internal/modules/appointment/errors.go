package appointment

import "errors"

var (
	ErrNotFound       = errors.New("appointment not found")
	ErrForbidden      = errors.New("appointment belongs to another user")
	ErrNotCancellable = errors.New("appointment can no longer be cancelled")
	ErrAlreadyStarted = errors.New("appointment has already started")
	ErrBadTransition  = errors.New("status transition not allowed")
	ErrValidation     = errors.New("invalid appointment data")
)
