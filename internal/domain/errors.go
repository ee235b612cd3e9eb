package domain

import (
	"errors"
	"fmt"
)

// Domain-specific errors.
var (
	// ErrInvalidInput marks caller mistakes. Every validation error wraps it.
	ErrInvalidInput = errors.New("invalid input")

	ErrEmptyTitle       = fmt.Errorf("%w: title is required", ErrInvalidInput)
	ErrEmptyDescription = fmt.Errorf("%w: description is required", ErrInvalidInput)
	ErrInvalidStatus    = fmt.Errorf("%w: invalid task status", ErrInvalidInput)

	// ErrStore marks a failed or unreachable backing store.
	ErrStore = errors.New("store error")
)
