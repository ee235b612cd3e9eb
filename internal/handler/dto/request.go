package dto

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CreateTaskRequest represents the request body for POST /api/tasks.
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Priority    string `json:"priority,omitempty"`
	AssignedTo  string `json:"assigned_to,omitempty"`
}

func (CreateTaskRequest) message(validator.FieldError) string {
	return MsgTitleDescriptionRequired
}

// UpdateStatusRequest represents the request body for PUT /api/tasks/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
}

func (UpdateStatusRequest) message(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return MsgStatusRequired
	}
	return MsgInvalidStatus
}

// ValidationError is returned by Validate when a request body breaks its
// field rules. Message is safe to show to clients.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

type request interface {
	message(validator.FieldError) string
}

// Validate checks req against its struct tags and reports the first
// failing field as a *ValidationError.
func Validate(req request) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Message: req.message(fe), Field: fe.Field()}
	}

	return fmt.Errorf("validate request: %w", err)
}
