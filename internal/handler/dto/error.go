package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mtlprog/taskflow/internal/domain"
)

// Client-facing error messages.
const (
	MsgInvalidJSON              = "Invalid JSON input"
	MsgTitleDescriptionRequired = "Title and description required"
	MsgStatusRequired           = "Status required"
	MsgInvalidStatus            = "Invalid status"
	MsgCreateFailed             = "Failed to create task"
	MsgUpdateFailed             = "Failed to update task"
	MsgDeleteFailed             = "Failed to delete task"
	MsgNoFileUploaded           = "No file uploaded"
	MsgFileTooLarge             = "File too large"
	MsgUploadFailed             = "Upload failed"
	MsgRouteNotFound            = "Route not found"
	MsgInternal                 = "Internal server error"
)

// MapDomainError maps service and validation errors to an HTTP status and a
// client-facing message.
func MapDomainError(err error) (status int, message string) {
	var verr *ValidationError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message

	// Validation errors
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, MsgInvalidStatus
	case errors.Is(err, domain.ErrEmptyTitle), errors.Is(err, domain.ErrEmptyDescription):
		return http.StatusBadRequest, MsgTitleDescriptionRequired
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()

	// Store errors
	case errors.Is(err, domain.ErrStore):
		slog.Error("store operation failed", "error", err)
		return http.StatusInternalServerError, MsgInternal

	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, MsgInternal
	}
}

// MapWriteError is MapDomainError for create, update and delete: a store
// failure is reported with the operation's failure message.
func MapWriteError(err error, failure string) (status int, message string) {
	if errors.Is(err, domain.ErrStore) {
		slog.Error("store write failed", "error", err)
		return http.StatusInternalServerError, failure
	}
	return MapDomainError(err)
}
