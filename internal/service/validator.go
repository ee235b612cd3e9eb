package service

import (
	"fmt"
	"strings"

	"github.com/mtlprog/taskflow/internal/domain"
)

// validateCreate checks task creation input before any store access.
func validateCreate(params CreateTaskParams) error {
	if strings.TrimSpace(params.Title) == "" {
		return domain.ErrEmptyTitle
	}
	if strings.TrimSpace(params.Description) == "" {
		return domain.ErrEmptyDescription
	}
	return nil
}

// validateStatus checks that status is one of the four task statuses.
func validateStatus(status domain.TaskStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	return nil
}
