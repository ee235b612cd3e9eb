package dto_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/taskflow/internal/domain"
	"github.com/mtlprog/taskflow/internal/handler/dto"
)

func TestValidate_CreateTask(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateTaskRequest
		wantErr bool
	}{
		{name: "valid", req: dto.CreateTaskRequest{Title: "A", Description: "x"}},
		{name: "optional fields", req: dto.CreateTaskRequest{Title: "A", Description: "x", Priority: "high", AssignedTo: "bob"}},
		{name: "missing title", req: dto.CreateTaskRequest{Description: "x"}, wantErr: true},
		{name: "missing description", req: dto.CreateTaskRequest{Title: "A"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dto.Validate(tt.req)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *dto.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, dto.MsgTitleDescriptionRequired, verr.Message)
		})
	}
}

func TestValidate_UpdateStatus(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{status: "pending"},
		{status: "in_progress"},
		{status: "completed"},
		{status: "cancelled"},
		{status: "", want: dto.MsgStatusRequired},
		{status: "done", want: dto.MsgInvalidStatus},
		{status: "PENDING", want: dto.MsgInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			err := dto.Validate(dto.UpdateStatusRequest{Status: tt.status})
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			var verr *dto.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Message)
		})
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "validation error",
			err:        &dto.ValidationError{Message: dto.MsgStatusRequired, Field: "Status"},
			wantStatus: http.StatusBadRequest,
			wantMsg:    dto.MsgStatusRequired,
		},
		{
			name:       "invalid status",
			err:        fmt.Errorf("%w: %q", domain.ErrInvalidStatus, "done"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    dto.MsgInvalidStatus,
		},
		{
			name:       "empty title",
			err:        domain.ErrEmptyTitle,
			wantStatus: http.StatusBadRequest,
			wantMsg:    dto.MsgTitleDescriptionRequired,
		},
		{
			name:       "store error",
			err:        fmt.Errorf("insert task: %w: %w", domain.ErrStore, errors.New("connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    dto.MsgInternal,
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    dto.MsgInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := dto.MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestMapWriteError(t *testing.T) {
	storeErr := fmt.Errorf("delete task: %w", domain.ErrStore)

	status, msg := dto.MapWriteError(storeErr, dto.MsgDeleteFailed)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, dto.MsgDeleteFailed, msg)

	status, msg = dto.MapWriteError(domain.ErrInvalidStatus, dto.MsgUpdateFailed)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, dto.MsgInvalidStatus, msg)
}
