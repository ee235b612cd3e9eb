package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/taskflow/internal/domain"
	"github.com/mtlprog/taskflow/internal/service"
	"github.com/mtlprog/taskflow/internal/service/servicetest"
)

func TestActivityLogger_Log(t *testing.T) {
	store := servicetest.NewStore()
	logger := service.NewActivityLogger(store.Activities())

	logger.Log(context.Background(), domain.ActivityLog{
		UserID:    "alice",
		Action:    domain.ActionCreateTask,
		Details:   "Created task: Fix bug",
		IPAddress: "10.0.0.1",
		UserAgent: "curl/8.0",
	})

	entries := store.Activity()
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].UserID)
	assert.Equal(t, domain.ActionCreateTask, entries[0].Action)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestActivityLogger_FailureIsSwallowed(t *testing.T) {
	store := servicetest.NewStore()
	store.SetFailing(true)
	logger := service.NewActivityLogger(store.Activities())

	assert.NotPanics(t, func() {
		logger.Log(context.Background(), domain.ActivityLog{UserID: "alice", Action: domain.ActionDeleteTask})
	})
	assert.Equal(t, 1, store.Calls("insert_activity"))
	assert.Empty(t, store.Activity())
}

func TestActivityLogger_IgnoresCancelledRequest(t *testing.T) {
	store := servicetest.NewStore()
	logger := service.NewActivityLogger(store.Activities())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logger.Log(ctx, domain.ActivityLog{UserID: "alice", Action: domain.ActionFileUpload})
	assert.Len(t, store.Activity(), 1)
}
