package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mtlprog/taskflow/internal/domain"
)

const activityWriteTimeout = 5 * time.Second

// ActivityLogger appends audit records. Logging never fails the action
// that triggered it.
type ActivityLogger struct {
	store ActivityStore
	now   func() time.Time
}

// NewActivityLogger creates a new ActivityLogger.
func NewActivityLogger(store ActivityStore) *ActivityLogger {
	return &ActivityLogger{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Log stamps entry with the current time and stores it. Failures are
// logged and swallowed. The write is not cancelled when ctx is.
func (l *ActivityLogger) Log(ctx context.Context, entry domain.ActivityLog) {
	entry.Timestamp = l.now()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), activityWriteTimeout)
	defer cancel()

	if err := l.store.Insert(ctx, &entry); err != nil {
		slog.Error("failed to log user activity",
			"user_id", entry.UserID,
			"action", entry.Action,
			"error", err,
		)
	}
}
