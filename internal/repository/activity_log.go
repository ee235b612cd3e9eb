package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/taskflow/internal/domain"
)

// ActivityLogRepository appends activity log rows.
type ActivityLogRepository struct {
	pool *pgxpool.Pool
}

// NewActivityLogRepository creates a new ActivityLogRepository.
func NewActivityLogRepository(pool *pgxpool.Pool) *ActivityLogRepository {
	return &ActivityLogRepository{pool: pool}
}

// Insert appends one activity log entry.
func (r *ActivityLogRepository) Insert(ctx context.Context, entry *domain.ActivityLog) error {
	query, args, err := psql.
		Insert("activity_logs").
		Columns("user_id", "action", "details", "ip_address", "user_agent", "timestamp").
		Values(entry.UserID, entry.Action, entry.Details, entry.IPAddress, entry.UserAgent, entry.Timestamp).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}

	return nil
}
