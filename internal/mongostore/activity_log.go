package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mtlprog/taskflow/internal/domain"
)

type activityDocument struct {
	UserID    string    `bson:"user_id"`
	Action    string    `bson:"action"`
	Details   string    `bson:"details"`
	IPAddress string    `bson:"ip_address"`
	UserAgent string    `bson:"user_agent"`
	Timestamp time.Time `bson:"timestamp"`
}

// ActivityLogRepository appends documents to the activity_logs collection.
type ActivityLogRepository struct {
	coll *mongo.Collection
}

// NewActivityLogRepository creates a new ActivityLogRepository.
func NewActivityLogRepository(db *mongo.Database) *ActivityLogRepository {
	return &ActivityLogRepository{coll: db.Collection(ActivityLogCollection)}
}

// Insert appends one activity log entry.
func (r *ActivityLogRepository) Insert(ctx context.Context, entry *domain.ActivityLog) error {
	_, err := r.coll.InsertOne(ctx, activityDocument{
		UserID:    entry.UserID,
		Action:    entry.Action,
		Details:   entry.Details,
		IPAddress: entry.IPAddress,
		UserAgent: entry.UserAgent,
		Timestamp: entry.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}
