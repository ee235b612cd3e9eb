// Package mongostore implements the task and activity stores on MongoDB.
package mongostore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mtlprog/taskflow/internal/config"
)

// Collection names.
const (
	TasksCollection       = "tasks"
	ActivityLogCollection = "activity_logs"
)

const defaultTimeout = 10 * time.Second

// DB wraps a connected mongo.Client and the application database.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client from cfg and verifies it with a ping.
func Connect(ctx context.Context, cfg config.MongoConfig) (*DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI()).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)

	return connect(ctx, opts, cfg.Database)
}

// ConnectURI opens a client for a full connection string.
func ConnectURI(ctx context.Context, uri, database string) (*DB, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(defaultTimeout)

	return connect(ctx, opts, database)
}

func connect(ctx context.Context, opts *options.ClientOptions, database string) (*DB, error) {
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	slog.Info("database connected", "driver", "mongo", "database", database)

	return &DB{client: client, db: client.Database(database)}, nil
}

// Database returns the application database.
func (d *DB) Database() *mongo.Database {
	return d.db
}

// Ping checks that the server is reachable. Used by the health endpoint.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (d *DB) Close(ctx context.Context) error {
	if err := d.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	slog.Info("database connection closed")
	return nil
}

// EnsureIndexes creates the indexes used by the task list, the user stats
// counts and activity lookups. Existing indexes are left as they are.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		TasksCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
			{Keys: bson.D{{Key: "priority", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		ActivityLogCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "action", Value: 1}}},
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		},
	}

	for _, name := range []string{TasksCollection, ActivityLogCollection} {
		created, err := db.Collection(name).Indexes().CreateMany(ctx, indexes[name])
		if err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
		slog.Info("schema initialised", "driver", "mongo", "collection", name, "indexes", created)
	}

	return nil
}
