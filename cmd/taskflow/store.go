package main

import (
	"context"
	"fmt"

	"github.com/mtlprog/taskflow/internal/config"
	"github.com/mtlprog/taskflow/internal/database"
	"github.com/mtlprog/taskflow/internal/handler"
	"github.com/mtlprog/taskflow/internal/mongostore"
	"github.com/mtlprog/taskflow/internal/repository"
	"github.com/mtlprog/taskflow/internal/service"
)

// store bundles one backend's repositories with its lifecycle hooks.
type store struct {
	tasks      service.TaskStore
	activity   service.ActivityStore
	pinger     handler.Pinger
	initSchema func(ctx context.Context) error
	close      func()
}

func openStore(ctx context.Context, cfg config.StoreConfig) (*store, error) {
	switch cfg.Driver {
	case config.StoreDriverPostgres:
		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return &store{
			tasks:    repository.NewTaskRepository(db.Pool()),
			activity: repository.NewActivityLogRepository(db.Pool()),
			pinger:   db,
			initSchema: func(ctx context.Context) error {
				return database.RunMigrations(ctx, db.Pool())
			},
			close: db.Close,
		}, nil

	default:
		db, err := mongostore.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return &store{
			tasks:    mongostore.NewTaskRepository(db.Database()),
			activity: mongostore.NewActivityLogRepository(db.Database()),
			pinger:   db,
			initSchema: func(ctx context.Context) error {
				return mongostore.EnsureIndexes(ctx, db.Database())
			},
			close: func() {
				_ = db.Close(context.Background())
			},
		}, nil
	}
}
