package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/taskflow/internal/config"
	"github.com/mtlprog/taskflow/internal/logger"
)

func main() {
	// A missing .env file is fine; real environment variables still apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	app := &cli.App{
		Name:  "taskflow",
		Usage: "Task tracking API with a cache-aside read path",
		Flags: append(storeFlags(), serveFlags()...),
		Before: func(c *cli.Context) error {
			logger.Setup(os.Stdout, logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web server",
				Action: runServe,
			},
			{
				Name:   "init-schema",
				Usage:  "Create tables, collections and indexes",
				Action: runInitSchema,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// storeFlags configure logging and the document store. Every command reads
// them.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			EnvVars: []string{"LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "store-driver",
			Value:   string(config.StoreDriverMongo),
			Usage:   "Document store backend (mongo, postgres)",
			EnvVars: []string{"STORE_DRIVER"},
		},
		&cli.StringFlag{
			Name:    "database-url",
			Aliases: []string{"d"},
			Value:   config.DefaultDatabaseURL,
			Usage:   "PostgreSQL database URL (postgres store driver)",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.StringFlag{
			Name:    "mongo-host",
			Value:   config.DefaultMongoHost,
			Usage:   "MongoDB host",
			EnvVars: []string{"MONGO_HOST"},
		},
		&cli.IntFlag{
			Name:    "mongo-port",
			Value:   config.DefaultMongoPort,
			Usage:   "MongoDB port",
			EnvVars: []string{"MONGO_PORT"},
		},
		&cli.StringFlag{
			Name:    "mongo-db",
			Value:   config.DefaultMongoDatabase,
			Usage:   "MongoDB database name",
			EnvVars: []string{"MONGO_DB"},
		},
		&cli.StringFlag{
			Name:    "mongo-user",
			Usage:   "MongoDB user",
			EnvVars: []string{"MONGO_USER"},
		},
		&cli.StringFlag{
			Name:    "mongo-pass",
			Usage:   "MongoDB password",
			EnvVars: []string{"MONGO_PASS"},
		},
		&cli.DurationFlag{
			Name:    "mongo-timeout",
			Value:   10 * time.Second,
			Usage:   "MongoDB connect and server selection timeout",
			EnvVars: []string{"MONGO_TIMEOUT"},
		},
	}
}

// serveFlags are only read by the serve command but are registered globally
// so that their environment variables apply to the default action too.
func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Value:   config.DefaultPort,
			Usage:   "HTTP server port",
			EnvVars: []string{"PORT"},
		},
		&cli.StringFlag{
			Name:    "cache-driver",
			Value:   string(config.CacheDriverRedis),
			Usage:   "Cache backend (redis, memory)",
			EnvVars: []string{"CACHE_DRIVER"},
		},
		&cli.StringFlag{
			Name:    "redis-host",
			Value:   config.DefaultRedisHost,
			Usage:   "Redis host",
			EnvVars: []string{"REDIS_HOST"},
		},
		&cli.IntFlag{
			Name:    "redis-port",
			Value:   config.DefaultRedisPort,
			Usage:   "Redis port",
			EnvVars: []string{"REDIS_PORT"},
		},
		&cli.StringFlag{
			Name:    "redis-pass",
			Usage:   "Redis password",
			EnvVars: []string{"REDIS_PASS"},
		},
		&cli.StringFlag{
			Name:    "upload-dir",
			Value:   config.DefaultUploadDir,
			Usage:   "Directory for uploaded files",
			EnvVars: []string{"UPLOAD_DIR"},
		},
		&cli.Int64Flag{
			Name:    "max-upload-bytes",
			Value:   config.DefaultMaxUploadBytes,
			Usage:   "Largest accepted upload in bytes",
			EnvVars: []string{"MAX_UPLOAD_BYTES"},
		},
	}
}

// configFromContext collects flags into a validated Config.
func configFromContext(c *cli.Context) (config.Config, error) {
	cfg := config.Config{
		Port: c.String("port"),
		Store: config.StoreConfig{
			Driver:      config.StoreDriver(c.String("store-driver")),
			DatabaseURL: c.String("database-url"),
			Mongo: config.MongoConfig{
				Host:     c.String("mongo-host"),
				Port:     c.Int("mongo-port"),
				Database: c.String("mongo-db"),
				User:     c.String("mongo-user"),
				Password: c.String("mongo-pass"),
				Timeout:  c.Duration("mongo-timeout"),
			},
		},
		Cache: config.CacheConfig{
			Driver: config.CacheDriver(c.String("cache-driver")),
			Redis: config.RedisConfig{
				Host:     c.String("redis-host"),
				Port:     c.Int("redis-port"),
				Password: c.String("redis-pass"),
			},
		},
		Upload: config.UploadConfig{
			Dir:      c.String("upload-dir"),
			MaxBytes: c.Int64("max-upload-bytes"),
		},
	}

	if cfg.Port == "" {
		cfg.Port = config.DefaultPort
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
