package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/taskflow/internal/config"
)

// runConfig parses args with the application flags and returns the Config
// the commands would receive.
func runConfig(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()

	var (
		cfg    config.Config
		cfgErr error
	)
	app := &cli.App{
		Name:  "taskflow",
		Flags: append(storeFlags(), serveFlags()...),
		Action: func(c *cli.Context) error {
			cfg, cfgErr = configFromContext(c)
			return nil
		},
	}
	require.NoError(t, app.Run(append([]string{"taskflow"}, args...)))
	return cfg, cfgErr
}

func TestConfigFromContext_Defaults(t *testing.T) {
	cfg, err := runConfig(t)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultPort, cfg.Port)
	assert.Equal(t, config.StoreDriverMongo, cfg.Store.Driver)
	assert.Equal(t, config.DefaultMongoHost, cfg.Store.Mongo.Host)
	assert.Equal(t, config.DefaultMongoPort, cfg.Store.Mongo.Port)
	assert.Equal(t, config.DefaultMongoDatabase, cfg.Store.Mongo.Database)
	assert.Equal(t, 10*time.Second, cfg.Store.Mongo.Timeout)
	assert.Equal(t, config.CacheDriverRedis, cfg.Cache.Driver)
	assert.Equal(t, config.DefaultRedisPort, cfg.Cache.Redis.Port)
	assert.Equal(t, config.DefaultUploadDir, cfg.Upload.Dir)
	assert.Equal(t, config.DefaultMaxUploadBytes, cfg.Upload.MaxBytes)
}

func TestConfigFromContext_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/tasks")
	t.Setenv("CACHE_DRIVER", "memory")
	t.Setenv("REDIS_PASS", "secret")
	t.Setenv("UPLOAD_DIR", "/srv/uploads")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := runConfig(t)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, config.StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://u:p@db:5432/tasks", cfg.Store.DatabaseURL)
	assert.Equal(t, config.CacheDriverMemory, cfg.Cache.Driver)
	assert.Equal(t, "secret", cfg.Cache.Redis.Password)
	assert.Equal(t, "/srv/uploads", cfg.Upload.Dir)
}

func TestConfigFromContext_Invalid(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := runConfig(t, "--store-driver", "postgres")
	assert.ErrorContains(t, err, "database URL is required")

	_, err = runConfig(t, "--cache-driver", "memcached")
	assert.ErrorContains(t, err, "unknown cache driver")
}
