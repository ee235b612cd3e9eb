// Package config holds the application configuration. It is built once at
// startup from CLI flags and environment variables and passed by value to
// the constructors that need it.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; required only for the postgres store driver.
	DefaultDatabaseURL = ""

	DefaultMongoHost     = "localhost"
	DefaultMongoPort     = 27017
	DefaultMongoDatabase = "taskapp"

	DefaultRedisHost = "localhost"
	DefaultRedisPort = 6379

	DefaultUploadDir = "./uploads"

	// DefaultMaxUploadBytes is the largest accepted upload (5 MiB).
	DefaultMaxUploadBytes int64 = 5 * 1024 * 1024
)

// StoreDriver selects the document store backend.
type StoreDriver string

const (
	StoreDriverMongo    StoreDriver = "mongo"
	StoreDriverPostgres StoreDriver = "postgres"
)

// CacheDriver selects the cache backend.
type CacheDriver string

const (
	CacheDriverRedis  CacheDriver = "redis"
	CacheDriverMemory CacheDriver = "memory"
)

// Config is the complete runtime configuration.
type Config struct {
	Port   string
	Store  StoreConfig
	Cache  CacheConfig
	Upload UploadConfig
}

// StoreConfig configures the document store.
type StoreConfig struct {
	Driver      StoreDriver
	Mongo       MongoConfig
	DatabaseURL string
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	Timeout  time.Duration
}

// URI builds a mongodb:// connection string. Credentials are included only
// when both user and password are set.
func (c MongoConfig) URI() string {
	u := url.URL{
		Scheme: "mongodb",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	if c.User != "" && c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	return u.String()
}

// CacheConfig configures the cache.
type CacheConfig struct {
	Driver CacheDriver
	Redis  RedisConfig
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// UploadConfig configures file uploads.
type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// Validate checks that the selected drivers have what they need.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.Store.Driver {
	case StoreDriverMongo:
		if c.Store.Mongo.Host == "" || c.Store.Mongo.Database == "" {
			return errors.New("mongo host and database are required")
		}
		if c.Store.Mongo.Port <= 0 {
			return fmt.Errorf("invalid mongo port %d", c.Store.Mongo.Port)
		}
	case StoreDriverPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("database URL is required for the postgres store driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.Cache.Driver {
	case CacheDriverRedis:
		if c.Cache.Redis.Host == "" || c.Cache.Redis.Port <= 0 {
			return errors.New("redis host and port are required")
		}
	case CacheDriverMemory:
	default:
		return fmt.Errorf("unknown cache driver %q", c.Cache.Driver)
	}

	if c.Upload.Dir == "" {
		return errors.New("upload directory is required")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("invalid max upload size %d", c.Upload.MaxBytes)
	}

	return nil
}
