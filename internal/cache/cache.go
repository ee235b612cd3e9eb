// Package cache provides the key/value cache used by the task service.
// Values are opaque bytes with a per-entry TTL; callers encode and decode.
package cache

import (
	"context"
	"time"
)

// Cache is a byte cache with TTL. Implementations must be safe for
// concurrent use. A missing or expired key is reported as found == false
// with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
