package cache

import (
	"context"
	"time"

	"github.com/mtlprog/taskflow/internal/metrics"
)

// Instrumented counts hits, misses and failures of the wrapped cache.
type Instrumented struct {
	next    Cache
	metrics *metrics.Metrics
}

// NewInstrumented wraps next with metric recording.
func NewInstrumented(next Cache, m *metrics.Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: m}
}

func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, found, err := c.next.Get(ctx, key)
	switch {
	case err != nil:
		c.metrics.CacheOperation("get", metrics.ResultError)
	case found:
		c.metrics.CacheOperation("get", metrics.ResultHit)
	default:
		c.metrics.CacheOperation("get", metrics.ResultMiss)
	}
	return value, found, err
}

func (c *Instrumented) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := c.next.Set(ctx, key, value, ttl)
	c.metrics.CacheOperation("set", result(err))
	return err
}

func (c *Instrumented) Delete(ctx context.Context, key string) error {
	err := c.next.Delete(ctx, key)
	c.metrics.CacheOperation("delete", result(err))
	return err
}

func result(err error) string {
	if err != nil {
		return metrics.ResultError
	}
	return metrics.ResultOK
}
