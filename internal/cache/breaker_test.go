package cache_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/taskflow/internal/cache"
)

type failingCache struct {
	calls int
	err   error
}

func (f *failingCache) fail() error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return errDown
}

var errDown = errors.New("connection refused")

func (f *failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, f.fail()
}

func (f *failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return f.fail()
}

func (f *failingCache) Delete(context.Context, string) error {
	return f.fail()
}

func TestBreaker_PassesThrough(t *testing.T) {
	ctx := context.Background()
	b := cache.NewBreaker(cache.NewMemory(), cache.DefaultBreakerConfig())

	_, found, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found, "a miss is not a failure")

	require.NoError(t, b.Set(ctx, "k", []byte("v"), time.Minute))
	value, found, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), value)

	require.NoError(t, b.Delete(ctx, "k"))
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	ctx := context.Background()
	next := &failingCache{}
	b := cache.NewBreaker(next, cache.BreakerConfig{
		Name:                "test",
		ConsecutiveFailures: 3,
		OpenTimeout:         time.Minute,
		HalfOpenRequests:    1,
	})

	for i := 0; i < 3; i++ {
		_, _, err := b.Get(ctx, "k")
		assert.ErrorIs(t, err, errDown)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, _, err := b.Get(ctx, "k")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.ErrorIs(t, b.Delete(ctx, "k"), gobreaker.ErrOpenState)
	assert.Equal(t, 3, next.calls, "open circuit does not reach the cache")
}

func TestBreaker_IgnoresCallerCancellation(t *testing.T) {
	ctx := context.Background()
	cfg := cache.BreakerConfig{
		Name:                "test",
		ConsecutiveFailures: 3,
		OpenTimeout:         time.Minute,
		HalfOpenRequests:    1,
	}

	for _, callerErr := range []error{context.Canceled, context.DeadlineExceeded} {
		t.Run(callerErr.Error(), func(t *testing.T) {
			next := &failingCache{err: fmt.Errorf("get: %w", callerErr)}
			b := cache.NewBreaker(next, cfg)

			for i := 0; i < 10; i++ {
				_, _, err := b.Get(ctx, "k")
				assert.ErrorIs(t, err, callerErr)
			}
			assert.Equal(t, gobreaker.StateClosed, b.State())
			assert.Equal(t, 10, next.calls)
		})
	}
}
