package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/mtlprog/taskflow/internal/metrics"
)

func TestCounters(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.CacheOperation("get", metrics.ResultHit)
	m.CacheOperation("get", metrics.ResultHit)
	m.CacheOperation("get", metrics.ResultMiss)
	m.StoreError("find_all")
	m.Read("list_tasks", "cache")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheOperations.WithLabelValues("get", metrics.ResultHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheOperations.WithLabelValues("get", metrics.ResultMiss)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreErrors.WithLabelValues("find_all")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reads.WithLabelValues("list_tasks", "cache")))
}

func TestNilMetrics(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.CacheOperation("get", metrics.ResultHit)
		m.StoreError("insert")
		m.Read("user_stats", "store")
	})
}
