// Package metrics holds the Prometheus collectors for the cache and store.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "taskflow"

// Cache operation results.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics groups the collectors registered for one process.
type Metrics struct {
	CacheOperations *prometheus.CounterVec
	StoreErrors     *prometheus.CounterVec
	Reads           *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "operations_total",
				Help:      "Cache operations by operation and result.",
			},
			[]string{"operation", "result"},
		),
		StoreErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "errors_total",
				Help:      "Failed document store operations.",
			},
			[]string{"operation"},
		),
		Reads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reads_total",
				Help:      "Cached reads by the source that served them.",
			},
			[]string{"operation", "source"},
		),
	}

	reg.MustRegister(m.CacheOperations, m.StoreErrors, m.Reads)
	return m
}

// CacheOperation counts one cache call.
func (m *Metrics) CacheOperation(operation, result string) {
	if m == nil {
		return
	}
	m.CacheOperations.WithLabelValues(operation, result).Inc()
}

// StoreError counts one failed store call.
func (m *Metrics) StoreError(operation string) {
	if m == nil {
		return
	}
	m.StoreErrors.WithLabelValues(operation).Inc()
}

// Read counts one read served from source.
func (m *Metrics) Read(operation, source string) {
	if m == nil {
		return
	}
	m.Reads.WithLabelValues(operation, source).Inc()
}
