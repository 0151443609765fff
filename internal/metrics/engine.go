package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "docsearch"

// Engine holds the Prometheus collectors of one search engine.
// A nil *Engine is valid and records nothing.
type Engine struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	cache        *prometheus.CounterVec
	documents    prometheus.Gauge
	cacheEntries prometheus.Gauge
}

// NewEngine registers engine metrics on reg. Collectors already registered
// by another engine on the same registerer are reused.
func NewEngine(reg prometheus.Registerer) (*Engine, error) {
	m := &Engine{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "requests_total",
			Help:      "Engine requests by type and response type.",
		}, []string{"type", "response"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "request_duration_seconds",
			Help:      "Time spent processing an engine request.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"type"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "cache_total",
			Help:      "Result cache hits, misses and evictions.",
		}, []string{"result"}),
		documents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "documents",
			Help:      "Documents currently indexed.",
		}),
		cacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "cache_entries",
			Help:      "Entries currently held by the result cache.",
		}),
	}
	if err := registerOrReuse(reg, &m.requests); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.cache); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.documents); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.cacheEntries); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("register metric: %w", err)
	}
	return nil
}

// ObserveRequest records one processed request.
func (m *Engine) ObserveRequest(reqType, respType string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(reqType, respType).Inc()
	m.duration.WithLabelValues(reqType).Observe(d.Seconds())
}

// SetDocuments records the store size.
func (m *Engine) SetDocuments(n int) {
	if m == nil {
		return
	}
	m.documents.Set(float64(n))
}

// SetCacheEntries records the cache size.
func (m *Engine) SetCacheEntries(n int) {
	if m == nil {
		return
	}
	m.cacheEntries.Set(float64(n))
}

// CacheTotal returns the cache counter vec, nil when metrics are disabled.
func (m *Engine) CacheTotal() *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.cache
}
