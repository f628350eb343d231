package middleware

import (
	"context"
	"time"

	"github.com/messenger-dev/messenger-web/pkg/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values.
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusNotFound = "not_found"
)

// MetricsConfig configures the Prometheus guard.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "messenger").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus guard.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "messenger",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records navigation metrics. It implements router.Guard.
type Metrics struct {
	navigations    *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	viewLoads      *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

// Prometheus registers the navigation metrics and returns the guard that
// records them. Registering twice on the same registry panics, so create
// one per process and share it between routers.
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigations by route and status",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Time spent in the navigation chain in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		viewLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "view_loads_total",
			Help:        "Total number of deferred view loads by view and status",
			ConstLabels: config.ConstLabels,
		}, []string{"view", "status"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of open navigation sockets",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Handle implements router.Guard.
func (m *Metrics) Handle(nav *router.Navigation, next func() error) error {
	route := nav.To.Label()
	start := time.Now()

	err := next()

	m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	m.navigations.WithLabelValues(route, status).Inc()
	return err
}

// ObserveNotFound counts a navigation that matched no route. Unmatched
// navigations never reach the guard chain.
func (m *Metrics) ObserveNotFound() {
	m.navigations.WithLabelValues(StatusNotFound, StatusNotFound).Inc()
}

// InstrumentLoader wraps a deferred view loader so each load is counted.
// Its signature fits routes.WithLoaderWrap.
func (m *Metrics) InstrumentLoader(id string, load router.Loader) router.Loader {
	return func(ctx context.Context) (router.View, error) {
		v, err := load(ctx)
		status := StatusOK
		if err != nil {
			status = StatusError
		}
		m.viewLoads.WithLabelValues(id, status).Inc()
		return v, err
	}
}

// SessionOpened increments the active session gauge.
func (m *Metrics) SessionOpened() {
	m.activeSessions.Inc()
}

// SessionClosed decrements the active session gauge.
func (m *Metrics) SessionClosed() {
	m.activeSessions.Dec()
}
