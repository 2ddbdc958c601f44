package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vela/pkg/vdom"
)

// MetricsConfig configures the Prometheus collectors of an instance.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vela").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures Metrics.
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
		Namespace: "vela",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors shared by every instance it is passed to.
// A nil *Metrics records nothing.
type Metrics struct {
	passesTotal  *prometheus.CounterVec
	passDuration prometheus.Histogram
	nodesTotal   *prometheus.CounterVec
	lazyTotal    *prometheus.CounterVec
	instances    prometheus.Gauge
}

// NewMetrics registers the collectors. Registering twice against the same
// registry panics, so create one Metrics per process and share it.
//
// Metrics collected:
//   - vela_passes_total: passes by status (ok, error)
//   - vela_pass_duration_seconds: update, render and reconcile time
//   - vela_nodes_total: surface nodes by op (created, destroyed, replaced, moved)
//   - vela_lazy_total: lazy nodes by result (hit, miss)
//   - vela_active_instances: running instances
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		passesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Total number of update and reconcile passes",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		nodesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_total",
			Help:        "Surface node operations performed by reconciliation",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		lazyTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "lazy_total",
			Help:        "Lazy node comparisons by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		instances: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_instances",
			Help:        "Number of running application instances",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) observePass(d time.Duration, s vdom.Stats, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.passesTotal.WithLabelValues(status).Inc()
	m.passDuration.Observe(d.Seconds())
	m.nodesTotal.WithLabelValues("created").Add(float64(s.Created))
	m.nodesTotal.WithLabelValues("destroyed").Add(float64(s.Destroyed))
	m.nodesTotal.WithLabelValues("replaced").Add(float64(s.Replaced))
	m.nodesTotal.WithLabelValues("moved").Add(float64(s.Moved))
	m.lazyTotal.WithLabelValues("hit").Add(float64(s.LazyHits))
	m.lazyTotal.WithLabelValues("miss").Add(float64(s.LazyMisses))
}

func (m *Metrics) instanceStarted() {
	if m != nil {
		m.instances.Inc()
	}
}

func (m *Metrics) instanceStopped() {
	if m != nil {
		m.instances.Dec()
	}
}
