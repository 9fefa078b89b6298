package report

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics reporter.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "mappa").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics reporter.
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

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "mappa",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a Reporter that counts resource events in Prometheus.
//
// Metrics collected:
//   - mappa_resource_accessed_total: Counter of handled requests by resource id
//   - mappa_resource_rendered_total: Counter of generated URLs by resource id
//   - mappa_resource_links_total: Counter of call-graph edges by caller and callee
//
// Example:
//
//	chain.Add(report.NewMetrics(report.WithNamespace("myapp")))
//	http.Handle("/metrics", promhttp.Handler())
type Metrics struct {
	accessed *prometheus.CounterVec
	rendered *prometheus.CounterVec
	links    *prometheus.CounterVec
}

// NewMetrics creates a Prometheus metrics reporter. Creating two
// reporters against the same registry panics on duplicate
// registration, so construct one per registry.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		accessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resource_accessed_total",
			Help:        "Total number of requests handled per resource id",
			ConstLabels: config.ConstLabels,
		}, []string{"resid"}),

		rendered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resource_rendered_total",
			Help:        "Total number of URLs generated per resource id",
			ConstLabels: config.ConstLabels,
		}, []string{"resid"}),

		links: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resource_links_total",
			Help:        "Total number of caller to callee links observed",
			ConstLabels: config.ConstLabels,
		}, []string{"caller", "callee"}),
	}
}

// Accessed implements Reporter.
func (m *Metrics) Accessed(id string) {
	m.accessed.WithLabelValues(id).Inc()
}

// Rendered implements Reporter.
func (m *Metrics) Rendered(id string) {
	m.rendered.WithLabelValues(id).Inc()
}

// Edge implements EdgeReporter.
func (m *Metrics) Edge(caller, callee string) {
	m.links.WithLabelValues(caller, callee).Inc()
}
