// Package metrics provides Prometheus instrumentation for reconciliation.
//
// A Reconciler collector is handed to the renderer via
// reconcile.WithMetrics. All record methods are nil-safe, so an
// uninstrumented renderer pays only a nil check.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the Reconciler collector.
type Config struct {
	// Namespace is the metrics namespace (default: "reflow").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// Option configures the Reconciler collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the pass-duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "reflow",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Reconciler holds the Prometheus metrics for one renderer.
//
// Metrics collected:
//   - reflow_inserts_total: nodes inserted into the host tree
//   - reflow_removes_total: nodes detached from the host tree
//   - reflow_moves_total: attached nodes relocated
//   - reflow_text_updates_total: in-place text replacements
//   - reflow_nodes_destroyed_total: nodes destroyed after removal
//   - reflow_passes_total: reconciliation passes
//   - reflow_pass_duration_seconds: pass duration histogram
type Reconciler struct {
	inserts      prometheus.Counter
	removes      prometheus.Counter
	moves        prometheus.Counter
	textUpdates  prometheus.Counter
	destroyed    prometheus.Counter
	passes       prometheus.Counter
	passDuration prometheus.Histogram
}

// NewReconciler creates and registers the reconciliation metrics.
func NewReconciler(opts ...Option) *Reconciler {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)
	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Reconciler{
		inserts:     counter("inserts_total", "Nodes inserted into the host tree"),
		removes:     counter("removes_total", "Nodes detached from the host tree"),
		moves:       counter("moves_total", "Attached nodes relocated"),
		textUpdates: counter("text_updates_total", "In-place text replacements"),
		destroyed:   counter("nodes_destroyed_total", "Nodes destroyed after removal"),
		passes:      counter("passes_total", "Reconciliation passes"),
		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Reconciliation pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// RecordInsert records one node insertion.
func (r *Reconciler) RecordInsert() {
	if r != nil {
		r.inserts.Inc()
	}
}

// RecordRemove records one node detachment.
func (r *Reconciler) RecordRemove() {
	if r != nil {
		r.removes.Inc()
	}
}

// RecordMove records one node relocation.
func (r *Reconciler) RecordMove() {
	if r != nil {
		r.moves.Inc()
	}
}

// RecordTextUpdate records one in-place text replacement.
func (r *Reconciler) RecordTextUpdate() {
	if r != nil {
		r.textUpdates.Inc()
	}
}

// RecordDestroy records one node destruction.
func (r *Reconciler) RecordDestroy() {
	if r != nil {
		r.destroyed.Inc()
	}
}

// RecordPass records one completed reconciliation pass and its duration.
func (r *Reconciler) RecordPass(d time.Duration) {
	if r != nil {
		r.passes.Inc()
		r.passDuration.Observe(d.Seconds())
	}
}
