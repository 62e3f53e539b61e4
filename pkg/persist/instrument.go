package persist

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for shopkit persistence.
const defaultTracerName = "shopkit/persist"

// InstrumentConfig configures the instrumented store wrapper.
type InstrumentConfig struct {
	// Namespace is the metrics namespace (default: "shopkit").
	Namespace string

	// Subsystem is the metrics subsystem (default: "persist").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for operation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer

	// TracerName is the name of the tracer (default: "shopkit/persist").
	TracerName string

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// InstrumentOption configures the instrumented store wrapper.
type InstrumentOption func(*InstrumentConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) InstrumentOption {
	return func(c *InstrumentConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) InstrumentOption {
	return func(c *InstrumentConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) InstrumentOption {
	return func(c *InstrumentConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) InstrumentOption {
	return func(c *InstrumentConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) InstrumentOption {
	return func(c *InstrumentConfig) {
		c.Registry = registry
	}
}

// WithTracerName sets the tracer name.
func WithTracerName(name string) InstrumentOption {
	return func(c *InstrumentConfig) {
		c.TracerName = name
	}
}

func defaultInstrumentConfig() InstrumentConfig {
	return InstrumentConfig{
		Namespace:  "shopkit",
		Subsystem:  "persist",
		Buckets:    prometheus.DefBuckets,
		Registry:   prometheus.DefaultRegisterer,
		TracerName: defaultTracerName,
	}
}

// instrumentMetrics holds the Prometheus metrics for a wrapped store.
type instrumentMetrics struct {
	opsTotal    *prometheus.CounterVec
	opDuration  *prometheus.HistogramVec
	errorsTotal *prometheus.CounterVec
}

func newInstrumentMetrics(config InstrumentConfig) *instrumentMetrics {
	factory := promauto.With(config.Registry)

	return &instrumentMetrics{
		opsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "ops_total",
			Help:        "Total number of persistence operations by op and slot",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "slot"}),

		opDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "op_duration_seconds",
			Help:        "Persistence operation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),

		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "errors_total",
			Help:        "Total number of failed persistence operations by op and slot",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "slot"}),
	}
}

// InstrumentedStore wraps a Store with Prometheus metrics and
// OpenTelemetry tracing. Failures are still returned to the caller
// unchanged; instrumentation never alters store semantics.
type InstrumentedStore struct {
	inner   Store
	metrics *instrumentMetrics
	tracer  trace.Tracer
}

// Instrument wraps store with metrics and tracing.
//
// Metrics collected:
//   - shopkit_persist_ops_total: Counter of operations by op and slot
//   - shopkit_persist_op_duration_seconds: Histogram of operation duration
//   - shopkit_persist_errors_total: Counter of failed operations
//
// The tracer uses the global OpenTelemetry tracer provider. Configure it
// in your main() before constructing stores.
func Instrument(store Store, opts ...InstrumentOption) *InstrumentedStore {
	config := defaultInstrumentConfig()
	for _, opt := range opts {
		opt(&config)
	}

	config.tracer = otel.Tracer(config.TracerName)

	return &InstrumentedStore{
		inner:   store,
		metrics: newInstrumentMetrics(config),
		tracer:  config.tracer,
	}
}

// Get retrieves the snapshot stored under key.
func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := s.startSpan(ctx, "persist.Get", key)
	defer span.End()

	start := time.Now()
	data, err := s.inner.Get(ctx, key)
	s.record("get", key, start, err, span)
	return data, err
}

// Set persists the snapshot under key.
func (s *InstrumentedStore) Set(ctx context.Context, key string, data []byte) error {
	ctx, span := s.startSpan(ctx, "persist.Set", key)
	defer span.End()
	span.SetAttributes(attribute.Int("shopkit.snapshot_bytes", len(data)))

	start := time.Now()
	err := s.inner.Set(ctx, key, data)
	s.record("set", key, start, err, span)
	return err
}

// Delete removes the snapshot under key.
func (s *InstrumentedStore) Delete(ctx context.Context, key string) error {
	ctx, span := s.startSpan(ctx, "persist.Delete", key)
	defer span.End()

	start := time.Now()
	err := s.inner.Delete(ctx, key)
	s.record("delete", key, start, err, span)
	return err
}

// Close closes the wrapped store.
func (s *InstrumentedStore) Close() error {
	return s.inner.Close()
}

func (s *InstrumentedStore) startSpan(ctx context.Context, name, key string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("shopkit.slot", key),
	))
}

func (s *InstrumentedStore) record(op, key string, start time.Time, err error, span trace.Span) {
	s.metrics.opsTotal.WithLabelValues(op, key).Inc()
	s.metrics.opDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.errorsTotal.WithLabelValues(op, key).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
