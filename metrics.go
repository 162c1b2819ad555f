package fieldtl

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BackendMetrics holds the collectors updated by InstrumentedBackend.
type BackendMetrics struct {
	Calls    *prometheus.CounterVec
	Failures *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

// NewBackendMetrics creates the collectors and registers them with reg.
func NewBackendMetrics(reg prometheus.Registerer) *BackendMetrics {
	factory := promauto.With(reg)
	return &BackendMetrics{
		Calls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fieldtl_backend_calls_total",
			Help: "Total number of translation backend calls",
		}, []string{"service"}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fieldtl_backend_failures_total",
			Help: "Total number of failed translation backend calls",
		}, []string{"service"}),
		Latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fieldtl_backend_call_duration_seconds",
			Help:    "Duration of translation backend calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
	}
}

// InstrumentedBackend records calls, failures and latency per service.
type InstrumentedBackend struct {
	backend Backend
	metrics *BackendMetrics
}

// NewInstrumentedBackend wraps backend with metrics.
func NewInstrumentedBackend(backend Backend, metrics *BackendMetrics) *InstrumentedBackend {
	return &InstrumentedBackend{backend: backend, metrics: metrics}
}

// Translate implements Backend.
func (b *InstrumentedBackend) Translate(ctx context.Context, text string, opts TranslationOptions) (string, error) {
	service := string(opts.Service)
	start := time.Now()

	out, err := b.backend.Translate(ctx, text, opts)

	b.metrics.Calls.WithLabelValues(service).Inc()
	b.metrics.Latency.WithLabelValues(service).Observe(time.Since(start).Seconds())
	if err != nil {
		b.metrics.Failures.WithLabelValues(service).Inc()
	}
	return out, err
}

// Verify InstrumentedBackend implements Backend
var _ Backend = (*InstrumentedBackend)(nil)
