package fieldtl

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInstrumentedBackend(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewBackendMetrics(reg)

	inner := &recordingBackend{failOn: 2}
	backend := NewInstrumentedBackend(inner, metrics)
	opts := mockOptions(FormatPlain)

	if _, err := backend.Translate(context.Background(), "one", opts); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if _, err := backend.Translate(context.Background(), "two", opts); err == nil {
		t.Fatal("Expected second call to fail")
	}

	if got := testutil.ToFloat64(metrics.Calls.WithLabelValues("mock")); got != 2 {
		t.Errorf("calls = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.Failures.WithLabelValues("mock")); got != 1 {
		t.Errorf("failures = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(metrics.Latency); got != 1 {
		t.Errorf("latency series = %d, want 1", got)
	}
}

func TestNewBackendMetrics_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewBackendMetrics(reg)

	defer func() {
		if recover() == nil {
			t.Error("Registering the same collectors twice should panic")
		}
	}()
	NewBackendMetrics(reg)
}
