package telemetry

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace"
)

func TestMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewMetricsWithProvider(mp)
	if err != nil {
		t.Fatalf("NewMetricsWithProvider: %v", err)
	}

	ctx := context.Background()
	m.RecordInvocation(ctx, "borrow", "success", 2*time.Second)
	m.RecordInvocation(ctx, "borrow", "connect", time.Millisecond)
	m.RecordBalanceView(ctx, 3)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	found := make(map[string]bool)
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			found[md.Name] = true
			if md.Name == "pool_invocations_total" {
				sum, ok := md.Data.(metricdata.Sum[int64])
				if !ok {
					t.Fatalf("pool_invocations_total data = %T", md.Data)
				}
				if len(sum.DataPoints) != 2 {
					t.Errorf("invocation series = %d, want 2", len(sum.DataPoints))
				}
			}
		}
	}
	for _, name := range []string{"pool_invocations_total", "pool_invocation_duration_seconds", "balance_view_tokens"} {
		if !found[name] {
			t.Errorf("metric %s not recorded", name)
		}
	}
}

func TestInit_NoEndpointIsNoop(t *testing.T) {
	ctx := context.Background()

	shutdownMetrics, err := InitMetrics(ctx, MetricConfig{ServiceName: "test"})
	if err != nil {
		t.Fatalf("InitMetrics: %v", err)
	}
	if err := shutdownMetrics(ctx); err != nil {
		t.Errorf("metrics shutdown: %v", err)
	}

	shutdownTracer, err := InitTracer(ctx, TracerConfig{ServiceName: "test"})
	if err != nil {
		t.Fatalf("InitTracer: %v", err)
	}
	if err := shutdownTracer(ctx); err != nil {
		t.Errorf("tracer shutdown: %v", err)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{rate: 1.0, want: trace.AlwaysSample().Description()},
		{rate: 2.0, want: trace.AlwaysSample().Description()},
		{rate: 0, want: trace.NeverSample().Description()},
		{rate: 0.5, want: trace.TraceIDRatioBased(0.5).Description()},
	}
	for _, tt := range tests {
		if got := sampler(tt.rate).Description(); got != tt.want {
			t.Errorf("sampler(%v) = %s, want %s", tt.rate, got, tt.want)
		}
	}
}
