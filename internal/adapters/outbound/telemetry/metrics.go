// Package telemetry wires OpenTelemetry metrics and tracing for the stl-lend binaries.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/archon-research/stl/stl-lend/internal/ports/outbound"
)

var _ outbound.MetricsRecorder = (*Metrics)(nil)

const instrumentationName = "github.com/archon-research/stl/stl-lend"

// Metrics records pool invocation and balance view metrics.
type Metrics struct {
	invocations       metric.Int64Counter
	invocationLatency metric.Float64Histogram
	balanceTokens     metric.Int64Histogram
}

// NewMetrics creates a recorder on the global meter provider.
func NewMetrics() (*Metrics, error) {
	return NewMetricsWithProvider(otel.GetMeterProvider())
}

// NewMetricsWithProvider creates a recorder on mp.
func NewMetricsWithProvider(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(instrumentationName)

	invocations, err := meter.Int64Counter(
		"pool_invocations_total",
		metric.WithDescription("Pool calls by operation and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool_invocations_total counter: %w", err)
	}

	latency, err := meter.Float64Histogram(
		"pool_invocation_duration_seconds",
		metric.WithDescription("Time from connect to mined receipt"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool_invocation_duration_seconds histogram: %w", err)
	}

	tokens, err := meter.Int64Histogram(
		"balance_view_tokens",
		metric.WithDescription("Entries in each balance table served"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create balance_view_tokens histogram: %w", err)
	}

	return &Metrics{
		invocations:       invocations,
		invocationLatency: latency,
		balanceTokens:     tokens,
	}, nil
}

// RecordInvocation counts one pool call. status is "success" or the failed step.
func (m *Metrics) RecordInvocation(ctx context.Context, operation, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	m.invocations.Add(ctx, 1, attrs)
	m.invocationLatency.Record(ctx, duration.Seconds(), attrs)
}

// RecordBalanceView records the size of a served balance table.
func (m *Metrics) RecordBalanceView(ctx context.Context, tokens int) {
	m.balanceTokens.Record(ctx, int64(tokens))
}
