// Package outbound defines the outbound port interfaces.
package outbound

import (
	"context"
	"time"
)

// MetricsRecorder provides an interface for recording application metrics.
// This allows the application layer to record metrics without depending on
// specific telemetry implementations.
type MetricsRecorder interface {
	// RecordInvocation records one pool invocation with its outcome.
	// status is "success" or the failed step ("connect", "resolve", "call").
	RecordInvocation(ctx context.Context, operation string, status string, duration time.Duration)

	// RecordBalanceView records how many tokens a balance view produced.
	RecordBalanceView(ctx context.Context, tokens int)
}
