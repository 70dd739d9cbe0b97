package outbound

import (
	"context"

	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
)

// EventSink publishes notifications about mined pool invocations.
type EventSink interface {
	// Publish sends the event to downstream consumers.
	Publish(ctx context.Context, event entity.InvocationEvent) error

	// Close releases any resources held by the sink.
	Close() error
}
