// Package memory provides in-memory adapters for local runs and tests.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
	"github.com/archon-research/stl/stl-lend/internal/ports/outbound"
)

// Compile-time check that EventSink implements outbound.EventSink
var _ outbound.EventSink = (*EventSink)(nil)

// ErrSinkClosed is returned by Publish after Close.
var ErrSinkClosed = errors.New("event sink closed")

// EventSink keeps every published invocation event in memory.
type EventSink struct {
	mu     sync.RWMutex
	events []entity.InvocationEvent
	closed bool

	onPublish func(entity.InvocationEvent)
}

// NewEventSink creates an empty in-memory event sink.
func NewEventSink() *EventSink {
	return &EventSink{}
}

// Publish stores the event.
func (s *EventSink) Publish(_ context.Context, event entity.InvocationEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}
	s.events = append(s.events, event)

	if s.onPublish != nil {
		s.onPublish(event)
	}
	return nil
}

// Close marks the sink as closed.
func (s *EventSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Events returns a copy of all published events.
func (s *EventSink) Events() []entity.InvocationEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]entity.InvocationEvent, len(s.events))
	copy(result, s.events)
	return result
}

// EventsFor returns events for one operation.
func (s *EventSink) EventsFor(op entity.PoolOperation) []entity.InvocationEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []entity.InvocationEvent
	for _, e := range s.events {
		if e.Operation == op {
			result = append(result, e)
		}
	}
	return result
}

// SetOnPublish registers a callback run for each published event, under the sink lock.
func (s *EventSink) SetOnPublish(fn func(entity.InvocationEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPublish = fn
}

// Clear removes all stored events.
func (s *EventSink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
