package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
)

// MockTokenSource implements outbound.TokenSource for testing.
type MockTokenSource struct {
	mu        sync.Mutex
	ListFn    func(ctx context.Context) ([]entity.Token, error)
	CallCount int
}

func (m *MockTokenSource) ListTokens(ctx context.Context) ([]entity.Token, error) {
	m.mu.Lock()
	m.CallCount++
	m.mu.Unlock()
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, errors.New("ListTokens not mocked")
}

// MockEventSink implements outbound.EventSink for testing.
type MockEventSink struct {
	mu        sync.Mutex
	PublishFn func(ctx context.Context, event entity.InvocationEvent) error
	Events    []entity.InvocationEvent
}

func (m *MockEventSink) Publish(ctx context.Context, event entity.InvocationEvent) error {
	m.mu.Lock()
	m.Events = append(m.Events, event)
	m.mu.Unlock()
	if m.PublishFn != nil {
		return m.PublishFn(ctx, event)
	}
	return nil
}

func (m *MockEventSink) Close() error {
	return nil
}

// InvocationRecord is one RecordInvocation call captured by MockMetrics.
type InvocationRecord struct {
	Operation string
	Status    string
}

// MockMetrics implements outbound.MetricsRecorder for testing.
type MockMetrics struct {
	mu           sync.Mutex
	Invocations  []InvocationRecord
	BalanceViews []int
}

func (m *MockMetrics) RecordInvocation(_ context.Context, operation, status string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invocations = append(m.Invocations, InvocationRecord{Operation: operation, Status: status})
}

func (m *MockMetrics) RecordBalanceView(_ context.Context, tokens int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BalanceViews = append(m.BalanceViews, tokens)
}
