// Package balance_view builds the balance table shown for a token list.
//
// Balances are placeholders: every listed token maps to zero. The table shape
// is what callers depend on, so it is rebuilt from the token source on every
// request.
package balance_view

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
	"github.com/archon-research/stl/stl-lend/internal/ports/inbound"
	"github.com/archon-research/stl/stl-lend/internal/ports/outbound"
)

var (
	_ inbound.BalanceViewer = (*Service)(nil)
	_ inbound.HealthChecker = (*Service)(nil)
)

const readyTimeout = 2 * time.Second

// Service serves zero-filled balance tables.
type Service struct {
	source  outbound.TokenSource
	metrics outbound.MetricsRecorder
	logger  *slog.Logger

	// lastListOK reports whether the most recent token source read succeeded.
	lastListOK atomic.Bool
	served     atomic.Bool
}

// NewService creates a balance view over source. metrics is optional.
func NewService(source outbound.TokenSource, metrics outbound.MetricsRecorder, logger *slog.Logger) (*Service, error) {
	if source == nil {
		return nil, errors.New("token source is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		source:  source,
		metrics: metrics,
		logger:  logger.With("component", "balance-view"),
	}
	s.lastListOK.Store(true)
	return s, nil
}

// Balances returns one zero entry per distinct token address.
// If the token list cannot be read the result is an empty table.
func (s *Service) Balances(ctx context.Context) entity.BalanceTable {
	tokens, err := s.source.ListTokens(ctx)
	if err != nil {
		s.logger.Warn("token list unavailable, returning empty balances", "error", err)
		s.lastListOK.Store(false)
		tokens = nil
	} else {
		s.lastListOK.Store(true)
	}
	s.served.Store(true)

	table := entity.ZeroBalances(tokens)
	if s.metrics != nil {
		s.metrics.RecordBalanceView(ctx, len(table))
	}
	return table
}

// IsReady reports whether the token source can be read.
func (s *Service) IsReady() bool {
	ctx, cancel := context.WithTimeout(context.Background(), readyTimeout)
	defer cancel()
	if _, err := s.source.ListTokens(ctx); err != nil {
		s.logger.Debug("readiness check failed", "error", err)
		return false
	}
	return true
}

// IsHealthy reports false only after a request has hit a token source failure.
func (s *Service) IsHealthy() bool {
	return !s.served.Load() || s.lastListOK.Load()
}
