// Package inbound contains the primary/inbound ports.
// These interfaces define the use cases that the application exposes.
package inbound

import (
	"context"
	"math/big"

	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
)

// BalanceViewer produces the display balance table.
// Inbound adapters (HTTP handlers, CLI) call this.
type BalanceViewer interface {
	Balances(ctx context.Context) entity.BalanceTable
}

// PoolInvoker issues state-changing calls against lending pools.
type PoolInvoker interface {
	Borrow(ctx context.Context, pool string, amount *big.Int) error
	RequestWithdraw(ctx context.Context, pool string, tokenID, amount *big.Int) error
}

// HealthChecker defines the interface for services that can report readiness and liveness.
//
// Implementations:
//   - balance_view.Service: ready once the token source has answered, healthy while it keeps answering
type HealthChecker interface {
	// IsReady returns true when the service is ready to handle traffic.
	IsReady() bool

	// IsHealthy returns true when the service is operating normally.
	IsHealthy() bool
}
