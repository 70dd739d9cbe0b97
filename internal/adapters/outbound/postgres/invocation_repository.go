package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
	"github.com/archon-research/stl/stl-lend/internal/ports/outbound"
)

var _ outbound.EventSink = (*InvocationRepository)(nil)

// InvocationRepository records mined pool calls in the pool_invocation table.
type InvocationRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewInvocationRepository creates an invocation log backed by db.
func NewInvocationRepository(db *sql.DB, logger *slog.Logger) (*InvocationRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &InvocationRepository{db: db, logger: logger.With("component", "invocation-repository")}, nil
}

// Publish inserts the event. A repeated tx hash is ignored.
func (r *InvocationRepository) Publish(ctx context.Context, event entity.InvocationEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pool_invocation
			(operation, network, chain_id, pool, tx_hash, block_number, gas_used, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (tx_hash) DO NOTHING`,
		string(event.Operation), event.Network, event.ChainID, event.Pool, event.TxHash,
		int64(event.BlockNumber), int64(event.GasUsed), event.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to insert invocation %s: %w", event.TxHash, err)
	}
	return nil
}

// Close is a no-op; the database handle is owned by the caller.
func (r *InvocationRepository) Close() error {
	return nil
}
