// Package pool_invoker issues single state-changing calls against lending pools.
//
// Each call connects to the configured network, resolves the pool contract by
// interface name and submits one transaction, waiting for it to be mined. Failures
// at any step are returned to the caller and later steps are skipped. Nothing is
// retried and no connection is kept between calls.
package pool_invoker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
	"github.com/archon-research/stl/stl-lend/internal/pkg/blockchain/abis"
	"github.com/archon-research/stl/stl-lend/internal/ports/inbound"
	"github.com/archon-research/stl/stl-lend/internal/ports/outbound"
)

const tracerName = "github.com/archon-research/stl/stl-lend/internal/services/pool_invoker"

// Compile-time check that Service implements inbound.PoolInvoker
var _ inbound.PoolInvoker = (*Service)(nil)

// DefaultCallerOverride is the sender address every borrow is issued from.
var DefaultCallerOverride = common.HexToAddress(entity.DefaultCallerAddress)

// Config holds the invoker configuration.
type Config struct {
	// Network is the network name passed to the connector.
	Network string

	// ContractInterface is the interface name pools are resolved under.
	ContractInterface string

	// CallerOverride is the from address for borrow calls.
	CallerOverride common.Address

	Logger *slog.Logger
}

// ConfigDefaults returns the local test network, the LendingPool interface and the default caller.
func ConfigDefaults() Config {
	return Config{
		Network:           entity.DefaultNetwork,
		ContractInterface: abis.LendingPoolInterface,
		CallerOverride:    DefaultCallerOverride,
		Logger:            slog.Default(),
	}
}

// Service invokes lending pool operations.
type Service struct {
	config    Config
	connector outbound.NetworkConnector
	sink      outbound.EventSink
	metrics   outbound.MetricsRecorder
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a new pool invoker. sink and metrics are optional.
func NewService(config Config, connector outbound.NetworkConnector, sink outbound.EventSink, metrics outbound.MetricsRecorder) (*Service, error) {
	if connector == nil {
		return nil, errors.New("network connector is required")
	}
	defaults := ConfigDefaults()
	if config.Network == "" {
		config.Network = defaults.Network
	}
	if config.ContractInterface == "" {
		config.ContractInterface = defaults.ContractInterface
	}
	if config.CallerOverride == (common.Address{}) {
		config.CallerOverride = defaults.CallerOverride
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Service{
		config:    config,
		connector: connector,
		sink:      sink,
		metrics:   metrics,
		logger:    config.Logger.With("component", "pool-invoker"),
		now:       time.Now,
	}, nil
}

// stepError marks which step of an invocation failed, for metrics.
type stepError struct {
	step string
	err  error
}

func (e *stepError) Error() string { return e.err.Error() }
func (e *stepError) Unwrap() error { return e.err }

// invoke runs connect, resolve and call in order. It stops at the first failure.
func (s *Service) invoke(
	ctx context.Context,
	op entity.PoolOperation,
	pool string,
	call func(ctx context.Context, handle outbound.LendingPool) (*types.Receipt, error),
) error {
	start := s.now()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "pool."+string(op),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("pool.network", s.config.Network),
			attribute.String("pool.address", pool),
			attribute.String("pool.interface", s.config.ContractInterface),
		),
	)
	defer span.End()

	receipt, chainID, err := s.run(ctx, pool, call)
	if err != nil {
		status := "call"
		var se *stepError
		if errors.As(err, &se) {
			status = se.step
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, status+" failed")
		s.recordInvocation(ctx, op, status, start)
		return err
	}
	span.SetAttributes(
		attribute.String("tx.hash", receipt.TxHash.Hex()),
		attribute.Int64("chain.id", chainID),
	)
	s.recordInvocation(ctx, op, "success", start)

	s.logger.Info("pool call mined",
		"operation", op,
		"pool", pool,
		"tx", receipt.TxHash.Hex(),
		"block", receipt.BlockNumber)

	s.publish(ctx, entity.InvocationEvent{
		Operation:   op,
		Network:     s.config.Network,
		ChainID:     chainID,
		Pool:        pool,
		TxHash:      receipt.TxHash.Hex(),
		BlockNumber: blockNumber(receipt),
		GasUsed:     receipt.GasUsed,
		SubmittedAt: start.UTC(),
	})
	return nil
}

func (s *Service) run(
	ctx context.Context,
	pool string,
	call func(ctx context.Context, handle outbound.LendingPool) (*types.Receipt, error),
) (*types.Receipt, int64, error) {
	session, err := s.connector.Connect(ctx, s.config.Network)
	if err != nil {
		return nil, 0, &stepError{step: "connect", err: fmt.Errorf("connecting to %s: %w", s.config.Network, err)}
	}
	defer session.Close()

	handle, err := session.GetContractAt(ctx, s.config.ContractInterface, pool)
	if err != nil {
		return nil, 0, &stepError{step: "resolve", err: fmt.Errorf("resolving %s at %s: %w", s.config.ContractInterface, pool, err)}
	}

	receipt, err := call(ctx, handle)
	if err != nil {
		return nil, 0, &stepError{step: "call", err: err}
	}
	return receipt, session.ChainID(), nil
}

// Borrow issues borrow(amount) on pool from the configured caller override.
func (s *Service) Borrow(ctx context.Context, pool string, amount *big.Int) error {
	return s.invoke(ctx, entity.OperationBorrow, pool, func(ctx context.Context, handle outbound.LendingPool) (*types.Receipt, error) {
		receipt, err := handle.Borrow(ctx, amount, s.config.CallerOverride)
		if err != nil {
			return nil, fmt.Errorf("borrow %s on %s: %w", amount, pool, err)
		}
		return receipt, nil
	})
}

// RequestWithdraw issues requestWithdraw(tokenID, amount) on pool.
func (s *Service) RequestWithdraw(ctx context.Context, pool string, tokenID, amount *big.Int) error {
	return s.invoke(ctx, entity.OperationRequestWithdraw, pool, func(ctx context.Context, handle outbound.LendingPool) (*types.Receipt, error) {
		receipt, err := handle.RequestWithdraw(ctx, tokenID, amount)
		if err != nil {
			return nil, fmt.Errorf("requestWithdraw token %s amount %s on %s: %w", tokenID, amount, pool, err)
		}
		return receipt, nil
	})
}

func (s *Service) recordInvocation(ctx context.Context, op entity.PoolOperation, status string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordInvocation(ctx, string(op), status, s.now().Sub(start))
}

// publish notifies the sink. The transaction is already mined, so a sink
// failure is only logged.
func (s *Service) publish(ctx context.Context, event entity.InvocationEvent) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish invocation event", "tx", event.TxHash, "error", err)
	}
}

func blockNumber(r *types.Receipt) uint64 {
	if r.BlockNumber == nil {
		return 0
	}
	return r.BlockNumber.Uint64()
}
