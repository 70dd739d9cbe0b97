// Package main issues one borrow(amount) call against a lending pool on a test network.
//
// Usage:
//
//	pool-borrow -pool 0x5FbDB2315678afecb367f032d93F642f64180aa3 -amount 100
//
// The call is sent from the caller override (CALLER_ADDRESS, default the first
// local dev account) and the command exits once the transaction is mined.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"github.com/archon-research/stl/stl-lend/internal/app"
	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
	"github.com/archon-research/stl/stl-lend/internal/pkg/env"
)

func main() {
	pool := flag.String("pool", "", "Lending pool address")
	amount := flag.String("amount", "", "Amount to borrow in base units (decimal or 0x hex)")
	network := flag.String("network", "", "Network name (default: NETWORK or localhost)")
	flag.Parse()

	logger := app.Init()

	if *network == "" {
		*network = env.Get("NETWORK", entity.DefaultNetwork)
	}
	if *pool == "" {
		*pool = env.Get("POOL_ADDRESS", "")
	}
	if *pool == "" {
		logger.Error("pool not provided (use -pool flag or POOL_ADDRESS env var)")
		os.Exit(2)
	}
	amt, err := app.ParseAmount("amount", *amount)
	if err != nil {
		logger.Error("invalid arguments", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *network, *pool, amt); err != nil {
		logger.Error("borrow failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, network, pool string, amount *big.Int) error {
	shutdown, err := app.StartTelemetry(ctx, "pool-borrow", logger)
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

	inv, err := app.NewInvoker(ctx, network, logger)
	if err != nil {
		return err
	}
	defer inv.Close()

	logger.Info("borrowing", "network", network, "pool", pool, "amount", amount)
	return inv.Service.Borrow(ctx, pool, amount)
}
