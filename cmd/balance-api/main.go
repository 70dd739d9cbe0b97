// Package main serves the balance view over HTTP.
//
// The token list comes from a token-list file or Postgres (TOKEN_SOURCE), optionally
// cached in Redis (REDIS_ADDR). Every listed token is reported with a zero balance.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/archon-research/stl/stl-lend/internal/adapters/inbound/http"
	"github.com/archon-research/stl/stl-lend/internal/adapters/outbound/telemetry"
	"github.com/archon-research/stl/stl-lend/internal/app"
	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
	"github.com/archon-research/stl/stl-lend/internal/pkg/env"
	"github.com/archon-research/stl/stl-lend/internal/services/balance_view"
)

const shutdownTimeout = 10 * time.Second

func main() {
	addr := flag.String("addr", "", "Listen address (default: HTTP_ADDR or :8080)")
	network := flag.String("network", "", "Network whose tokens are listed (default: NETWORK or localhost)")
	flag.Parse()

	logger := app.Init()

	if *addr == "" {
		*addr = env.Get("HTTP_ADDR", ":8080")
	}
	if *network == "" {
		*network = env.Get("NETWORK", entity.DefaultNetwork)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *addr, *network); err != nil {
		logger.Error("balance api failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, addr, network string) error {
	shutdownTelemetry, err := app.StartTelemetry(ctx, "balance-api", logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	registry, err := app.Networks()
	if err != nil {
		return err
	}
	chainID, err := app.ChainID(registry, network)
	if err != nil {
		return err
	}

	tokens, err := app.NewTokenSource(ctx, chainID, logger)
	if err != nil {
		return err
	}
	defer tokens.Close()

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return err
	}
	svc, err := balance_view.NewService(tokens.Source, metrics, logger)
	if err != nil {
		return err
	}

	cfg := httpapi.ServerConfigDefaults()
	cfg.Addr = addr
	cfg.Logger = logger
	server := httpapi.NewServer(cfg, svc, svc)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(ln) }()

	logger.Info("balance api started", "addr", ln.Addr().String(), "network", network, "chainID", chainID)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	return server.Shutdown(shutdownTimeout)
}
