// Package app holds the process wiring shared by the stl-lend commands:
// environment loading, logging, telemetry, and selection of adapters from
// environment variables.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/archon-research/stl/stl-lend/internal/adapters/outbound/ethereum"
	"github.com/archon-research/stl/stl-lend/internal/adapters/outbound/telemetry"
	"github.com/archon-research/stl/stl-lend/internal/pkg/env"
)

// Init loads .env files and installs a text logger at LOG_LEVEL as the default.
func Init() *slog.Logger {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: env.ParseLogLevel(slog.LevelInfo),
	}))
	slog.SetDefault(logger)
	return logger
}

// StartTelemetry initialises metrics and tracing from OTEL_EXPORTER_OTLP_ENDPOINT
// and OTEL_TRACES_ENDPOINT. The returned function flushes both.
func StartTelemetry(ctx context.Context, serviceName string, logger *slog.Logger) (func(context.Context), error) {
	version := env.Get("SERVICE_VERSION", "0.1.0")
	environment := env.Get("ENVIRONMENT", "development")

	shutdownMetrics, err := telemetry.InitMetrics(ctx, telemetry.MetricConfig{
		ServiceName:    serviceName,
		ServiceVersion: version,
		Environment:    environment,
		OTLPEndpoint:   env.Get("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	})
	if err != nil {
		return nil, fmt.Errorf("initialising metrics: %w", err)
	}

	shutdownTracer, err := telemetry.InitTracer(ctx, telemetry.TracerConfig{
		ServiceName:    serviceName,
		ServiceVersion: version,
		Environment:    environment,
		Endpoint:       env.Get("OTEL_TRACES_ENDPOINT", ""),
	})
	if err != nil {
		_ = shutdownMetrics(ctx)
		return nil, fmt.Errorf("initialising tracing: %w", err)
	}

	return func(ctx context.Context) {
		if err := errors.Join(shutdownTracer(ctx), shutdownMetrics(ctx)); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}, nil
}

// Networks returns the network registry from NETWORKS_CONFIG, or the built-in one.
func Networks() (*ethereum.Registry, error) {
	path := env.Get("NETWORKS_CONFIG", "")
	if path == "" {
		return ethereum.DefaultRegistry(), nil
	}
	reg, err := ethereum.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("loading networks from %s: %w", path, err)
	}
	return reg, nil
}

// ChainID resolves the chain for a network name through the registry.
func ChainID(registry *ethereum.Registry, network string) (int64, error) {
	n, ok := registry.Lookup(network)
	if !ok {
		return 0, fmt.Errorf("unknown network %q (known: %v)", network, registry.Names())
	}
	return n.ChainID, nil
}
