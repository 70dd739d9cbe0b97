// Package main loads a token-list file into Postgres for one network.
//
// Usage:
//
//	token-import -file tokens.json -network localhost
//
// When REDIS_ADDR is set, the cached token list for the chain is dropped after
// the import so running balance APIs pick up the new list.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/archon-research/stl/stl-lend/internal/adapters/outbound/postgres"
	"github.com/archon-research/stl/stl-lend/internal/adapters/outbound/tokenlist"
	"github.com/archon-research/stl/stl-lend/internal/app"
	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
	"github.com/archon-research/stl/stl-lend/internal/pkg/env"
)

func main() {
	file := flag.String("file", "", "Token-list file (JSON or YAML)")
	network := flag.String("network", "", "Network to import tokens for (default: NETWORK or localhost)")
	dbURL := flag.String("db", "", "PostgreSQL connection URL (default: DATABASE_URL)")
	batchSize := flag.Int("batch", 0, "Rows per INSERT statement")
	flag.Parse()

	logger := app.Init()

	if *file == "" {
		*file = env.Get("TOKEN_LIST_PATH", "")
	}
	if *file == "" {
		logger.Error("token list not provided (use -file flag or TOKEN_LIST_PATH env var)")
		os.Exit(2)
	}
	if *network == "" {
		*network = env.Get("NETWORK", entity.DefaultNetwork)
	}
	if *dbURL == "" {
		*dbURL = env.Get("DATABASE_URL", "")
	}
	if *dbURL == "" {
		logger.Error("database URL not provided (use -db flag or DATABASE_URL env var)")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *file, *network, *dbURL, *batchSize); err != nil {
		logger.Error("token import failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, file, network, dbURL string, batchSize int) error {
	registry, err := app.Networks()
	if err != nil {
		return err
	}
	chainID, err := app.ChainID(registry, network)
	if err != nil {
		return err
	}

	list, err := tokenlist.Load(file)
	if err != nil {
		return err
	}
	tokens, err := list.ForChain(chainID)
	if err != nil {
		return err
	}
	logger.Info("token list loaded", "file", file, "list", list.Name, "entries", list.Len(), "chainID", chainID, "matching", len(tokens))
	if len(tokens) == 0 {
		logger.Warn("no tokens for chain in list", "file", file, "chainID", chainID)
		return nil
	}

	db, err := postgres.OpenDB(ctx, postgres.DefaultDBConfig(dbURL))
	if err != nil {
		return err
	}
	defer db.Close()

	repo, err := postgres.NewTokenRepository(db, chainID, logger, batchSize)
	if err != nil {
		return err
	}

	rows := make([]*entity.Token, len(tokens))
	for i := range tokens {
		rows[i] = &tokens[i]
	}
	if err := repo.UpsertTokens(ctx, rows); err != nil {
		return err
	}
	logger.Info("tokens imported", "file", file, "network", network, "count", len(rows))

	invalidated, err := app.InvalidateTokenCache(ctx, repo, chainID, logger)
	if err != nil {
		return fmt.Errorf("tokens imported but cache not invalidated: %w", err)
	}
	if invalidated {
		logger.Info("token cache invalidated", "chainID", chainID)
	}
	return nil
}
