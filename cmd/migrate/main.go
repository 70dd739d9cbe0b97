// Package main applies the SQL migrations in db/migrations.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/archon-research/stl/stl-lend/db/migrator"
	"github.com/archon-research/stl/stl-lend/internal/adapters/outbound/postgres"
	"github.com/archon-research/stl/stl-lend/internal/app"
	"github.com/archon-research/stl/stl-lend/internal/pkg/env"
)

func main() {
	dir := flag.String("dir", "./db/migrations", "Migrations directory")
	flag.Parse()

	logger := app.Init()

	connStr := env.Get("DATABASE_URL", "")
	if connStr == "" {
		logger.Error("required environment variable not set", "key", "DATABASE_URL")
		os.Exit(2)
	}
	ctx := context.Background()

	pool, err := postgres.OpenPool(ctx, postgres.DefaultDBConfig(connStr))
	if err != nil {
		logger.Error("failed to connect", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	applied, err := migrator.New(pool, *dir, logger).ApplyAll(ctx)
	if err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	logger.Info("all migrations up to date", "applied", len(applied))
}
