package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/archon-research/stl/stl-lend/internal/adapters/outbound/postgres"
	"github.com/archon-research/stl/stl-lend/internal/adapters/outbound/redis"
	"github.com/archon-research/stl/stl-lend/internal/adapters/outbound/tokenlist"
	"github.com/archon-research/stl/stl-lend/internal/pkg/env"
	"github.com/archon-research/stl/stl-lend/internal/ports/outbound"
)

// Token source kinds accepted in TOKEN_SOURCE.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

const cachePingTimeout = 2 * time.Second

// TokenSource is a token source with the resources it owns.
type TokenSource struct {
	Source  outbound.TokenSource
	closers []func()
}

// Close releases cache and database handles.
func (t *TokenSource) Close() {
	for j := len(t.closers) - 1; j >= 0; j-- {
		t.closers[j]()
	}
}

// NewTokenSource wires the token source for chainID from the environment:
//
//	TOKEN_SOURCE     "file" (TOKEN_LIST_PATH) or "postgres" (DATABASE_URL)
//	REDIS_ADDR       when set, the source is wrapped in a read-through cache
//	TOKEN_CACHE_TTL  cache lifetime (default 5m)
func NewTokenSource(ctx context.Context, chainID int64, logger *slog.Logger) (*TokenSource, error) {
	ts := &TokenSource{}

	switch kind := env.Get("TOKEN_SOURCE", SourceFile); kind {
	case SourceFile:
		path := env.Get("TOKEN_LIST_PATH", "")
		if path == "" {
			return nil, fmt.Errorf("TOKEN_LIST_PATH is required for the file token source")
		}
		ts.Source = tokenlist.NewFile(path, chainID)

	case SourcePostgres:
		db, err := postgres.OpenDB(ctx, postgres.DefaultDBConfig(env.Get("DATABASE_URL", "")))
		if err != nil {
			return nil, err
		}
		ts.closers = append(ts.closers, func() { _ = db.Close() })
		repo, err := postgres.NewTokenRepository(db, chainID, logger, 0)
		if err != nil {
			ts.Close()
			return nil, err
		}
		ts.Source = repo

	default:
		return nil, fmt.Errorf("unknown TOKEN_SOURCE %q (want %q or %q)", kind, SourceFile, SourcePostgres)
	}

	cache, err := newTokenCache(ts.Source, chainID, logger)
	if err != nil {
		ts.Close()
		return nil, err
	}
	if cache != nil {
		pingCtx, cancel := context.WithTimeout(ctx, cachePingTimeout)
		if err := cache.Ping(pingCtx); err != nil {
			logger.Warn("token cache unreachable, reads fall back to the source", "error", err)
		}
		cancel()
		ts.closers = append(ts.closers, func() { _ = cache.Close() })
		ts.Source = cache
	}

	return ts, nil
}

// InvalidateTokenCache drops the cached token list for chainID so balance APIs
// sharing the cache read source again. It reports false without REDIS_ADDR.
func InvalidateTokenCache(ctx context.Context, source outbound.TokenSource, chainID int64, logger *slog.Logger) (bool, error) {
	cache, err := newTokenCache(source, chainID, logger)
	if err != nil || cache == nil {
		return false, err
	}
	defer cache.Close()

	if err := cache.Invalidate(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// newTokenCache wraps source in a Redis cache configured from REDIS_ADDR,
// REDIS_PASSWORD and TOKEN_CACHE_TTL. It returns nil when REDIS_ADDR is unset.
func newTokenCache(source outbound.TokenSource, chainID int64, logger *slog.Logger) (*redis.TokenCache, error) {
	addr := env.Get("REDIS_ADDR", "")
	if addr == "" {
		return nil, nil
	}
	cfg := redis.ConfigDefaults()
	cfg.Addr = addr
	cfg.Password = env.Get("REDIS_PASSWORD", "")
	cfg.TTL = env.GetDuration("TOKEN_CACHE_TTL", cfg.TTL)
	return redis.NewTokenCache(cfg, source, chainID, logger)
}
