// Package redis provides a Redis read-through cache for token lists.
//
// The list for a chain is stored as one JSON value under prefix:tokens:chainID
// and expires after the configured TTL. Redis failures never fail a read; the
// wrapped source is consulted instead.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
	"github.com/archon-research/stl/stl-lend/internal/ports/outbound"
)

// Compile-time check that TokenCache implements outbound.TokenSource
var _ outbound.TokenSource = (*TokenCache)(nil)

// Config holds Redis cache configuration.
type Config struct {
	// Addr is the Redis server address (e.g., "localhost:6379")
	Addr string
	// Password for Redis authentication (empty for no auth)
	Password string
	// DB is the Redis database number (0-15)
	DB int
	// TTL is how long a cached token list lives before expiring
	TTL time.Duration
	// KeyPrefix is prepended to all cache keys
	KeyPrefix string
	// DialTimeout bounds connection attempts. Zero uses the client default.
	DialTimeout time.Duration
}

// ConfigDefaults returns sensible defaults for Redis cache configuration.
func ConfigDefaults() Config {
	return Config{
		Addr:      "localhost:6379",
		Password:  "",
		DB:        0,
		TTL:       5 * time.Minute,
		KeyPrefix: "stl-lend",
	}
}

// TokenCache caches the token list of another source.
type TokenCache struct {
	client    *redis.Client
	source    outbound.TokenSource
	chainID   int64
	ttl       time.Duration
	keyPrefix string
	logger    *slog.Logger
}

// NewTokenCache creates a read-through cache in front of source for chainID.
func NewTokenCache(cfg Config, source outbound.TokenSource, chainID int64, logger *slog.Logger) (*TokenCache, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	if source == nil {
		return nil, fmt.Errorf("token source is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	if logger == nil {
		logger = slog.Default()
	}

	return &TokenCache{
		client:    client,
		source:    source,
		chainID:   chainID,
		ttl:       cfg.TTL,
		keyPrefix: cfg.KeyPrefix,
		logger:    logger.With("component", "redis-token-cache"),
	}, nil
}

// Ping checks the Redis connection.
func (c *TokenCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *TokenCache) Close() error {
	return c.client.Close()
}

// key returns prefix:tokens:chainID
func (c *TokenCache) key() string {
	return fmt.Sprintf("%s:tokens:%d", c.keyPrefix, c.chainID)
}

// ListTokens returns the cached list, loading and storing it from the source on a miss.
func (c *TokenCache) ListTokens(ctx context.Context) ([]entity.Token, error) {
	tokens, hit, err := c.get(ctx)
	if err != nil {
		c.logger.Warn("token cache read failed, using source", "key", c.key(), "error", err)
	} else if hit {
		return tokens, nil
	}

	tokens, err = c.source.ListTokens(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.set(ctx, tokens); err != nil {
		c.logger.Warn("token cache write failed", "key", c.key(), "error", err)
	}
	return tokens, nil
}

// Invalidate drops the cached list so the next read goes to the source.
func (c *TokenCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key()).Err(); err != nil {
		return fmt.Errorf("failed to invalidate token cache: %w", err)
	}
	return nil
}

func (c *TokenCache) get(ctx context.Context) ([]entity.Token, bool, error) {
	data, err := c.client.Get(ctx, c.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get token list: %w", err)
	}

	var tokens []entity.Token
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached token list: %w", err)
	}
	return tokens, true, nil
}

func (c *TokenCache) set(ctx context.Context, tokens []entity.Token) error {
	if tokens == nil {
		tokens = []entity.Token{}
	}
	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("failed to encode token list: %w", err)
	}
	if err := c.client.Set(ctx, c.key(), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache token list: %w", err)
	}
	return nil
}
