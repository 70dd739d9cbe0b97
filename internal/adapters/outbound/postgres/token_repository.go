package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
	"github.com/archon-research/stl/stl-lend/internal/ports/outbound"
)

// Compile-time check that TokenRepository implements outbound.TokenRepository
var _ outbound.TokenRepository = (*TokenRepository)(nil)

// TokenRepository stores the token list for one chain.
type TokenRepository struct {
	db        *sql.DB
	chainID   int64
	logger    *slog.Logger
	batchSize int
}

// NewTokenRepository creates a token repository scoped to chainID.
// If batchSize is <= 0, the default batch size from DefaultRepositoryConfig() is used.
func NewTokenRepository(db *sql.DB, chainID int64, logger *slog.Logger, batchSize int) (*TokenRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	if chainID <= 0 {
		return nil, fmt.Errorf("chainID must be positive, got %d", chainID)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if batchSize <= 0 {
		batchSize = DefaultRepositoryConfig().TokenBatchSize
	}
	return &TokenRepository{
		db:        db,
		chainID:   chainID,
		logger:    logger.With("component", "token-repository"),
		batchSize: batchSize,
	}, nil
}

// ListTokens returns the chain's tokens ordered by insertion.
func (r *TokenRepository) ListTokens(ctx context.Context) ([]entity.Token, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT chain_id, address, symbol, name, decimals
		 FROM token
		 WHERE chain_id = $1
		 ORDER BY id`,
		r.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tokens: %w", err)
	}
	defer rows.Close()

	var tokens []entity.Token
	for rows.Next() {
		var t entity.Token
		if err := rows.Scan(&t.ChainID, &t.Address, &t.Symbol, &t.Name, &t.Decimals); err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tokens: %w", err)
	}
	return tokens, nil
}

// UpsertTokens upserts token records in batches atomically.
// All records are written in a single transaction; if any batch fails, all changes are rolled back.
// Tokens for other chains are rejected.
func (r *TokenRepository) UpsertTokens(ctx context.Context, tokens []*entity.Token) error {
	if len(tokens) == 0 {
		return nil
	}
	for _, t := range tokens {
		if t == nil {
			return fmt.Errorf("nil token in batch")
		}
		if t.ChainID != r.chainID {
			return fmt.Errorf("token %s is for chain %d, repository is for chain %d", t.Address, t.ChainID, r.chainID)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx, r.logger)

	for i := 0; i < len(tokens); i += r.batchSize {
		end := min(i+r.batchSize, len(tokens))
		if err := r.upsertTokenBatch(ctx, tx, tokens[i:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	r.logger.Info("tokens upserted", "chainID", r.chainID, "count", len(tokens))
	return nil
}

func (r *TokenRepository) upsertTokenBatch(ctx context.Context, tx *sql.Tx, tokens []*entity.Token) error {
	query, args := buildTokenUpsert(tokens)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert token batch: %w", err)
	}
	return nil
}

// buildTokenUpsert renders a multi-row upsert. Later duplicates in the same
// batch would make Postgres reject the statement, so only the last occurrence
// of an address is kept.
func buildTokenUpsert(tokens []*entity.Token) (string, []any) {
	last := make(map[string]int, len(tokens))
	for i, t := range tokens {
		last[t.Address] = i
	}

	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO token (chain_id, address, symbol, name, decimals, updated_at)
		VALUES `)

	args := make([]any, 0, len(last)*5)
	n := 0
	for i, t := range tokens {
		if last[t.Address] != i {
			continue
		}
		if n > 0 {
			sb.WriteString(", ")
		}
		base := n * 5
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, NOW())", base+1, base+2, base+3, base+4, base+5)
		args = append(args, t.ChainID, t.Address, t.Symbol, t.Name, t.Decimals)
		n++
	}

	sb.WriteString(`
		ON CONFLICT (chain_id, address) DO UPDATE SET
			symbol = EXCLUDED.symbol,
			name = EXCLUDED.name,
			decimals = EXCLUDED.decimals,
			updated_at = NOW()`)

	return sb.String(), args
}
