package outbound

import (
	"context"

	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
)

// TokenSource supplies the list of known tokens.
// Implementations must not mutate the returned tokens after handing them out.
type TokenSource interface {
	// ListTokens returns the known tokens in source order.
	// A nil slice with a nil error means the source has no tokens.
	ListTokens(ctx context.Context) ([]entity.Token, error)
}

// TokenRepository is a TokenSource that can also be written to.
type TokenRepository interface {
	TokenSource

	// UpsertTokens upserts token records.
	// Conflict resolution: ON CONFLICT (chain_id, address) DO UPDATE
	UpsertTokens(ctx context.Context, tokens []*entity.Token) error
}
