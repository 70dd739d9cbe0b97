package memory

import (
	"context"
	"sync"

	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
	"github.com/archon-research/stl/stl-lend/internal/ports/outbound"
)

var _ outbound.TokenRepository = (*TokenSource)(nil)

// TokenSource holds a token list in memory. Upserts replace tokens by address.
type TokenSource struct {
	mu     sync.RWMutex
	tokens []entity.Token
}

// NewTokenSource creates a source holding a copy of tokens.
func NewTokenSource(tokens ...entity.Token) *TokenSource {
	return &TokenSource{tokens: append([]entity.Token(nil), tokens...)}
}

// ListTokens returns a copy of the stored list.
func (s *TokenSource) ListTokens(_ context.Context) ([]entity.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Token(nil), s.tokens...), nil
}

// UpsertTokens replaces tokens with matching chain and address and appends the rest.
func (s *TokenSource) UpsertTokens(_ context.Context, tokens []*entity.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range tokens {
		if t == nil {
			continue
		}
		replaced := false
		for i := range s.tokens {
			if s.tokens[i].ChainID == t.ChainID && s.tokens[i].Address == t.Address {
				s.tokens[i] = *t
				replaced = true
				break
			}
		}
		if !replaced {
			s.tokens = append(s.tokens, *t)
		}
	}
	return nil
}
