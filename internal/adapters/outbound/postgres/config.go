package postgres

// RepositoryConfig holds configuration for repository batch operations.
type RepositoryConfig struct {
	// TokenBatchSize controls the number of token rows written per INSERT statement.
	// Default: 500
	TokenBatchSize int
}

// DefaultRepositoryConfig returns a RepositoryConfig with sensible defaults.
func DefaultRepositoryConfig() RepositoryConfig {
	return RepositoryConfig{
		// 500 tokens * 5 params = 2500 parameters per batch, well under the 65535 limit
		TokenBatchSize: 500,
	}
}
