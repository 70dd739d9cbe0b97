package postgres

import (
	"database/sql"
	"errors"
	"log/slog"
)

// rollback rolls back the transaction and logs the error if it is not sql.ErrTxDone.
func rollback(tx *sql.Tx, logger *slog.Logger) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logger.Error("failed to rollback transaction", "error", err)
	}
}
