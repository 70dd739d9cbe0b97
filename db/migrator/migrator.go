// Package migrator applies the SQL files in db/migrations in filename order.
//
// Each applied file is recorded in the migrations table with a SHA-256 checksum.
// Re-running is a no-op for recorded files; a recorded file whose contents changed
// is an error.
package migrator

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bootstrapSQL = `
	CREATE TABLE IF NOT EXISTS migrations (
		id         SERIAL PRIMARY KEY,
		filename   TEXT        NOT NULL UNIQUE,
		checksum   TEXT,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

type Migrator struct {
	pool          *pgxpool.Pool
	migrationsDir string
	logger        *slog.Logger
}

func New(pool *pgxpool.Pool, migrationsDir string, logger *slog.Logger) *Migrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{
		pool:          pool,
		migrationsDir: migrationsDir,
		logger:        logger.With("component", "migrator"),
	}
}

// ApplyAll applies every pending migration. It returns the filenames applied by this call.
func (m *Migrator) ApplyAll(ctx context.Context) ([]string, error) {
	if _, err := m.pool.Exec(ctx, bootstrapSQL); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.appliedChecksums(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	files, err := MigrationFiles(m.migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get migration files: %w", err)
	}

	var newlyApplied []string
	for _, filename := range files {
		content, err := os.ReadFile(filepath.Join(m.migrationsDir, filename))
		if err != nil {
			return newlyApplied, fmt.Errorf("reading %s: %w", filename, err)
		}
		sum := Checksum(content)

		if stored, ok := applied[filename]; ok {
			if stored != "" && stored != sum {
				return newlyApplied, fmt.Errorf("checksum verification failed for %s: %w", filename,
					&ChecksumError{Expected: stored, Got: sum})
			}
			continue
		}

		if err := m.apply(ctx, filename, content, sum); err != nil {
			return newlyApplied, fmt.Errorf("failed to apply migration %s: %w", filename, err)
		}
		newlyApplied = append(newlyApplied, filename)
	}

	return newlyApplied, nil
}

func (m *Migrator) appliedChecksums(ctx context.Context) (map[string]string, error) {
	rows, err := m.pool.Query(ctx, "SELECT filename, COALESCE(checksum, '') FROM migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]string)
	for rows.Next() {
		var filename, checksum string
		if err := rows.Scan(&filename, &checksum); err != nil {
			return nil, err
		}
		applied[filename] = checksum
	}
	return applied, rows.Err()
}

func (m *Migrator) apply(ctx context.Context, filename string, content []byte, checksum string) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			m.logger.Warn("failed to rollback transaction", "file", filename, "error", err)
		}
	}()

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO migrations (filename, checksum) VALUES ($1, $2)
		ON CONFLICT (filename) DO UPDATE SET checksum = EXCLUDED.checksum`,
		filename, checksum)
	if err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	m.logger.Info("applied migration", "file", filename, "checksum", checksum[:8])
	return nil
}

// ListApplied returns recorded migrations in the order they were applied.
func (m *Migrator) ListApplied(ctx context.Context) ([]string, error) {
	rows, err := m.pool.Query(ctx, "SELECT filename FROM migrations ORDER BY applied_at ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var migrations []string
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, err
		}
		migrations = append(migrations, filename)
	}
	return migrations, rows.Err()
}

// MigrationFiles lists the .sql files in dir, sorted by name.
func MigrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		if strings.HasPrefix(entry.Name(), "README") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

// Checksum is the hex SHA-256 of a migration file.
func Checksum(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

// ChecksumError reports a recorded migration whose file has since changed.
type ChecksumError struct {
	Expected string
	Got      string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("migration has been modified (expected checksum %s, got %s)", e.Expected, e.Got)
}
