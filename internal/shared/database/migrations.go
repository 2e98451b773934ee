package database

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const createMigrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT NOW()
	)`

// RunMigrations applies every .sql file under dir, in lexical order, that is
// not yet recorded in schema_migrations. Each file runs in its own
// transaction together with its bookkeeping row.
func (db *DB) RunMigrations(ctx context.Context, dir string) error {
	logger := slog.With("component", "migrations", "dir", dir)
	logger.Info("Starting database migrations")

	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		logger.Error("Failed to create migrations table", "error", err)
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	files, err := migrationFiles(dir)
	if err != nil {
		logger.Error("Failed to list migration files", "error", err)
		return fmt.Errorf("failed to list migration files: %w", err)
	}

	applied := 0
	for _, file := range files {
		ran, err := db.applyMigration(ctx, file)
		if err != nil {
			logger.Error("Failed to apply migration", "migration", file, "error", err)
			return fmt.Errorf("failed to apply migration %s: %w", filepath.Base(file), err)
		}
		if ran {
			applied++
		}
	}

	logger.Info("Migrations complete", "found", len(files), "applied", applied)
	return nil
}

func migrationFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".sql") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// applyMigration reports whether file was run; files already recorded are skipped.
func (db *DB) applyMigration(ctx context.Context, file string) (bool, error) {
	version := filepath.Base(file)
	logger := slog.With("component", "migrations", "migration", version)

	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	if exists {
		logger.Debug("Migration already applied")
		return false, nil
	}

	content, err := os.ReadFile(file)
	if err != nil {
		return false, err
	}

	logger.Info("Running migration", "size_bytes", len(content))
	err = db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version)
		return err
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
