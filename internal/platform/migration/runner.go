// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the SQL schema through golang-migrate at
// startup, before any traffic is served.
//
// Migrations come from the files embedded in the binary unless a directory
// is configured, which lets operators hot-fix SQL without a rebuild.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/taibuivan/tsuzuri/data/migrations"
)

// RunUp applies all pending UP migrations.
//
// # Parameters
//   - dsn: A postgres:// URL or one already using the pgx5:// scheme.
//   - directory: Filesystem path to the migrations, empty for the embedded set.
//   - logger: Structured logger for migration events.
func RunUp(dsn string, directory string, logger *slog.Logger) error {
	migrator, err := open(dsn, directory)
	if err != nil {
		return err
	}
	defer closeMigrator(migrator, logger)

	migrator.Log = &migrateLogger{logger: logger, verbose: logger.Enabled(context.Background(), slog.LevelDebug)}

	from, err := version(migrator)
	if err != nil {
		return err
	}
	logger.Info("migration_started", slog.Uint64("current_version", uint64(from)), slog.String("source", sourceName(directory)))

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_already_up_to_date")
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	to, err := version(migrator)
	if err != nil {
		return err
	}
	logger.Info("migration_successful",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return nil
}

func open(dsn, directory string) (*migrate.Migrate, error) {
	databaseURL := toPgx5DSN(dsn)

	var (
		migrator *migrate.Migrate
		err      error
	)
	if directory != "" {
		migrator, err = migrate.New("file://"+directory, databaseURL)
	} else {
		source, sourceErr := iofs.New(migrations.Files, ".")
		if sourceErr != nil {
			return nil, fmt.Errorf("migration: embedded source: %w", sourceErr)
		}
		migrator, err = migrate.NewWithSourceInstance("iofs", source, databaseURL)
	}
	if err != nil {
		return nil, fmt.Errorf("migration: failed to initialize: %w", err)
	}
	return migrator, nil
}

// version returns the applied version, 0 on a fresh database.
// A dirty database needs manual repair and is refused.
func version(migrator *migrate.Migrate) (uint, error) {
	current, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("migration: failed to get current version: %w", err)
	}
	if dirty {
		return 0, fmt.Errorf("migration: database is dirty at version %d", current)
	}
	return current, nil
}

func closeMigrator(migrator *migrate.Migrate, logger *slog.Logger) {
	sourceError, dbError := migrator.Close()
	if sourceError != nil {
		logger.Error("migration_source_close_failed", slog.Any("error", sourceError))
	}
	if dbError != nil {
		logger.Error("migration_db_close_failed", slog.Any("error", dbError))
	}
}

func sourceName(directory string) string {
	if directory == "" {
		return "embedded"
	}
	return directory
}

// toPgx5DSN rewrites postgres:// URLs to the pgx5:// scheme the driver registers.
func toPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *migrateLogger) Verbose() bool {
	return l.verbose
}
