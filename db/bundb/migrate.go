package bundb

import (
	"context"
	"fmt"
	"log/slog"

	handicapmigrations "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Migrators returns the bun migrators for every module, keyed by module name.
func Migrators(db *bun.DB) map[string]*migrate.Migrator {
	return map[string]*migrate.Migrator{
		"handicap": migrate.NewMigrator(db, handicapmigrations.Migrations),
	}
}

// RunMigrations brings the schema fully up to date: River's tables first, then every module.
func RunMigrations(ctx context.Context, db *bun.DB, dsn string, logger *slog.Logger) error {
	if err := RunRiverMigrations(ctx, dsn, logger); err != nil {
		return err
	}

	for name, migrator := range Migrators(db) {
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to initialize %s migration tables: %w", name, err)
		}
		group, err := migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", name, err)
		}
		if group.IsZero() {
			logger.Info("No new migrations to run", attr.String("module", name))
		} else {
			logger.Info("Ran migrations", attr.String("module", name), attr.String("group", group.String()))
		}
	}
	return nil
}

// RunRiverMigrations applies River's queue schema using its own pgx pool.
func RunRiverMigrations(ctx context.Context, dsn string, logger *slog.Logger) error {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("failed to parse DSN for River migrations: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool for River migrations: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}

	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{})
	if err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}

	logger.Info("River queue migrations completed", attr.Int("versions_applied", len(res.Versions)))
	return nil
}
