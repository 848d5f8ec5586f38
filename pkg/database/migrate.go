package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsLockKey = "pokelookup_migrations_lock"

// RunMigrations applies all pending migrations to the database.
func RunMigrations(db *sql.DB, log *zap.Logger) error {
	ctx := context.Background()

	// Advisory locks belong to a session, the lock, the migration and the unlock share one connection.
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("could not get a connection for the migrations: %w", err)
	}
	defer conn.Close()

	// Acquire an advisory lock to prevent concurrent migrations between instances.
	var lockAcquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock(hashtext($1))", migrationsLockKey).Scan(&lockAcquired); err != nil {
		return fmt.Errorf("could not acquire advisory lock: %w", err)
	}

	if !lockAcquired {
		log.Info("another process is already running migrations, skipping")
		return nil
	}

	defer func() {
		var lockReleased bool
		err := conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock(hashtext($1))", migrationsLockKey).Scan(&lockReleased)
		if err != nil || !lockReleased {
			log.Error("could not release advisory lock", zap.Error(err))
		}
	}()

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("could not read the embedded migrations: %w", err)
	}

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	log.Info("migrations applied")
	return nil
}
