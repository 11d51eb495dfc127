package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"harbor-control/config"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// newMigrator wires the embedded SQL for driver onto an open connection.
func newMigrator(db *sql.DB, driver string) (*migrate.Migrate, error) {
	dir := "migrations/sqlite"
	name := "sqlite3"
	var (
		target migratedb.Driver
		err    error
	)
	switch driver {
	case config.DriverPostgres:
		dir, name = "migrations/postgres", "postgres"
		target, err = postgres.WithInstance(db, &postgres.Config{})
	default:
		target, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("load migration files: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, name, target)
	if err != nil {
		return nil, fmt.Errorf("init migrator: %w", err)
	}
	return m, nil
}

// RunMigrations applies every pending up migration.
func RunMigrations(db *sql.DB, driver string, logger *zap.Logger) error {
	m, err := newMigrator(db, driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	if dirty {
		logger.Warn("migrations left in dirty state", zap.Uint("version", version))
	} else {
		logger.Info("migrations applied", zap.Uint("version", version))
	}

	return nil
}

// RollbackMigrations reverts the last steps migrations.
func RollbackMigrations(db *sql.DB, driver string, steps int, logger *zap.Logger) error {
	m, err := newMigrator(db, driver)
	if err != nil {
		return err
	}

	if err := m.Steps(-steps); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("rollback migrations: %w", err)
	}

	version, _, _ := m.Version()
	logger.Info("migrations rolled back", zap.Int("steps", steps), zap.Uint("version", version))
	return nil
}
