// Package postgres provides the PostgreSQL connection pool, schema
// migrations and, in the repositories sub-package, the feed repository.
package postgres

import (
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // Postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // File source driver

	"github.com/turtacn/JurisCompare/pkg/errors"
)

// MigrationState is the schema version recorded in the database.
type MigrationState struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

// newMigrate is a variable to allow stubbing in tests.
var newMigrate = func(sourceURL, dbURL string) (migrator, error) {
	return migrate.New(sourceURL, dbURL)
}

// migrator is the subset of *migrate.Migrate used here.
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Force(version int) error
	Version() (uint, bool, error)
	Close() (error, error)
}

func openMigrator(dbURL, sourceURL string) (migrator, error) {
	m, err := newMigrate(sourceURL, dbURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create migrate instance").WithDetail("source=" + sourceURL)
	}
	return m, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Up
// ─────────────────────────────────────────────────────────────────────────────

// MigrateUp applies every pending migration.  No pending migration is not an
// error.
func MigrateUp(dbURL, sourceURL string) error {
	m, err := openMigrator(dbURL, sourceURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to run migrations")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Down
// ─────────────────────────────────────────────────────────────────────────────

// MigrateDown rolls the schema back by steps migrations.
func MigrateDown(dbURL, sourceURL string, steps int) error {
	if steps <= 0 {
		return errors.Newf(errors.ErrCodeBadRequest, "steps must be greater than 0, got %d", steps)
	}
	m, err := openMigrator(dbURL, sourceURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return errors.New(errors.ErrCodeConflict, "no migrations to roll back")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to roll back migrations").WithDetailf("steps=%d", steps)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Status
// ─────────────────────────────────────────────────────────────────────────────

// Status reports the applied version.  A fresh database is version 0.
func Status(dbURL, sourceURL string) (MigrationState, error) {
	m, err := openMigrator(dbURL, sourceURL)
	if err != nil {
		return MigrationState{}, err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return MigrationState{}, nil
		}
		return MigrationState{}, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to get migration version")
	}
	return MigrationState{Version: version, Dirty: dirty}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Force
// ─────────────────────────────────────────────────────────────────────────────

// Force records version without running any migration.  Use it only to
// clear a dirty state after fixing the schema by hand.
func Force(dbURL, sourceURL string, version int) error {
	m, err := openMigrator(dbURL, sourceURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Force(version); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to force migration version").WithDetailf("version=%d", version)
	}
	return nil
}

//Personal.AI order the ending
