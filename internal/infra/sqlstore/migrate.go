package sqlstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// RunMigrations applies pending migrations for the given driver and returns
// the resulting schema version. It uses its own connection because the
// migrate driver closes the database it was given.
func RunMigrations(driver, dsn string) (uint, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return 0, err
	}
	if err := ensureDir(dialect, dsn); err != nil {
		return 0, err
	}

	migrateDB, err := sql.Open(dialect.driverName(), dialect.dsn(dsn))
	if err != nil {
		return 0, fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	var (
		dbDriver database.Driver
		dbName   string
	)
	switch dialect {
	case DialectPostgres:
		dbDriver, err = pgxmigrate.WithInstance(migrateDB, &pgxmigrate.Config{})
		dbName = "pgx5"
	default:
		dbDriver, err = sqlitemigrate.WithInstance(migrateDB, &sqlitemigrate.Config{})
		dbName = "sqlite"
	}
	if err != nil {
		return 0, fmt.Errorf("create %s migration driver: %w", dialect, err)
	}

	sub, err := fs.Sub(migrationsFS, "migrations/"+string(dialect))
	if err != nil {
		return 0, fmt.Errorf("open %s migrations: %w", dialect, err)
	}
	src, err := iofs.New(sub, ".")
	if err != nil {
		return 0, fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dbName, dbDriver)
	if err != nil {
		return 0, fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}
