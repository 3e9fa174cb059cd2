package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file" // file:// migration source
	_ "github.com/jackc/pgx/v5/stdlib"                   // database/sql pgx driver
)

// Migrator runs schema migrations from SQL files.
type Migrator struct {
	db *sql.DB
	m  *migrate.Migrate
}

// NewMigrator opens a database/sql connection (required by golang-migrate)
// and prepares a migrator reading from sourcePath.
func NewMigrator(dsn, sourcePath string) (*Migrator, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+sourcePath, "pgx", driver)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create migrator: %w", err)
	}

	return &Migrator{db: db, m: m}, nil
}

// Up applies all pending migrations. Already up to date is not an error.
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down() error {
	return m.m.Steps(-1)
}

// Version returns the current schema version.
func (m *Migrator) Version() (uint, bool, error) {
	return m.m.Version()
}

// Close releases the migrator and the underlying connection.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	if closeErr := m.db.Close(); closeErr != nil && dbErr == nil {
		dbErr = closeErr
	}
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}
