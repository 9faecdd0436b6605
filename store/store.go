// Package store persists extracted sections to SQLite so runs can be
// inspected and compared after the fact. Each record carries one variable's
// slice along a section footprint: the trace, the along-section and vertical
// coordinates, and the data payload compressed with gob+gzip. The schema is
// managed by embedded golang-migrate migrations applied on Open.
package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/crevasse-data/strata.report/internal/monitoring"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// pragmas applied to every opened database. WAL plus a busy timeout keeps
// concurrent readers from tripping over a writer.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=MEMORY",
	"PRAGMA foreign_keys=ON",
}

// Store provides persistence for extracted section records.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the section database at path, applies the
// connection pragmas and brings the schema up to the latest migration.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open section store: %w", err)
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	st := &Store{db: db}
	if err := st.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

// Close releases the database handle.
func (st *Store) Close() error { return st.db.Close() }

// SchemaVersion returns the current migration version and dirty state.
// Returns 0, false, nil if no migrations have been applied yet.
func (st *Store) SchemaVersion() (version uint, dirty bool, err error) {
	m, err := st.newMigrate()
	if err != nil {
		return 0, false, err
	}
	version, dirty, err = m.Version()
	if err != nil && errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// migrateUp runs all pending migrations. A database already at the latest
// version is not an error.
func (st *Store) migrateUp() error {
	m, err := st.newMigrate()
	if err != nil {
		return err
	}
	// The migrate instance is not closed here: closing it would close the
	// shared *sql.DB. It is garbage collected when no longer referenced.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// newMigrate builds a migrate instance over the embedded migrations and the
// store's database handle.
func (st *Store) newMigrate() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(st.db, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = &migrateLogger{}
	return m, nil
}

// migrateLogger implements migrate.Logger interface
type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	monitoring.Logf("[migrate] "+format, v...)
}

func (l *migrateLogger) Verbose() bool {
	return false
}
