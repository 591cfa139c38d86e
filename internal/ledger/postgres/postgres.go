// Package postgres implements the ledger.RowBackend protocol backed by
// PostgreSQL. The sheet is modeled as an append-only table whose serial
// row_num column is the positional handle; the sequence starts at 2 so that
// data rows line up with sheet positions below the reserved header row.
// Nothing in this package ever deletes or reorders rows.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/cancelitnow/cancelbot/internal/ledger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Backend implements ledger.RowBackend backed by a PostgreSQL database.
type Backend struct {
	db *sql.DB
}

// Compile-time check that Backend implements ledger.RowBackend.
var _ ledger.RowBackend = (*Backend)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*Backend, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Backend{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (b *Backend) Close() error {
	return b.db.Close()
}

func (b *Backend) AppendRow(ctx context.Context, cells [ledger.NumColumns]string) (int, error) {
	return queryAppendRow(ctx, b.db, cells)
}

func (b *Backend) ReadAllRows(ctx context.Context) ([][ledger.NumColumns]string, error) {
	return queryReadAllRows(ctx, b.db)
}

func (b *Backend) UpdateCell(ctx context.Context, row, col int, value string) error {
	return queryUpdateCell(ctx, b.db, row, col, value)
}
