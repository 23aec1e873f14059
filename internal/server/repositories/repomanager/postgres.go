// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/finiam/notes-app/internal/dbx"
	"github.com/finiam/notes-app/internal/server/migrations"
	"github.com/finiam/notes-app/internal/server/repositories/folders"
	"github.com/finiam/notes-app/internal/server/repositories/notes"
	"github.com/finiam/notes-app/internal/server/repositories/snapshots"
	"github.com/finiam/notes-app/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook. Snapshots go to object storage when
// an S3 repository is configured.
type PostgresRepositoryManager struct {
	snapshotStore snapshots.Repository
}

// Option configures a PostgresRepositoryManager.
type Option func(*PostgresRepositoryManager)

// WithSnapshotStore makes Snapshots return store instead of the
// PostgreSQL table.
func WithSnapshotStore(store snapshots.Repository) Option {
	return func(m *PostgresRepositoryManager) { m.snapshotStore = store }
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Folders returns a folders.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Folders(db dbx.DBTX) folders.Repository {
	return folders.NewPostgresRepository(db)
}

// Notes returns a notes.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Notes(db dbx.DBTX) notes.Repository {
	return notes.NewPostgresRepository(db)
}

// Snapshots returns the configured snapshot store, or a PostgreSQL one
// bound to db.
func (m *PostgresRepositoryManager) Snapshots(db dbx.DBTX) snapshots.Repository {
	if m.snapshotStore != nil {
		return m.snapshotStore
	}
	return snapshots.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(opts ...Option) *PostgresRepositoryManager {
	m := &PostgresRepositoryManager{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
