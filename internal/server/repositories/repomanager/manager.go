package repomanager

import (
	"context"
	"database/sql"

	"github.com/finiam/notes-app/internal/dbx"
	"github.com/finiam/notes-app/internal/server/repositories/folders"
	"github.com/finiam/notes-app/internal/server/repositories/notes"
	"github.com/finiam/notes-app/internal/server/repositories/snapshots"
	"github.com/finiam/notes-app/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or a
// transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Folders(db dbx.DBTX) folders.Repository
	Notes(db dbx.DBTX) notes.Repository
	Snapshots(db dbx.DBTX) snapshots.Repository
}
