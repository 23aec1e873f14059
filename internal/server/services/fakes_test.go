package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/finiam/notes-app/internal/common"
	"github.com/finiam/notes-app/internal/dbx"
	"github.com/finiam/notes-app/internal/server/config"
	"github.com/finiam/notes-app/internal/server/models"
	"github.com/finiam/notes-app/internal/server/repositories/folders"
	"github.com/finiam/notes-app/internal/server/repositories/notes"
	"github.com/finiam/notes-app/internal/server/repositories/snapshots"
	"github.com/finiam/notes-app/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour}
}

// --- users ---

type fakeUsersRepo struct {
	mu        sync.Mutex
	byID      map[string]*models.User
	getErr    error
	createErr error
	created   int
}

func newFakeUsersRepo() *fakeUsersRepo { return &fakeUsersRepo{byID: map[string]*models.User{}} }

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byID[u.Identity]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.created++
	cp := *u
	cp.ID = "u-1"
	f.byID[u.Identity] = &cp
	return &cp, nil
}

func (f *fakeUsersRepo) GetByIdentity(ctx context.Context, identity string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[identity]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

// --- notes / folders ---

type fakeNotesRepo struct {
	notes.Repository
	createOut *models.Note
	createErr error
	listOut   []*models.Note
	listErr   error
	updateOut *models.Note
	updateErr error
	deleteErr error

	lastUpdate *models.NoteUpdate
	lastDelete [2]string
}

func (f *fakeNotesRepo) Create(ctx context.Context, n *models.Note) (*models.Note, error) {
	return f.createOut, f.createErr
}

func (f *fakeNotesRepo) ListByOwner(ctx context.Context, owner string) ([]*models.Note, error) {
	return f.listOut, f.listErr
}

func (f *fakeNotesRepo) Update(ctx context.Context, u *models.NoteUpdate) (*models.Note, error) {
	f.lastUpdate = u
	return f.updateOut, f.updateErr
}

func (f *fakeNotesRepo) Delete(ctx context.Context, id, owner string) error {
	f.lastDelete = [2]string{id, owner}
	return f.deleteErr
}

type fakeFoldersRepo struct {
	createErr error
	listOut   []*models.Folder
	listErr   error
}

func (f *fakeFoldersRepo) Create(ctx context.Context, folder *models.Folder) (*models.Folder, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *folder
	cp.ID = "f-1"
	return &cp, nil
}

func (f *fakeFoldersRepo) ListByOwner(ctx context.Context, owner string) ([]*models.Folder, error) {
	return f.listOut, f.listErr
}

// --- snapshots ---

type fakeSnapshotsRepo struct {
	stored    map[string]*models.Snapshot
	createErr error
	getErr    error
}

func (f *fakeSnapshotsRepo) Create(ctx context.Context, s *models.Snapshot) (*models.Snapshot, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.stored == nil {
		f.stored = map[string]*models.Snapshot{}
	}
	cp := *s
	cp.ID = "s-1"
	f.stored[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeSnapshotsRepo) Get(ctx context.Context, id string) (*models.Snapshot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.stored[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s, nil
}

// fakeRM implements repomanager.RepositoryManager over the fakes above.
type fakeRM struct {
	users     *fakeUsersRepo
	notes     *fakeNotesRepo
	folders   *fakeFoldersRepo
	snapshots *fakeSnapshotsRepo
}

func (m *fakeRM) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRM) Users(dbx.DBTX) users.Repository               { return m.users }
func (m *fakeRM) Notes(dbx.DBTX) notes.Repository               { return m.notes }
func (m *fakeRM) Folders(dbx.DBTX) folders.Repository           { return m.folders }
func (m *fakeRM) Snapshots(dbx.DBTX) snapshots.Repository       { return m.snapshots }
