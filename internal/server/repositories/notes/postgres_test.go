package notes

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finiam/notes-app/internal/common"
	"github.com/finiam/notes-app/internal/server/models"
)

var cols = []string{"id", "name", "slug", "content", "tags", "folder_id", "owner", "created_at", "updated_at"}

func newRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func ptr(s string) *string { return &s }

func TestCreate(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+notes\s*\(name,\s*slug,\s*folder_id,\s*owner\)\s*SELECT.*FROM\s+folders\s+f\s+WHERE\s+f\.id\s*=\s*\$3\s+AND\s+f\.owner\s*=\s*\$4`).
		WithArgs("Trip Plan", "trip-plan", "f-1", "o-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("n-1", "Trip Plan", "trip-plan", "", "", "f-1", "o-1", now, now))

	got, err := repo.Create(context.Background(), &models.Note{Name: "Trip Plan", Slug: "trip-plan", FolderID: "f-1", Owner: "o-1"})
	require.NoError(t, err)
	assert.Equal(t, "n-1", got.ID)
	assert.Equal(t, "", got.Content)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ForeignFolder(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+notes`).WillReturnError(sql.ErrNoRows)
	_, err := repo.Create(context.Background(), &models.Note{Name: "x", Slug: "x", FolderID: "f-9", Owner: "o-1"})
	require.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectQuery(`INSERT\s+INTO\s+notes`).WillReturnError(&pgconn.PgError{Code: "22P02"})
	_, err = repo.Create(context.Background(), &models.Note{Name: "x", Slug: "x", FolderID: "not-a-uuid", Owner: "o-1"})
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListByOwner(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+notes\s+WHERE\s+owner\s*=\s*\$1`).
		WithArgs("o-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("n-1", "A", "a", "c1", "t1", "f-1", "o-1", now, now).
			AddRow("n-2", "B", "b", "", "", "f-1", "o-1", now, now))

	got, err := repo.ListByOwner(context.Background(), "o-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].Content)
	assert.Equal(t, "n-2", got[1].ID)
}

func TestListByOwner_DBError(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`FROM\s+notes`).WillReturnError(errors.New("down"))

	_, err := repo.ListByOwner(context.Background(), "o-1")
	require.ErrorContains(t, err, "failed to select notes: down")
}

func TestUpdate_PartialFields(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)^UPDATE\s+notes\s+SET.*COALESCE\(\$3,\s*name\).*COALESCE\(\$6,\s*tags\).*WHERE\s+id\s*=\s*\$1\s+AND\s+owner\s*=\s*\$2`).
		WithArgs("n-1", "o-1", nil, nil, nil, "enc-tags").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("n-1", "A", "a", "c1", "enc-tags", "f-1", "o-1", now, now))

	got, err := repo.Update(context.Background(), &models.NoteUpdate{ID: "n-1", Owner: "o-1", Tags: ptr("enc-tags")})
	require.NoError(t, err)
	assert.Equal(t, "enc-tags", got.Tags)
	assert.Equal(t, "c1", got.Content)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`UPDATE\s+notes`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), &models.NoteUpdate{ID: "n-x", Owner: "o-1", Name: ptr("n")})
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(`DELETE\s+FROM\s+notes\s+WHERE\s+id\s*=\s*\$1\s+AND\s+owner\s*=\s*\$2`).
		WithArgs("n-1", "o-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "n-1", "o-1"))

	mock.ExpectExec(`DELETE\s+FROM\s+notes`).
		WithArgs("n-1", "o-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Delete(context.Background(), "n-1", "o-1"), common.ErrorNotFound)

	mock.ExpectExec(`DELETE\s+FROM\s+notes`).WillReturnError(errors.New("down"))
	require.ErrorContains(t, repo.Delete(context.Background(), "n-1", "o-1"), "db error: down")

	mock.ExpectExec(`DELETE\s+FROM\s+notes`).WillReturnResult(sqlmock.NewErrorResult(errors.New("ra")))
	require.ErrorContains(t, repo.Delete(context.Background(), "n-1", "o-1"), "rows affected error")
}
