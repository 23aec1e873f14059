package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finiam/notes-app/internal/common"
	"github.com/finiam/notes-app/internal/server/models"
)

func newPGRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgres_CreateAndGet(t *testing.T) {
	repo, mock := newPGRepo(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+shared_snapshots\s*\(encrypted_name,\s*encrypted_content,\s*encrypted_tags\)`).
		WithArgs("n", "c", "t").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("s-1", now))

	created, err := repo.Create(context.Background(), &models.Snapshot{EncryptedName: "n", EncryptedContent: "c", EncryptedTags: "t"})
	require.NoError(t, err)
	assert.Equal(t, "s-1", created.ID)

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*encrypted_name.*FROM\s+shared_snapshots\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("s-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "encrypted_name", "encrypted_content", "encrypted_tags", "created_at"}).
			AddRow("s-1", "n", "c", "t", now))

	got, err := repo.Get(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "c", got.EncryptedContent)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Errors(t *testing.T) {
	repo, mock := newPGRepo(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+shared_snapshots`).WillReturnError(errors.New("down"))
	_, err := repo.Create(context.Background(), &models.Snapshot{})
	require.ErrorContains(t, err, "db error: down")

	mock.ExpectQuery(`FROM\s+shared_snapshots`).WillReturnError(sql.ErrNoRows)
	_, err = repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectQuery(`FROM\s+shared_snapshots`).WillReturnError(errors.New("down"))
	_, err = repo.Get(context.Background(), "s-1")
	require.ErrorContains(t, err, "db error: down")
}
