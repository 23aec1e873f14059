package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finiam/notes-app/internal/common"
	"github.com/finiam/notes-app/internal/logging"
	"github.com/finiam/notes-app/internal/server/models"
)

func TestSnapshotService(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeSnapshotsRepo{}
	svc := NewSnapshotService(db, &fakeRM{snapshots: repo}, logging.Nop())
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Snapshot{EncryptedName: "n", EncryptedContent: "", EncryptedTags: "t"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "n", got.EncryptedName)
	assert.Equal(t, "", got.EncryptedContent)

	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, err = svc.Get(ctx, "")
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = svc.Create(ctx, &models.Snapshot{})
	require.ErrorIs(t, err, common.ErrorValidation)

	repo.createErr = errors.New("s3 down")
	_, err = svc.Create(ctx, &models.Snapshot{EncryptedName: "n"})
	require.ErrorIs(t, err, common.ErrorInternal)

	repo.getErr = errors.New("s3 down")
	_, err = svc.Get(ctx, "s-1")
	require.ErrorIs(t, err, common.ErrorInternal)
}
