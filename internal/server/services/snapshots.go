package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/finiam/notes-app/internal/common"
	"github.com/finiam/notes-app/internal/logging"
	"github.com/finiam/notes-app/internal/server/models"
	"github.com/finiam/notes-app/internal/server/repositories/repomanager"
)

// SnapshotService stores and serves shared snapshots. It never sees the
// key, so it cannot check that the fields decrypt.
type SnapshotService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewSnapshotService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *SnapshotService {
	return &SnapshotService{db: db, repomanager: m, logger: logger}
}

func (s *SnapshotService) Create(ctx context.Context, snap *models.Snapshot) (*models.Snapshot, error) {
	if snap.EncryptedName == "" {
		return nil, fmt.Errorf("%w: encrypted name is required", common.ErrorValidation)
	}
	for _, f := range []string{snap.EncryptedName, snap.EncryptedContent, snap.EncryptedTags} {
		if len(f) > maxFieldSize {
			return nil, fmt.Errorf("%w: field too large", common.ErrorValidation)
		}
	}

	created, err := s.repomanager.Snapshots(s.db).Create(ctx, snap)
	if err != nil {
		s.logger.Error(ctx, "create snapshot failed", "error", err)
		return nil, common.ErrorInternal
	}
	s.logger.Info(ctx, "snapshot created", "id", created.ID)
	return created, nil
}

func (s *SnapshotService) Get(ctx context.Context, id string) (*models.Snapshot, error) {
	if id == "" {
		return nil, common.ErrorNotFound
	}
	snap, err := s.repomanager.Snapshots(s.db).Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "get snapshot failed", "error", err)
		return nil, common.ErrorInternal
	}
	return snap, nil
}
