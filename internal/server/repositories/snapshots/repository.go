// Package snapshots stores shared note snapshots, either in PostgreSQL or
// in S3-compatible object storage.
package snapshots

import (
	"context"

	"github.com/finiam/notes-app/internal/server/models"
)

// Repository persists immutable snapshots. Get of an unknown id yields
// common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, snapshot *models.Snapshot) (*models.Snapshot, error)
	Get(ctx context.Context, id string) (*models.Snapshot, error)
}
