package folders

import (
	"context"

	"github.com/finiam/notes-app/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, folder *models.Folder) (*models.Folder, error)
	ListByOwner(ctx context.Context, owner string) ([]*models.Folder, error)
}
