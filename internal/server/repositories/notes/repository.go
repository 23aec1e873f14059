package notes

import (
	"context"

	"github.com/finiam/notes-app/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	ListByOwner(ctx context.Context, owner string) ([]*models.Note, error)
	Update(ctx context.Context, update *models.NoteUpdate) (*models.Note, error)
	Delete(ctx context.Context, id, owner string) error
}
