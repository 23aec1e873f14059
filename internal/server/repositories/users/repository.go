package users

import (
	"context"

	"github.com/finiam/notes-app/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByIdentity(ctx context.Context, identity string) (*models.User, error)
}
