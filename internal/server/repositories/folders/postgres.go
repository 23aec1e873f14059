// Package folders provides the PostgreSQL folder repository.
package folders

import (
	"context"
	"fmt"

	"github.com/finiam/notes-app/internal/dbx"
	"github.com/finiam/notes-app/internal/server/models"
)

// PostgresRepository implements folder storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, folder *models.Folder) (*models.Folder, error) {
	query := `INSERT INTO folders (name, owner)
		VALUES ($1, $2)
		RETURNING id, created_at`

	if err := r.db.QueryRowContext(ctx, query, folder.Name, folder.Owner).Scan(&folder.ID, &folder.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return folder, nil
}

// ListByOwner returns owner's folders, oldest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, owner string) ([]*models.Folder, error) {
	query := `SELECT id, name, owner, created_at FROM folders
		WHERE owner = $1
		ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to select folders: %w", err)
	}
	defer rows.Close()

	var result []*models.Folder
	for rows.Next() {
		var item models.Folder
		if err := rows.Scan(&item.ID, &item.Name, &item.Owner, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
