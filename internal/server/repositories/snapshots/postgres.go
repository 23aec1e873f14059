package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/finiam/notes-app/internal/common"
	"github.com/finiam/notes-app/internal/dbx"
	"github.com/finiam/notes-app/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Snapshot) (*models.Snapshot, error) {
	query := `INSERT INTO shared_snapshots (encrypted_name, encrypted_content, encrypted_tags)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, s.EncryptedName, s.EncryptedContent, s.EncryptedTags).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Snapshot, error) {
	query := `SELECT id, encrypted_name, encrypted_content, encrypted_tags, created_at
		FROM shared_snapshots WHERE id = $1`

	var s models.Snapshot
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.EncryptedName, &s.EncryptedContent, &s.EncryptedTags, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidInput(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &s, nil
}
