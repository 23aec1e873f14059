// Package notes provides the PostgreSQL note repository. Every statement is
// scoped to the owner so one identity can never read or change another's
// notes.
package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/finiam/notes-app/internal/common"
	"github.com/finiam/notes-app/internal/dbx"
	"github.com/finiam/notes-app/internal/server/models"
)

const noteColumns = `id, name, slug, content, tags, folder_id, owner, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*models.Note, error) {
	var n models.Note
	if err := s.Scan(&n.ID, &n.Name, &n.Slug, &n.Content, &n.Tags, &n.FolderID, &n.Owner, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// lookupError maps "no row" and malformed ids to common.ErrorNotFound.
func lookupError(err error) error {
	if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidInput(err) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

// Create inserts note into one of the owner's folders. A folder that does
// not exist or belongs to someone else yields common.ErrorNotFound.
func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	query := `INSERT INTO notes (name, slug, folder_id, owner)
		SELECT $1, $2, f.id, $4 FROM folders f
		WHERE f.id = $3 AND f.owner = $4
		RETURNING ` + noteColumns

	n, err := scanNote(r.db.QueryRowContext(ctx, query, note.Name, note.Slug, note.FolderID, note.Owner))
	if err != nil {
		return nil, lookupError(err)
	}
	return n, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, owner string) ([]*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes
		WHERE owner = $1
		ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to select notes: %w", err)
	}
	defer rows.Close()

	var result []*models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update writes the non-nil fields of update and returns the stored note.
func (r *PostgresRepository) Update(ctx context.Context, update *models.NoteUpdate) (*models.Note, error) {
	query := `UPDATE notes SET
			name = COALESCE($3, name),
			slug = COALESCE($4, slug),
			content = COALESCE($5, content),
			tags = COALESCE($6, tags),
			updated_at = now()
		WHERE id = $1 AND owner = $2
		RETURNING ` + noteColumns

	n, err := scanNote(r.db.QueryRowContext(ctx, query,
		update.ID, update.Owner, update.Name, update.Slug, update.Content, update.Tags))
	if err != nil {
		return nil, lookupError(err)
	}
	return n, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, owner string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1 AND owner = $2`, id, owner)
	if err != nil {
		return lookupError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
