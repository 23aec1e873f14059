package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/finiam/notes-app/internal/common"
	"github.com/finiam/notes-app/internal/logging"
	"github.com/finiam/notes-app/internal/server/models"
	"github.com/finiam/notes-app/internal/server/repositories/repomanager"
)

// maxFieldSize bounds each stored ciphertext.
const maxFieldSize = 1 << 20

type noteInput struct {
	Name     string `validate:"required,max=40"`
	Slug     string `validate:"required,max=80"`
	FolderID string `validate:"required"`
	Owner    string `validate:"required"`
}

type folderInput struct {
	Name  string `validate:"required,max=40"`
	Owner string `validate:"required"`
}

// NoteService manages notes and folders. Every operation is scoped to an
// owner identity.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validate    *validator.Validate
	logger      logging.Logger
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *NoteService {
	return &NoteService{db: db, repomanager: m, validate: validator.New(), logger: logger}
}

// internal hides repository details from callers, keeping the sentinels
// they are allowed to see.
func (s *NoteService) internal(ctx context.Context, op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	s.logger.Error(ctx, op+" failed", "error", err)
	return common.ErrorInternal
}

func (s *NoteService) ListNotes(ctx context.Context, owner string) ([]*models.Note, error) {
	notes, err := s.repomanager.Notes(s.db).ListByOwner(ctx, owner)
	if err != nil {
		return nil, s.internal(ctx, "list notes", err)
	}
	return notes, nil
}

// CreateNote stores a note with empty content and tags in one of the
// owner's folders.
func (s *NoteService) CreateNote(ctx context.Context, note *models.Note) (*models.Note, error) {
	in := noteInput{Name: note.Name, Slug: note.Slug, FolderID: note.FolderID, Owner: note.Owner}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	created, err := s.repomanager.Notes(s.db).Create(ctx, note)
	if err != nil {
		return nil, s.internal(ctx, "create note", err)
	}
	s.logger.Info(ctx, "note created", "id", created.ID)
	return created, nil
}

// UpdateNote applies a partial update. Name and slug travel together.
func (s *NoteService) UpdateNote(ctx context.Context, update *models.NoteUpdate) (*models.Note, error) {
	if update.ID == "" || update.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", common.ErrorValidation)
	}
	if update.Name != nil {
		if err := s.validate.Var(*update.Name, "required,max=40"); err != nil {
			return nil, fmt.Errorf("%w: name: %v", common.ErrorValidation, err)
		}
	}
	for _, f := range []*string{update.Content, update.Tags} {
		if f != nil && len(*f) > maxFieldSize {
			return nil, fmt.Errorf("%w: field too large", common.ErrorValidation)
		}
	}

	note, err := s.repomanager.Notes(s.db).Update(ctx, update)
	if err != nil {
		return nil, s.internal(ctx, "update note", err)
	}
	return note, nil
}

func (s *NoteService) DeleteNote(ctx context.Context, id, owner string) error {
	if err := s.repomanager.Notes(s.db).Delete(ctx, id, owner); err != nil {
		return s.internal(ctx, "delete note", err)
	}
	return nil
}

func (s *NoteService) ListFolders(ctx context.Context, owner string) ([]*models.Folder, error) {
	folders, err := s.repomanager.Folders(s.db).ListByOwner(ctx, owner)
	if err != nil {
		return nil, s.internal(ctx, "list folders", err)
	}
	return folders, nil
}

func (s *NoteService) CreateFolder(ctx context.Context, folder *models.Folder) (*models.Folder, error) {
	if err := s.validate.Struct(folderInput{Name: folder.Name, Owner: folder.Owner}); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	created, err := s.repomanager.Folders(s.db).Create(ctx, folder)
	if err != nil {
		return nil, s.internal(ctx, "create folder", err)
	}
	return created, nil
}
