package grpc

import (
	"context"
	"fmt"

	"github.com/finiam/notes-app/internal/api"
	"github.com/finiam/notes-app/internal/common"
	"github.com/finiam/notes-app/internal/server/models"
)

// caller returns the authenticated identity, checking it against the
// identity a request names when one is given.
func caller(ctx context.Context, named string) (string, error) {
	identity, ok := identityFromContext(ctx)
	if !ok {
		return "", common.ErrorUnauthorized
	}
	if named != "" && named != identity {
		return "", common.ErrorUnauthorized
	}
	return identity, nil
}

func noteToAPI(n *models.Note) *api.Note {
	if n == nil {
		return nil
	}
	return &api.Note{
		ID:        n.ID,
		Name:      n.Name,
		Slug:      n.Slug,
		Content:   n.Content,
		Tags:      n.Tags,
		FolderID:  n.FolderID,
		Owner:     n.Owner,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func folderToAPI(f *models.Folder) *api.Folder {
	if f == nil {
		return nil
	}
	return &api.Folder{ID: f.ID, Name: f.Name, Owner: f.Owner}
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) LookupUser(ctx context.Context, req *api.LookupUserRequest) (*api.LookupUserResponse, error) {
	sess, err := s.users.LookupUser(ctx, req.Signature)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.LookupUserResponse{Token: sess.Token, AccessToken: sess.AccessToken}, nil
}

func (s *GRPCServer) CreateUser(ctx context.Context, req *api.CreateUserRequest) (*api.CreateUserResponse, error) {
	sess, err := s.users.CreateUser(ctx, req.Signature, req.Token)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "Registered", "identity", sess.Identity)
	return &api.CreateUserResponse{AccessToken: sess.AccessToken}, nil
}

func (s *GRPCServer) ListNotes(ctx context.Context, req *api.ListNotesRequest) (*api.ListNotesResponse, error) {
	owner, err := caller(ctx, req.Identity)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	notes, err := s.notes.ListNotes(ctx, owner)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	out := make([]*api.Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteToAPI(n))
	}
	return &api.ListNotesResponse{Notes: out}, nil
}

func (s *GRPCServer) CreateNote(ctx context.Context, req *api.CreateNoteRequest) (*api.CreateNoteResponse, error) {
	owner, err := caller(ctx, req.Owner)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	note, err := s.notes.CreateNote(ctx, &models.Note{Name: req.Name, Slug: req.Slug, FolderID: req.FolderID, Owner: owner})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.CreateNoteResponse{Note: noteToAPI(note)}, nil
}

func (s *GRPCServer) UpdateNote(ctx context.Context, req *api.UpdateNoteRequest) (*api.UpdateNoteResponse, error) {
	owner, err := caller(ctx, "")
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	note, err := s.notes.UpdateNote(ctx, &models.NoteUpdate{
		ID:      req.ID,
		Owner:   owner,
		Name:    req.Name,
		Slug:    req.Slug,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.UpdateNoteResponse{Note: noteToAPI(note)}, nil
}

func (s *GRPCServer) DeleteNote(ctx context.Context, req *api.DeleteNoteRequest) (*api.DeleteNoteResponse, error) {
	owner, err := caller(ctx, "")
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if err := s.notes.DeleteNote(ctx, req.ID, owner); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.DeleteNoteResponse{}, nil
}

func (s *GRPCServer) ListFolders(ctx context.Context, req *api.ListFoldersRequest) (*api.ListFoldersResponse, error) {
	owner, err := caller(ctx, req.Identity)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	folders, err := s.notes.ListFolders(ctx, owner)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	out := make([]*api.Folder, 0, len(folders))
	for _, f := range folders {
		out = append(out, folderToAPI(f))
	}
	return &api.ListFoldersResponse{Folders: out}, nil
}

func (s *GRPCServer) CreateFolder(ctx context.Context, req *api.CreateFolderRequest) (*api.CreateFolderResponse, error) {
	owner, err := caller(ctx, req.Owner)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	folder, err := s.notes.CreateFolder(ctx, &models.Folder{Name: req.Name, Owner: owner})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.CreateFolderResponse{Folder: folderToAPI(folder)}, nil
}

func (s *GRPCServer) CreateSharedSnapshot(ctx context.Context, req *api.CreateSharedSnapshotRequest) (*api.CreateSharedSnapshotResponse, error) {
	snap, err := s.snapshots.Create(ctx, &models.Snapshot{
		EncryptedName:    req.EncryptedName,
		EncryptedContent: req.EncryptedContent,
		EncryptedTags:    req.EncryptedTags,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.CreateSharedSnapshotResponse{ID: snap.ID}, nil
}

func (s *GRPCServer) GetSharedSnapshot(ctx context.Context, req *api.GetSharedSnapshotRequest) (*api.GetSharedSnapshotResponse, error) {
	snap, err := s.snapshots.Get(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if snap == nil {
		return nil, s.toStatus(ctx, fmt.Errorf("snapshot %s: %w", req.ID, common.ErrorNotFound))
	}
	return &api.GetSharedSnapshotResponse{Snapshot: &api.SharedSnapshot{
		ID:               snap.ID,
		EncryptedName:    snap.EncryptedName,
		EncryptedContent: snap.EncryptedContent,
		EncryptedTags:    snap.EncryptedTags,
	}}, nil
}
