package client

import (
	"context"

	"github.com/finiam/notes-app/internal/api"
)

// Client is the notes store as seen by the client services. Note content
// and tags cross this boundary encrypted.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	// LookupUser returns the opaque token registered for signature.
	LookupUser(ctx context.Context, signature string) (string, error)
	CreateUser(ctx context.Context, signature, token string) error
	ListNotes(ctx context.Context, identity string) ([]*api.Note, error)
	CreateNote(ctx context.Context, req *api.CreateNoteRequest) (*api.Note, error)
	UpdateNote(ctx context.Context, req *api.UpdateNoteRequest) (*api.Note, error)
	DeleteNote(ctx context.Context, id string) error
	ListFolders(ctx context.Context, identity string) ([]*api.Folder, error)
	CreateFolder(ctx context.Context, name, owner string) (*api.Folder, error)
	CreateSharedSnapshot(ctx context.Context, req *api.CreateSharedSnapshotRequest) (string, error)
	GetSharedSnapshot(ctx context.Context, id string) (*api.SharedSnapshot, error)
}
