package api

import "time"

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type LookupUserRequest struct {
	Signature string `json:"signature"`
}

type LookupUserResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
}

type CreateUserRequest struct {
	Signature string `json:"signature"`
	Token     string `json:"token"`
}

type CreateUserResponse struct {
	AccessToken string `json:"access_token"`
}

// Note is the stored form of a note. Content and Tags are ciphertext.
type Note struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	Tags      string    `json:"tags"`
	FolderID  string    `json:"folder_id"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Folder struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

type ListNotesRequest struct {
	Identity string `json:"identity"`
}

type ListNotesResponse struct {
	Notes []*Note `json:"notes"`
}

type CreateNoteRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	FolderID string `json:"folder_id"`
	Owner    string `json:"owner"`
}

type CreateNoteResponse struct {
	Note *Note `json:"note"`
}

// UpdateNoteRequest carries only the fields being changed; nil fields are
// left untouched by the store.
type UpdateNoteRequest struct {
	ID      string  `json:"id"`
	Name    *string `json:"name,omitempty"`
	Slug    *string `json:"slug,omitempty"`
	Content *string `json:"content,omitempty"`
	Tags    *string `json:"tags,omitempty"`
}

type UpdateNoteResponse struct {
	Note *Note `json:"note"`
}

type DeleteNoteRequest struct {
	ID string `json:"id"`
}

type DeleteNoteResponse struct{}

type ListFoldersRequest struct {
	Identity string `json:"identity"`
}

type ListFoldersResponse struct {
	Folders []*Folder `json:"folders"`
}

type CreateFolderRequest struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

type CreateFolderResponse struct {
	Folder *Folder `json:"folder"`
}

// SharedSnapshot is an ownerless, immutable, encrypted copy of a note.
type SharedSnapshot struct {
	ID               string `json:"id"`
	EncryptedName    string `json:"encrypted_name"`
	EncryptedContent string `json:"encrypted_content"`
	EncryptedTags    string `json:"encrypted_tags"`
}

type CreateSharedSnapshotRequest struct {
	EncryptedName    string `json:"encrypted_name"`
	EncryptedContent string `json:"encrypted_content"`
	EncryptedTags    string `json:"encrypted_tags"`
}

type CreateSharedSnapshotResponse struct {
	ID string `json:"id"`
}

type GetSharedSnapshotRequest struct {
	ID string `json:"id"`
}

type GetSharedSnapshotResponse struct {
	Snapshot *SharedSnapshot `json:"snapshot"`
}
