package models

import "time"

// Note is a stored note. Content and Tags arrive encrypted and are kept
// as-is; an empty string means the field was never written.
type Note struct {
	ID        string
	Name      string
	Slug      string
	Content   string
	Tags      string
	FolderID  string
	Owner     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteUpdate is a partial update. Nil fields keep their stored value.
type NoteUpdate struct {
	ID      string
	Owner   string
	Name    *string
	Slug    *string
	Content *string
	Tags    *string
}

// Empty reports whether u changes nothing.
func (u *NoteUpdate) Empty() bool {
	return u.Name == nil && u.Slug == nil && u.Content == nil && u.Tags == nil
}

type Folder struct {
	ID        string
	Name      string
	Owner     string
	CreatedAt time.Time
}
