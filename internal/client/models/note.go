// Package models defines the client-side note, folder and share types.
package models

import "time"

// Field names a user-editable note field tracked by the cache.
type Field int

const (
	FieldName Field = iota
	FieldContent
	FieldTags
)

// Fields lists every tracked field in submission order.
var Fields = [...]Field{FieldName, FieldContent, FieldTags}

func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldContent:
		return "content"
	case FieldTags:
		return "tags"
	default:
		return "unknown"
	}
}

// FieldState is the sync state of one note field.
type FieldState int

const (
	Clean FieldState = iota
	Dirty
)

func (s FieldState) String() string {
	if s == Dirty {
		return "dirty"
	}
	return "clean"
}

// Note is a decrypted note as held in memory.
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

// Get returns the value of f.
func (n *Note) Get(f Field) string {
	switch f {
	case FieldName:
		return n.Name
	case FieldContent:
		return n.Content
	case FieldTags:
		return n.Tags
	}
	return ""
}

// Set assigns v to f, recomputing the slug when the name changes.
func (n *Note) Set(f Field, v string) {
	switch f {
	case FieldName:
		n.Name = v
		n.Slug = Slugify(v)
	case FieldContent:
		n.Content = v
	case FieldTags:
		n.Tags = v
	}
}

// NoteDraft is the input to note creation.
type NoteDraft struct {
	Name     string `validate:"required,max=40"`
	FolderID string `validate:"required"`
	Owner    string `validate:"required"`
}

// NotePatch names the fields to change; nil fields are left as they are.
type NotePatch struct {
	Name    *string
	Content *string
	Tags    *string
}

// Fields returns the patch as field/value pairs.
func (p NotePatch) Fields() map[Field]string {
	out := make(map[Field]string, 3)
	if p.Name != nil {
		out[FieldName] = *p.Name
	}
	if p.Content != nil {
		out[FieldContent] = *p.Content
	}
	if p.Tags != nil {
		out[FieldTags] = *p.Tags
	}
	return out
}

type Folder struct {
	ID    string
	Name  string
	Owner string
}

type FolderDraft struct {
	Name  string `validate:"required,max=40"`
	Owner string `validate:"required"`
}

// SharedNote is a decrypted shared snapshot.
type SharedNote struct {
	ID      string
	Name    string
	Content string
	Tags    string
}
