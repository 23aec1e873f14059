package models

import "time"

// Snapshot is an immutable encrypted copy of a note. It has no owner; the
// key that opens it only ever exists in the share link.
type Snapshot struct {
	ID               string    `json:"id"`
	EncryptedName    string    `json:"encrypted_name"`
	EncryptedContent string    `json:"encrypted_content"`
	EncryptedTags    string    `json:"encrypted_tags"`
	CreatedAt        time.Time `json:"created_at"`
}
