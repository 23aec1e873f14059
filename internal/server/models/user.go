// Package models defines server-side data models persisted in the database.
package models

import "time"

// User binds a wallet identity to the opaque token its session key is
// derived from. The raw identity signature is never stored.
type User struct {
	ID        string
	Identity  string
	Token     string
	CreatedAt time.Time
}
