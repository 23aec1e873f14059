// Package services holds the client core: identity resolution, session key
// derivation, the note and folder cache, share minting and the session
// that ties them together.
package services

import "errors"

var (
	ErrUserLookupFailed  = errors.New("user lookup failed")
	ErrNetworkFailure    = errors.New("network failure")
	ErrValidationFailure = errors.New("validation failure")
	ErrNoteNotFound      = errors.New("note not found")
	ErrSnapshotNotFound  = errors.New("shared snapshot not found")
	ErrInvalidLocator    = errors.New("invalid share locator")
	ErrNoOpenNote        = errors.New("no open note")
	ErrOwnerMismatch     = errors.New("record belongs to another owner")
	ErrCacheCleared      = errors.New("cache cleared during operation")
	ErrSessionClosed     = errors.New("session closed")
)
