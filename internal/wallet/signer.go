// Package wallet abstracts the external wallet that signs messages on the
// user's behalf. The notes client only ever talks to a Signer; LocalSigner
// is the file-backed implementation shipped with the CLI.
package wallet

import (
	"context"
	"errors"
)

var (
	// ErrWalletUnavailable means there is no signer to talk to.
	ErrWalletUnavailable = errors.New("wallet unavailable")
	// ErrUserRejected means the user declined the request. It is recoverable
	// and callers should not report it as a fault.
	ErrUserRejected = errors.New("user rejected request")
)

// Signer is the capability the client needs from a wallet.
type Signer interface {
	// RequestAccounts returns the account addresses the user allows the
	// client to see.
	RequestAccounts(ctx context.Context) ([]string, error)
	// SignMessage returns the signature of text. For the same wallet and
	// text the signature must not change.
	SignMessage(ctx context.Context, text string) ([]byte, error)
}
