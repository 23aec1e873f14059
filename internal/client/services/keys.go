package services

import (
	"context"
	"fmt"

	"github.com/finiam/notes-app/internal/wallet"
)

const (
	identityMessagePrefix = "Please sign this string. This signature will be your unique identifier:\n"
	keyMessagePrefix      = "This signature will be your encryption key:\n"
)

// IdentityMessage is the text signed to establish who the user is.
func IdentityMessage(secret string) string {
	return identityMessagePrefix + secret
}

// KeyMessage is the text signed to obtain the session key for token.
func KeyMessage(token string) string {
	return keyMessagePrefix + token
}

// DeriveSessionKey asks signer to sign the key message for token and uses
// the raw signature as the session key. With a deterministic signer the
// same token always yields the same key.
func DeriveSessionKey(ctx context.Context, signer wallet.Signer, token string) ([]byte, error) {
	if signer == nil {
		return nil, wallet.ErrWalletUnavailable
	}
	sig, err := signer.SignMessage(ctx, KeyMessage(token))
	if err != nil {
		return nil, fmt.Errorf("sign key message: %w", err)
	}
	if len(sig) == 0 {
		return nil, fmt.Errorf("%w: empty signature", wallet.ErrWalletUnavailable)
	}
	return sig, nil
}
