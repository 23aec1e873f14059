package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// EphemeralKeySize is the length of a share key.
const EphemeralKeySize = 32

// IdentityFromSignature maps the hex-encoded identity signature to the
// stable user identity stored by the server.
func IdentityFromSignature(signature string) string {
	sum := sha256.Sum256([]byte(signature))
	return hex.EncodeToString(sum[:])
}

// NewEphemeralKey reads a fresh share key from r.
func NewEphemeralKey(r io.Reader) ([]byte, error) {
	key := make([]byte, EphemeralKeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("read random: %w", err)
	}
	return key, nil
}

// DerivePassphraseKey turns a keystore passphrase into a 32-byte AES key
// with argon2id.
func DerivePassphraseKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, 32)
}
