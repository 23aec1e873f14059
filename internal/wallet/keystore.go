package wallet

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/finiam/notes-app/internal/common"
	"github.com/finiam/notes-app/internal/cryptox"
)

const keystoreVersion = 1

var ErrBadPassphrase = errors.New("wrong passphrase")

// Keystore is the on-disk form of a local wallet: an ed25519 seed sealed
// with AES-GCM under an argon2id passphrase key.
type Keystore struct {
	Version   int    `json:"version"`
	Account   string `json:"account"`
	Salt      []byte `json:"salt"`
	Nonce     []byte `json:"nonce"`
	SealedKey []byte `json:"sealed_key"`
}

// NewKeystore generates a fresh seed from rand and seals it under passphrase.
func NewKeystore(rand io.Reader, passphrase []byte) (*Keystore, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	defer common.WipeByteArray(seed)

	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand, salt); err != nil {
		return nil, fmt.Errorf("read salt: %w", err)
	}

	key := cryptox.DerivePassphraseKey(passphrase, salt)
	defer common.WipeByteArray(key)

	nonce, sealed, err := cryptox.SealBytes(seed, key)
	if err != nil {
		return nil, fmt.Errorf("seal seed: %w", err)
	}

	pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	return &Keystore{
		Version:   keystoreVersion,
		Account:   "0x" + hex.EncodeToString(pub),
		Salt:      salt,
		Nonce:     nonce,
		SealedKey: sealed,
	}, nil
}

// Unlock opens the sealed seed and returns the private key.
func (k *Keystore) Unlock(passphrase []byte) (ed25519.PrivateKey, error) {
	key := cryptox.DerivePassphraseKey(passphrase, k.Salt)
	defer common.WipeByteArray(key)

	seed, err := cryptox.OpenBytes(k.SealedKey, k.Nonce, key)
	if err != nil {
		return nil, ErrBadPassphrase
	}
	defer common.WipeByteArray(seed)
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("keystore: bad seed length %d", len(seed))
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

// Save writes the keystore to path with owner-only permissions.
func (k *Keystore) Save(path string) error {
	b, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// LoadKeystore reads a keystore file. A missing file is reported as
// ErrWalletUnavailable.
func LoadKeystore(path string) (*Keystore, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no keystore at %s", ErrWalletUnavailable, path)
	}
	if err != nil {
		return nil, err
	}
	var ks Keystore
	if err := json.Unmarshal(b, &ks); err != nil {
		return nil, fmt.Errorf("keystore %s: %w", path, err)
	}
	if ks.Version != keystoreVersion {
		return nil, fmt.Errorf("keystore %s: unsupported version %d", path, ks.Version)
	}
	return &ks, nil
}
