// Package cryptox holds the content cipher used for note fields and shared
// snapshots, plus the key helpers built around it.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	keySize   = 32
	nonceSize = 12
	hkdfInfo  = "notes-app content cipher v1"
)

var (
	// ErrDecryptionFailure is returned for a wrong key and for corrupted or
	// malformed ciphertext alike; GCM cannot tell the two apart.
	ErrDecryptionFailure = errors.New("decryption failure")
	ErrEmptyKey          = errors.New("empty key")
)

// contentKey stretches arbitrary key material (a wallet signature or a
// 32-byte ephemeral key) into an AES-256 key.
func contentKey(material []byte) ([]byte, error) {
	if len(material) == 0 {
		return nil, ErrEmptyKey
	}
	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, material, nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("hkdf: %w", err)
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plaintext under key with a fresh random nonce and returns
// base64(nonce || ciphertext || tag). Two calls with the same input differ.
func Encrypt(plaintext string, key []byte) (string, error) {
	k, err := contentKey(key)
	if err != nil {
		return "", err
	}
	nonce, sealed, err := SealBytes([]byte(plaintext), k)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(append(nonce, sealed...)), nil
}

// Decrypt reverses Encrypt. Any failure is reported as ErrDecryptionFailure,
// never as empty or garbled plaintext.
func Decrypt(ciphertext string, key []byte) (string, error) {
	k, err := contentKey(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailure, err)
	}
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: malformed encoding", ErrDecryptionFailure)
	}
	if len(raw) < nonceSize {
		return "", fmt.Errorf("%w: truncated ciphertext", ErrDecryptionFailure)
	}
	plaintext, err := OpenBytes(raw[nonceSize:], raw[:nonceSize], k)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// SealBytes encrypts plaintext with AES-GCM under an AES key of 16, 24 or 32
// bytes and returns the generated 12-byte nonce and the ciphertext separately.
func SealBytes(plaintext, key []byte) (nonce, ciphertext []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce = make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}
	return nonce, aead.Seal(nil, nonce, plaintext, nil), nil
}

// OpenBytes is the inverse of SealBytes.
func OpenBytes(ciphertext, nonce, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailure, err)
	}
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: bad nonce", ErrDecryptionFailure)
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailure
	}
	return plaintext, nil
}
