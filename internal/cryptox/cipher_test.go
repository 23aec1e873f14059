package cryptox

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	keys := map[string][]byte{
		"signature-sized": bytes.Repeat([]byte{0xab}, 64),
		"ephemeral":       bytes.Repeat([]byte{0x01}, EphemeralKeySize),
		"short":           []byte("k"),
	}
	plaintexts := []string{"", "secret", "multi\nline ✓ ünïcode", strings.Repeat("x", 4096)}

	for name, key := range keys {
		for _, p := range plaintexts {
			t.Run(name, func(t *testing.T) {
				ct, err := Encrypt(p, key)
				require.NoError(t, err)
				got, err := Decrypt(ct, key)
				require.NoError(t, err)
				assert.Equal(t, p, got)
			})
		}
	}
}

func TestEncrypt_FreshNonce(t *testing.T) {
	key := []byte("session-key")
	a, err := Encrypt("same", key)
	require.NoError(t, err)
	b, err := Encrypt("same", key)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	ct, err := Encrypt("secret", []byte("key-one"))
	require.NoError(t, err)

	got, err := Decrypt(ct, []byte("key-two"))
	require.ErrorIs(t, err, ErrDecryptionFailure)
	assert.Empty(t, got)
}

func TestDecrypt_TamperedFails(t *testing.T) {
	key := []byte("key")
	ct, err := Encrypt("secret", key)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(ct)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01

	_, err = Decrypt(base64.StdEncoding.EncodeToString(raw), key)
	require.ErrorIs(t, err, ErrDecryptionFailure)
}

func TestDecrypt_Malformed(t *testing.T) {
	key := []byte("key")
	for _, in := range []string{"", "not base64!!", base64.StdEncoding.EncodeToString([]byte("short"))} {
		_, err := Decrypt(in, key)
		require.ErrorIs(t, err, ErrDecryptionFailure, in)
	}
}

func TestEmptyKey(t *testing.T) {
	_, err := Encrypt("x", nil)
	require.ErrorIs(t, err, ErrEmptyKey)

	_, err = Decrypt("AAAA", nil)
	require.ErrorIs(t, err, ErrDecryptionFailure)
}

func TestSealOpenBytes(t *testing.T) {
	key := bytes.Repeat([]byte{7}, 32)
	nonce, ct, err := SealBytes([]byte("seed"), key)
	require.NoError(t, err)
	require.Len(t, nonce, 12)

	pt, err := OpenBytes(ct, nonce, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("seed"), pt)

	_, err = OpenBytes(ct, nonce, bytes.Repeat([]byte{8}, 32))
	require.ErrorIs(t, err, ErrDecryptionFailure)

	_, err = OpenBytes(ct, nonce[:4], key)
	require.ErrorIs(t, err, ErrDecryptionFailure)
}
