package wallet

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/finiam/notes-app/internal/common"
	"golang.org/x/term"
)

// PassphraseFunc supplies the keystore passphrase.
type PassphraseFunc func() ([]byte, error)

// ConfirmFunc is asked before every signature; returning false declines it.
type ConfirmFunc func(message string) bool

// ErrPromptAborted can be returned by a PassphraseFunc when the user
// cancels the prompt. LocalSigner reports it as ErrUserRejected.
var ErrPromptAborted = errors.New("prompt aborted")

// LocalSigner signs with an ed25519 key kept in an encrypted keystore file.
// The key is unlocked on first use and kept in memory until Lock.
type LocalSigner struct {
	path       string
	passphrase PassphraseFunc
	confirm    ConfirmFunc

	mu      sync.Mutex
	key     ed25519.PrivateKey
	account string
}

func NewLocalSigner(path string, passphrase PassphraseFunc, confirm ConfirmFunc) *LocalSigner {
	return &LocalSigner{path: path, passphrase: passphrase, confirm: confirm}
}

func (s *LocalSigner) unlock() error {
	if s.key != nil {
		return nil
	}
	ks, err := LoadKeystore(s.path)
	if err != nil {
		return err
	}
	if s.passphrase == nil {
		return fmt.Errorf("%w: no passphrase source", ErrWalletUnavailable)
	}
	pass, err := s.passphrase()
	if err != nil {
		if errors.Is(err, ErrPromptAborted) {
			return ErrUserRejected
		}
		return fmt.Errorf("%w: %v", ErrWalletUnavailable, err)
	}
	defer common.WipeByteArray(pass)

	key, err := ks.Unlock(pass)
	if err != nil {
		return err
	}
	s.key = key
	s.account = ks.Account
	return nil
}

func (s *LocalSigner) RequestAccounts(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.unlock(); err != nil {
		return nil, err
	}
	return []string{s.account}, nil
}

func (s *LocalSigner) SignMessage(ctx context.Context, text string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.unlock(); err != nil {
		return nil, err
	}
	if s.confirm != nil && !s.confirm(text) {
		return nil, ErrUserRejected
	}
	return ed25519.Sign(s.key, []byte(text)), nil
}

// Lock wipes the unlocked key from memory.
func (s *LocalSigner) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	common.WipeByteArray(s.key)
	s.key = nil
}

// readPassword is swapped in tests.
var readPassword = term.ReadPassword

// TerminalPassphrase prompts on w and reads the passphrase from stdin
// without echo. An empty passphrase counts as an aborted prompt.
func TerminalPassphrase(w io.Writer, prompt string) PassphraseFunc {
	return func() ([]byte, error) {
		if _, err := fmt.Fprint(w, prompt); err != nil {
			return nil, err
		}
		pw, err := readPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return nil, err
		}
		if len(pw) == 0 {
			return nil, ErrPromptAborted
		}
		return pw, nil
	}
}
