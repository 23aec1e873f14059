package services

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/finiam/notes-app/internal/client/client"
	"github.com/finiam/notes-app/internal/client/models"
	"github.com/finiam/notes-app/internal/common"
	"github.com/finiam/notes-app/internal/cryptox"
	"github.com/finiam/notes-app/internal/logging"
	"github.com/finiam/notes-app/internal/wallet"
)

// StatusKind mirrors the three states of the status line.
type StatusKind string

const (
	StatusLoading StatusKind = "loading"
	StatusOK      StatusKind = "ok"
	StatusError   StatusKind = "error"
)

// Status is what the user is told after an operation. Silent statuses
// (a declined wallet prompt) should not be shown.
type Status struct {
	Kind    StatusKind
	Message string
	Silent  bool
}

// StatusFor turns an operation result into a Status, using okMessage on
// success.
func StatusFor(err error, okMessage string) Status {
	switch {
	case err == nil:
		return Status{Kind: StatusOK, Message: okMessage}
	case errors.Is(err, wallet.ErrUserRejected):
		return Status{Kind: StatusOK, Message: "Request cancelled", Silent: true}
	case errors.Is(err, wallet.ErrWalletUnavailable):
		return Status{Kind: StatusError, Message: "No wallet found. Run wallet-init first."}
	case errors.Is(err, ErrValidationFailure):
		return Status{Kind: StatusError, Message: "Missing or invalid field: " + err.Error()}
	case errors.Is(err, cryptox.ErrDecryptionFailure):
		return Status{Kind: StatusError, Message: "Could not decrypt data with this key"}
	case errors.Is(err, ErrNoteNotFound):
		return Status{Kind: StatusError, Message: "Note no longer exists"}
	case errors.Is(err, ErrSessionClosed), errors.Is(err, ErrCacheCleared):
		return Status{Kind: StatusError, Message: "Session closed. Connect again."}
	case errors.Is(err, ErrOwnerMismatch):
		return Status{Kind: StatusError, Message: "The store returned data for another account"}
	case errors.Is(err, ErrNoOpenNote):
		return Status{Kind: StatusError, Message: "Open or create a note first"}
	case errors.Is(err, ErrUserLookupFailed), errors.Is(err, ErrNetworkFailure):
		return Status{Kind: StatusError, Message: "Something went wrong. Please try again."}
	default:
		return Status{Kind: StatusError, Message: "Something went wrong"}
	}
}

// ConnectorConfig carries the settings a Connector needs.
type ConnectorConfig struct {
	IdentitySecret string
	ShareBaseURL   string
	// Rand is the source for new user tokens and share keys.
	Rand io.Reader
}

// Connector performs the wallet handshake and builds a Session.
type Connector struct {
	signer   wallet.Signer
	client   client.Client
	resolver *IdentityResolver
	cfg      ConnectorConfig
	logger   logging.Logger
}

func NewConnector(signer wallet.Signer, c client.Client, cfg ConnectorConfig, logger logging.Logger) *Connector {
	return &Connector{
		signer:   signer,
		client:   c,
		resolver: NewIdentityResolver(c, cfg.Rand, logger),
		cfg:      cfg,
		logger:   logger,
	}
}

// Connect asks the wallet for an account, signs the identity message,
// resolves the opaque token and derives the session key.
func (c *Connector) Connect(ctx context.Context) (*Session, error) {
	if c.signer == nil {
		return nil, wallet.ErrWalletUnavailable
	}

	accounts, err := c.signer.RequestAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("request accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: no accounts", wallet.ErrWalletUnavailable)
	}

	sig, err := c.signer.SignMessage(ctx, IdentityMessage(c.cfg.IdentitySecret))
	if err != nil {
		return nil, fmt.Errorf("sign identity message: %w", err)
	}
	signature := hex.EncodeToString(sig)

	token, err := c.resolver.Resolve(ctx, signature)
	if err != nil {
		return nil, err
	}

	key, err := DeriveSessionKey(ctx, c.signer, token)
	if err != nil {
		return nil, err
	}

	identity := cryptox.IdentityFromSignature(signature)
	logger := c.logger.With("account", accounts[0])
	logger.Info(ctx, "session established")

	return &Session{
		Account:  accounts[0],
		Identity: identity,
		token:    token,
		key:      key,
		Cache:    NewCache(c.client, logger),
		Minter:   NewMinter(c.client, c.cfg.Rand, logger),
		Opener:   NewOpener(c.client),
		shareURL: c.cfg.ShareBaseURL,
	}, nil
}

// Session is the state of one connected user: who they are, their session
// key, their cached notes and which note is open.
type Session struct {
	Account  string
	Identity string
	Cache    *Cache
	Minter   *Minter
	Opener   *Opener

	token    string
	key      []byte
	shareURL string

	mu       sync.Mutex
	openNote string
	closed   bool
}

// Key returns the session key, or nil once the session is closed. It must
// not be modified.
func (s *Session) Key() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// useKey hands out a private copy of the session key. Close wipes the
// shared key, so operations in flight never see it change under them.
// The caller wipes the copy when done.
func (s *Session) useKey() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	return bytes.Clone(s.key), nil
}

func (s *Session) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	return nil
}

func (s *Session) Load(ctx context.Context) Status {
	key, err := s.useKey()
	if err != nil {
		return StatusFor(err, "")
	}
	defer common.WipeByteArray(key)
	return StatusFor(s.Cache.Load(ctx, s.Identity, key), "All set!")
}

func (s *Session) CreateFolder(ctx context.Context, name string) (*models.Folder, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.Cache.CreateFolder(ctx, name, s.Identity)
}

// CreateNote creates a note owned by the session and opens it.
func (s *Session) CreateNote(ctx context.Context, name, folderID string) (*models.Note, error) {
	key, err := s.useKey()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	n, err := s.Cache.CreateNote(ctx, models.NoteDraft{Name: name, FolderID: folderID, Owner: s.Identity}, key)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if !s.closed {
		s.openNote = n.ID
	}
	s.mu.Unlock()
	return n, nil
}

func (s *Session) Open(id string) (models.Note, error) {
	n, ok := s.Cache.Note(id)
	if !ok {
		return models.Note{}, ErrNoteNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return models.Note{}, ErrSessionClosed
	}
	s.openNote = id
	return n, nil
}

func (s *Session) OpenNote() (models.Note, error) {
	s.mu.Lock()
	id := s.openNote
	s.mu.Unlock()
	if id == "" {
		return models.Note{}, ErrNoOpenNote
	}
	n, ok := s.Cache.Note(id)
	if !ok {
		return models.Note{}, ErrNoteNotFound
	}
	return n, nil
}

func (s *Session) openID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrSessionClosed
	}
	if s.openNote == "" {
		return "", ErrNoOpenNote
	}
	return s.openNote, nil
}

// Edit changes a field of the open note locally.
func (s *Session) Edit(field models.Field, value string) error {
	id, err := s.openID()
	if err != nil {
		return err
	}
	return s.Cache.Edit(id, field, value)
}

// Save submits the open note's dirty fields.
func (s *Session) Save(ctx context.Context) (*models.Note, error) {
	id, err := s.openID()
	if err != nil {
		return nil, err
	}
	key, err := s.useKey()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)
	return s.Cache.Save(ctx, id, key)
}

func (s *Session) Update(ctx context.Context, id string, patch models.NotePatch) (*models.Note, error) {
	key, err := s.useKey()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)
	return s.Cache.UpdateNote(ctx, id, patch, key)
}

// Remove deletes note id, closing it if it is open.
func (s *Session) Remove(ctx context.Context, id string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := s.Cache.RemoveNote(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	if s.openNote == id {
		s.openNote = ""
	}
	s.mu.Unlock()
	return nil
}

// Share mints a snapshot of note id and returns its link.
func (s *Session) Share(ctx context.Context, id string) (string, error) {
	if err := s.checkOpen(); err != nil {
		return "", err
	}
	n, ok := s.Cache.Note(id)
	if !ok {
		return "", ErrNoteNotFound
	}
	loc, err := s.Minter.Mint(ctx, n)
	if err != nil {
		return "", err
	}
	return loc.URL(s.shareURL), nil
}

// Close wipes the session key and drops cached data. The session is
// unusable afterwards; operations still in flight hold their own key copy
// and do not repopulate the cache.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	common.WipeByteArray(s.key)
	s.key = nil
	s.token = ""
	s.openNote = ""
	s.Cache.Clear()
}

// Token returns the opaque token the session key was derived from.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}
