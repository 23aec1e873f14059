package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/finiam/notes-app/internal/api"
	"github.com/finiam/notes-app/internal/client/client"
	"github.com/finiam/notes-app/internal/client/models"
	"github.com/finiam/notes-app/internal/common"
	"github.com/finiam/notes-app/internal/cryptox"
	"github.com/finiam/notes-app/internal/logging"
)

const locatorPath = "/note/"

// Locator identifies a shared snapshot together with the key that opens it.
type Locator struct {
	SnapshotID string
	Key        []byte
}

// URL renders the locator as <base>/note/<id>#<key>. The key sits in the
// fragment, which browsers never send to a server.
func (l *Locator) URL(base string) string {
	return strings.TrimRight(base, "/") + locatorPath + url.PathEscape(l.SnapshotID) +
		"#" + base64.RawURLEncoding.EncodeToString(l.Key)
}

// ParseLocator reads a locator produced by URL.
func ParseLocator(s string) (*Locator, error) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocator, err)
	}
	i := strings.LastIndex(u.Path, locatorPath)
	if i < 0 {
		return nil, fmt.Errorf("%w: missing %s segment", ErrInvalidLocator, locatorPath)
	}
	id := u.Path[i+len(locatorPath):]
	if id == "" || strings.Contains(id, "/") {
		return nil, fmt.Errorf("%w: bad snapshot id", ErrInvalidLocator)
	}
	key, err := base64.RawURLEncoding.DecodeString(u.Fragment)
	if err != nil || len(key) == 0 {
		return nil, fmt.Errorf("%w: bad key", ErrInvalidLocator)
	}
	return &Locator{SnapshotID: id, Key: key}, nil
}

// Minter publishes encrypted, ownerless snapshots of notes.
type Minter struct {
	client client.Client
	rand   io.Reader
	logger logging.Logger
}

func NewMinter(c client.Client, rand io.Reader, logger logging.Logger) *Minter {
	return &Minter{client: c, rand: rand, logger: logger}
}

// Mint encrypts the note's name, content and tags under a fresh key and
// stores the result. The key is only ever returned in the Locator.
func (m *Minter) Mint(ctx context.Context, note models.Note) (*Locator, error) {
	key, err := cryptox.NewEphemeralKey(m.rand)
	if err != nil {
		return nil, err
	}

	req := &api.CreateSharedSnapshotRequest{}
	for _, f := range []struct {
		dst   *string
		plain string
	}{
		{&req.EncryptedName, note.Name},
		{&req.EncryptedContent, note.Content},
		{&req.EncryptedTags, note.Tags},
	} {
		if *f.dst, err = cryptox.Encrypt(f.plain, key); err != nil {
			common.WipeByteArray(key)
			return nil, err
		}
	}

	id, err := m.client.CreateSharedSnapshot(ctx, req)
	if err != nil {
		common.WipeByteArray(key)
		return nil, fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	}
	if id == "" {
		common.WipeByteArray(key)
		return nil, fmt.Errorf("%w: snapshot created but not confirmed", ErrNetworkFailure)
	}

	m.logger.Info(ctx, "shared snapshot minted", "snapshot", id)
	return &Locator{SnapshotID: id, Key: key}, nil
}

// Opener fetches and decrypts shared snapshots.
type Opener struct {
	client client.Client
}

func NewOpener(c client.Client) *Opener {
	return &Opener{client: c}
}

// Open resolves a locator string to the decrypted note. A wrong key gives
// cryptox.ErrDecryptionFailure.
func (o *Opener) Open(ctx context.Context, locator string) (*models.SharedNote, error) {
	loc, err := ParseLocator(locator)
	if err != nil {
		return nil, err
	}
	return o.OpenLocator(ctx, loc)
}

func (o *Opener) OpenLocator(ctx context.Context, loc *Locator) (*models.SharedNote, error) {
	snap, err := o.client.GetSharedSnapshot(ctx, loc.SnapshotID)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, loc.SnapshotID)
		}
		return nil, fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	}

	out := &models.SharedNote{ID: snap.ID}
	for _, f := range []struct {
		dst    *string
		cipher string
	}{
		{&out.Name, snap.EncryptedName},
		{&out.Content, snap.EncryptedContent},
		{&out.Tags, snap.EncryptedTags},
	} {
		if *f.dst, err = cryptox.Decrypt(f.cipher, loc.Key); err != nil {
			return nil, err
		}
	}
	return out, nil
}
