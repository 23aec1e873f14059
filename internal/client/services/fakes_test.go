package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/finiam/notes-app/internal/api"
	"github.com/finiam/notes-app/internal/client/client"
	"github.com/finiam/notes-app/internal/wallet"
)

// fakeStore is an in-memory client.Client.
type fakeStore struct {
	mu sync.Mutex

	users     map[string]string
	notes     map[string]*api.Note
	folders   map[string]*api.Folder
	snapshots map[string]*api.SharedSnapshot
	seq       int

	updates []api.UpdateNoteRequest
	deletes []string

	lookupErr       error
	createUserErr   error
	listNotesErr    error
	listFoldersErr  error
	createNoteErr   error
	updateErr       error
	deleteErr       error
	snapshotErr     error
	emptySnapshotID bool

	// ignoreOwner makes the list calls return every record.
	ignoreOwner bool
	// ownerOverride replaces the owner on created notes and folders.
	ownerOverride string

	// Hooks run before the call is served, outside the store lock.
	onUpdate    func(req *api.UpdateNoteRequest)
	onDelete    func(id string)
	onListNotes func()
}

var _ client.Client = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[string]string{},
		notes:     map[string]*api.Note{},
		folders:   map[string]*api.Folder{},
		snapshots: map[string]*api.SharedSnapshot{},
	}
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeStore) Close() error                 { return nil }
func (f *fakeStore) Ping(ctx context.Context) error { return nil }

func (f *fakeStore) LookupUser(ctx context.Context, signature string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return "", f.lookupErr
	}
	token, ok := f.users[signature]
	if !ok {
		return "", client.ErrNotFound
	}
	return token, nil
}

func (f *fakeStore) CreateUser(ctx context.Context, signature, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createUserErr != nil {
		return f.createUserErr
	}
	if _, ok := f.users[signature]; ok {
		return client.ErrAlreadyExists
	}
	f.users[signature] = token
	return nil
}

func (f *fakeStore) ListNotes(ctx context.Context, identity string) ([]*api.Note, error) {
	if f.onListNotes != nil {
		f.onListNotes()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listNotesErr != nil {
		return nil, f.listNotesErr
	}
	var out []*api.Note
	for _, n := range f.notes {
		if n.Owner == identity || f.ignoreOwner {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateNote(ctx context.Context, req *api.CreateNoteRequest) (*api.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createNoteErr != nil {
		return nil, f.createNoteErr
	}
	if _, ok := f.folders[req.FolderID]; !ok {
		return nil, client.ErrNotFound
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := &api.Note{ID: f.nextID("note"), Name: req.Name, Slug: req.Slug, FolderID: req.FolderID, Owner: req.Owner, CreatedAt: now, UpdatedAt: now}
	f.notes[n.ID] = n
	cp := *n
	if f.ownerOverride != "" {
		cp.Owner = f.ownerOverride
	}
	return &cp, nil
}

func (f *fakeStore) UpdateNote(ctx context.Context, req *api.UpdateNoteRequest) (*api.Note, error) {
	if f.onUpdate != nil {
		f.onUpdate(req)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, *req)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	n, ok := f.notes[req.ID]
	if !ok {
		return nil, client.ErrNotFound
	}
	if req.Name != nil {
		n.Name = *req.Name
	}
	if req.Slug != nil {
		n.Slug = *req.Slug
	}
	if req.Content != nil {
		n.Content = *req.Content
	}
	if req.Tags != nil {
		n.Tags = *req.Tags
	}
	n.UpdatedAt = n.UpdatedAt.Add(time.Minute)
	cp := *n
	return &cp, nil
}

func (f *fakeStore) DeleteNote(ctx context.Context, id string) error {
	if f.onDelete != nil {
		f.onDelete(id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.notes[id]; !ok {
		return client.ErrNotFound
	}
	delete(f.notes, id)
	return nil
}

func (f *fakeStore) ListFolders(ctx context.Context, identity string) ([]*api.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listFoldersErr != nil {
		return nil, f.listFoldersErr
	}
	var out []*api.Folder
	for _, fo := range f.folders {
		if fo.Owner == identity || f.ignoreOwner {
			cp := *fo
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateFolder(ctx context.Context, name, owner string) (*api.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fo := &api.Folder{ID: f.nextID("folder"), Name: name, Owner: owner}
	f.folders[fo.ID] = fo
	cp := *fo
	if f.ownerOverride != "" {
		cp.Owner = f.ownerOverride
	}
	return &cp, nil
}

func (f *fakeStore) CreateSharedSnapshot(ctx context.Context, req *api.CreateSharedSnapshotRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapshotErr != nil {
		return "", f.snapshotErr
	}
	id := f.nextID("snap")
	f.snapshots[id] = &api.SharedSnapshot{ID: id, EncryptedName: req.EncryptedName, EncryptedContent: req.EncryptedContent, EncryptedTags: req.EncryptedTags}
	if f.emptySnapshotID {
		return "", nil
	}
	return id, nil
}

func (f *fakeStore) GetSharedSnapshot(ctx context.Context, id string) (*api.SharedSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.snapshots[id]
	if !ok {
		return nil, client.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

// fakeSigner signs by hashing the account name with the message, which is
// deterministic like a real wallet.
type fakeSigner struct {
	account     string
	accountsErr error
	reject      map[string]bool
	signed      []string
}

var _ wallet.Signer = (*fakeSigner)(nil)

func (s *fakeSigner) RequestAccounts(ctx context.Context) ([]string, error) {
	if s.accountsErr != nil {
		return nil, s.accountsErr
	}
	if s.account == "" {
		return nil, nil
	}
	return []string{s.account}, nil
}

func (s *fakeSigner) SignMessage(ctx context.Context, text string) ([]byte, error) {
	s.signed = append(s.signed, text)
	if s.reject[text] {
		return nil, wallet.ErrUserRejected
	}
	sum := sha256.Sum256([]byte(s.account + "|" + text))
	return append(sum[:], sum[:]...), nil
}

// fixedRand yields the same byte forever.
func fixedRand(b byte) *bytes.Reader {
	return bytes.NewReader(bytes.Repeat([]byte{b}, 4096))
}
