package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/finiam/notes-app/internal/api"
	"github.com/finiam/notes-app/internal/client/client"
	"github.com/finiam/notes-app/internal/client/models"
	"github.com/finiam/notes-app/internal/cryptox"
	"github.com/finiam/notes-app/internal/logging"
	"github.com/go-playground/validator/v10"
)

// fieldTrack is the sync state of one field. rev grows on every local edit
// so an acknowledgement can tell whether the field changed while the save
// was in flight.
type fieldTrack struct {
	state models.FieldState
	rev   uint64
}

type cachedNote struct {
	note   models.Note
	fields [len(models.Fields)]fieldTrack
}

// Cache is the session's in-memory view of the user's notes and folders.
// The mutex guards the maps only; it is never held across a remote call,
// so a save and a delete on different notes proceed independently and
// acknowledgements are applied in arrival order.
type Cache struct {
	client   client.Client
	validate *validator.Validate
	logger   logging.Logger

	mu      sync.Mutex
	notes   map[string]*cachedNote
	folders map[string]models.Folder
	// gen changes on Clear; a remote call that started under an older
	// generation must not write its result back.
	gen uint64
}

func NewCache(c client.Client, logger logging.Logger) *Cache {
	return &Cache{
		client:   c,
		validate: validator.New(),
		logger:   logger,
		notes:    make(map[string]*cachedNote),
		folders:  make(map[string]models.Folder),
	}
}

// LoadError reports a partially successful Load. Collections whose fetch
// succeeded are in the cache; undecryptable notes are left out.
type LoadError struct {
	NotesErr      error
	FoldersErr    error
	Undecryptable []string
	// Foreign lists note and folder ids the store returned for another owner.
	Foreign []string
}

func (e *LoadError) Error() string {
	var parts []string
	if e.NotesErr != nil {
		parts = append(parts, "notes: "+e.NotesErr.Error())
	}
	if e.FoldersErr != nil {
		parts = append(parts, "folders: "+e.FoldersErr.Error())
	}
	if len(e.Undecryptable) > 0 {
		parts = append(parts, fmt.Sprintf("%d note(s) could not be decrypted", len(e.Undecryptable)))
	}
	if len(e.Foreign) > 0 {
		parts = append(parts, fmt.Sprintf("%d record(s) belong to another owner", len(e.Foreign)))
	}
	return "load: " + strings.Join(parts, "; ")
}

func (e *LoadError) Unwrap() []error {
	var errs []error
	if e.NotesErr != nil || e.FoldersErr != nil {
		errs = append(errs, ErrNetworkFailure)
	}
	if e.NotesErr != nil {
		errs = append(errs, e.NotesErr)
	}
	if e.FoldersErr != nil {
		errs = append(errs, e.FoldersErr)
	}
	if len(e.Undecryptable) > 0 {
		errs = append(errs, cryptox.ErrDecryptionFailure)
	}
	if len(e.Foreign) > 0 {
		errs = append(errs, ErrOwnerMismatch)
	}
	return errs
}

func decryptField(ciphertext string, key []byte) (string, error) {
	if ciphertext == "" {
		return "", nil
	}
	return cryptox.Decrypt(ciphertext, key)
}

func encryptField(plaintext string, key []byte) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	return cryptox.Encrypt(plaintext, key)
}

func decryptNote(n *api.Note, key []byte) (models.Note, error) {
	content, err := decryptField(n.Content, key)
	if err != nil {
		return models.Note{}, err
	}
	tags, err := decryptField(n.Tags, key)
	if err != nil {
		return models.Note{}, err
	}
	return models.Note{
		ID:        n.ID,
		Name:      n.Name,
		Slug:      n.Slug,
		Content:   content,
		Tags:      tags,
		FolderID:  n.FolderID,
		Owner:     n.Owner,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}, nil
}

// Load replaces the cache with the notes and folders owned by identity.
// A collection that fails to fetch keeps its previous contents. Unsaved
// local edits survive: Dirty fields keep their local value, and a note
// with unsaved edits that the store no longer lists stays cached.
func (c *Cache) Load(ctx context.Context, identity string, key []byte) error {
	gen := c.generation()

	remoteNotes, notesErr := c.client.ListNotes(ctx, identity)
	remoteFolders, foldersErr := c.client.ListFolders(ctx, identity)

	loadErr := &LoadError{NotesErr: notesErr, FoldersErr: foldersErr}

	var notes map[string]*cachedNote
	if notesErr == nil {
		notes = make(map[string]*cachedNote, len(remoteNotes))
		for _, rn := range remoteNotes {
			if rn.Owner != identity {
				c.logger.Warn(ctx, "skipping note of another owner", "id", rn.ID)
				loadErr.Foreign = append(loadErr.Foreign, rn.ID)
				continue
			}
			n, err := decryptNote(rn, key)
			if err != nil {
				c.logger.Warn(ctx, "skipping undecryptable note", "id", rn.ID)
				loadErr.Undecryptable = append(loadErr.Undecryptable, rn.ID)
				continue
			}
			notes[n.ID] = &cachedNote{note: n}
		}
	}

	var folders map[string]models.Folder
	if foldersErr == nil {
		folders = make(map[string]models.Folder, len(remoteFolders))
		for _, f := range remoteFolders {
			if f.Owner != identity {
				c.logger.Warn(ctx, "skipping folder of another owner", "id", f.ID)
				loadErr.Foreign = append(loadErr.Foreign, f.ID)
				continue
			}
			folders[f.ID] = models.Folder{ID: f.ID, Name: f.Name, Owner: f.Owner}
		}
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return ErrCacheCleared
	}
	if notes != nil {
		keepLocalEdits(c.notes, notes)
		c.notes = notes
	}
	if folders != nil {
		c.folders = folders
	}
	c.mu.Unlock()

	if notesErr != nil || foldersErr != nil || len(loadErr.Undecryptable) > 0 || len(loadErr.Foreign) > 0 {
		return loadErr
	}
	c.logger.Debug(ctx, "cache loaded", "notes", len(notes), "folders", len(folders))
	return nil
}

// keepLocalEdits carries field revisions and every Dirty field from old
// into fresh. Revisions keep growing so an in-flight save still matches.
func keepLocalEdits(old, fresh map[string]*cachedNote) {
	for id, o := range old {
		f, ok := fresh[id]
		if !ok {
			if o.dirty() {
				fresh[id] = o
			}
			continue
		}
		for _, field := range models.Fields {
			t := o.fields[field]
			f.fields[field].rev = t.rev
			if t.state == models.Dirty {
				f.note.Set(field, o.note.Get(field))
				f.fields[field].state = models.Dirty
			}
		}
	}
}

func (e *cachedNote) dirty() bool {
	for _, t := range e.fields {
		if t.state == models.Dirty {
			return true
		}
	}
	return false
}

func (c *Cache) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *Cache) remoteError(err error) error {
	switch {
	case errors.Is(err, client.ErrInvalidArgument):
		return fmt.Errorf("%w: %w", ErrValidationFailure, err)
	case errors.Is(err, client.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNoteNotFound, err)
	default:
		return fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	}
}

// CreateNote validates draft, submits it and caches the stored note.
func (c *Cache) CreateNote(ctx context.Context, draft models.NoteDraft, key []byte) (*models.Note, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if err := c.validate.Struct(draft); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailure, err)
	}
	gen := c.generation()

	remote, err := c.client.CreateNote(ctx, &api.CreateNoteRequest{
		Name:     draft.Name,
		Slug:     models.Slugify(draft.Name),
		FolderID: draft.FolderID,
		Owner:    draft.Owner,
	})
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return nil, fmt.Errorf("%w: folder %s: %w", ErrValidationFailure, draft.FolderID, err)
		}
		return nil, c.remoteError(err)
	}
	if remote == nil || remote.ID == "" {
		return nil, fmt.Errorf("%w: store returned no note id", ErrNetworkFailure)
	}
	if remote.Owner != draft.Owner {
		return nil, fmt.Errorf("%w: note %s", ErrOwnerMismatch, remote.ID)
	}

	n, err := decryptNote(remote, key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return nil, ErrCacheCleared
	}
	c.notes[n.ID] = &cachedNote{note: n}
	c.mu.Unlock()

	c.logger.Info(ctx, "note created", "id", n.ID, "slug", n.Slug)
	return &n, nil
}

// Edit changes one field of a cached note locally. The field becomes Dirty
// and stays Dirty through further edits until a save acknowledges it.
// Setting a field to its current value is not an edit. Names are held to
// the same rules as at creation.
func (c *Cache) Edit(id string, field models.Field, value string) error {
	if field == models.FieldName {
		if err := c.validate.Var(strings.TrimSpace(value), "required,max=40"); err != nil {
			return fmt.Errorf("%w: name: %v", ErrValidationFailure, err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.notes[id]
	if !ok {
		return ErrNoteNotFound
	}
	if e.note.Get(field) == value {
		return nil
	}
	e.note.Set(field, value)
	t := &e.fields[field]
	t.rev++
	t.state = models.Dirty
	return nil
}

// Save submits every Dirty field of note id.
func (c *Cache) Save(ctx context.Context, id string, key []byte) (*models.Note, error) {
	return c.submit(ctx, id, models.Fields[:], key)
}

// UpdateNote applies patch as local edits and submits the patched fields
// that are Dirty. Fields outside the patch are never sent, even if Dirty.
func (c *Cache) UpdateNote(ctx context.Context, id string, patch models.NotePatch, key []byte) (*models.Note, error) {
	values := patch.Fields()
	fields := make([]models.Field, 0, len(values))
	for _, f := range models.Fields {
		v, ok := values[f]
		if !ok {
			continue
		}
		if err := c.Edit(id, f, v); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return c.submit(ctx, id, fields, key)
}

func (c *Cache) submit(ctx context.Context, id string, fields []models.Field, key []byte) (*models.Note, error) {
	c.mu.Lock()
	e, ok := c.notes[id]
	if !ok {
		c.mu.Unlock()
		return nil, ErrNoteNotFound
	}
	gen := c.gen

	req := &api.UpdateNoteRequest{ID: id}
	sent := make(map[models.Field]uint64, len(fields))
	var content, tags string
	for _, f := range fields {
		t := e.fields[f]
		if t.state != models.Dirty {
			continue
		}
		sent[f] = t.rev
		switch f {
		case models.FieldName:
			name, slug := e.note.Name, e.note.Slug
			req.Name, req.Slug = &name, &slug
		case models.FieldContent:
			content = e.note.Content
		case models.FieldTags:
			tags = e.note.Tags
		}
	}
	current := e.note
	c.mu.Unlock()

	if len(sent) == 0 {
		return &current, nil
	}

	if _, ok := sent[models.FieldContent]; ok {
		enc, err := encryptField(content, key)
		if err != nil {
			return nil, fmt.Errorf("encrypt content: %w", err)
		}
		req.Content = &enc
	}
	if _, ok := sent[models.FieldTags]; ok {
		enc, err := encryptField(tags, key)
		if err != nil {
			return nil, fmt.Errorf("encrypt tags: %w", err)
		}
		req.Tags = &enc
	}

	remote, err := c.client.UpdateNote(ctx, req)
	if err != nil {
		c.logger.Warn(ctx, "note update failed", "id", id, "error", err)
		return nil, c.remoteError(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return nil, ErrCacheCleared
	}
	e, ok = c.notes[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	for f, rev := range sent {
		if e.fields[f].rev == rev {
			e.fields[f].state = models.Clean
		}
	}
	if remote != nil && !remote.UpdatedAt.IsZero() {
		e.note.UpdatedAt = remote.UpdatedAt
	}
	n := e.note
	return &n, nil
}

// RemoveNote deletes note id remotely and evicts it. Removing a note that
// is not cached, or that the store no longer has, succeeds.
func (c *Cache) RemoveNote(ctx context.Context, id string) error {
	c.mu.Lock()
	_, ok := c.notes[id]
	c.mu.Unlock()
	if !ok {
		return nil
	}

	if err := c.client.DeleteNote(ctx, id); err != nil && !errors.Is(err, client.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	}

	c.mu.Lock()
	delete(c.notes, id)
	c.mu.Unlock()
	return nil
}

// CreateFolder validates and submits a new folder and caches it.
func (c *Cache) CreateFolder(ctx context.Context, name, owner string) (*models.Folder, error) {
	draft := models.FolderDraft{Name: strings.TrimSpace(name), Owner: owner}
	if err := c.validate.Struct(draft); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailure, err)
	}
	gen := c.generation()

	remote, err := c.client.CreateFolder(ctx, draft.Name, draft.Owner)
	if err != nil {
		return nil, c.remoteError(err)
	}
	if remote == nil || remote.ID == "" {
		return nil, fmt.Errorf("%w: store returned no folder id", ErrNetworkFailure)
	}
	if remote.Owner != draft.Owner {
		return nil, fmt.Errorf("%w: folder %s", ErrOwnerMismatch, remote.ID)
	}

	f := models.Folder{ID: remote.ID, Name: remote.Name, Owner: remote.Owner}
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return nil, ErrCacheCleared
	}
	c.folders[f.ID] = f
	c.mu.Unlock()
	return &f, nil
}

// Note returns a copy of the cached note.
func (c *Cache) Note(id string) (models.Note, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.notes[id]
	if !ok {
		return models.Note{}, false
	}
	return e.note, true
}

// State returns the sync state of one field.
func (c *Cache) State(id string, field models.Field) (models.FieldState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.notes[id]
	if !ok {
		return models.Clean, false
	}
	return e.fields[field].state, true
}

// DirtyFields lists the unsaved fields of note id.
func (c *Cache) DirtyFields(id string) []models.Field {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.notes[id]
	if !ok {
		return nil
	}
	var out []models.Field
	for _, f := range models.Fields {
		if e.fields[f].state == models.Dirty {
			out = append(out, f)
		}
	}
	return out
}

func (c *Cache) collect(keep func(*models.Note) bool) []models.Note {
	c.mu.Lock()
	out := make([]models.Note, 0, len(c.notes))
	for _, e := range c.notes {
		if keep == nil || keep(&e.note) {
			out = append(out, e.note)
		}
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Notes returns all cached notes ordered by name.
func (c *Cache) Notes() []models.Note {
	return c.collect(nil)
}

func (c *Cache) NotesInFolder(folderID string) []models.Note {
	return c.collect(func(n *models.Note) bool { return n.FolderID == folderID })
}

// Search returns notes whose name or tags contain query, ignoring case.
// An empty query matches everything.
func (c *Cache) Search(query string) []models.Note {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.Notes()
	}
	return c.collect(func(n *models.Note) bool {
		return strings.Contains(strings.ToLower(n.Name), q) || strings.Contains(strings.ToLower(n.Tags), q)
	})
}

// Folders returns the cached folders ordered by name.
func (c *Cache) Folders() []models.Folder {
	c.mu.Lock()
	out := make([]models.Folder, 0, len(c.folders))
	for _, f := range c.folders {
		out = append(out, f)
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Clear drops everything cached. Operations already in flight do not
// write their results back.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.notes = make(map[string]*cachedNote)
	c.folders = make(map[string]models.Folder)
	c.gen++
	c.mu.Unlock()
}
