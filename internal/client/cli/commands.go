package cli

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/finiam/notes-app/internal/client/models"
	"github.com/finiam/notes-app/internal/client/services"
	"github.com/finiam/notes-app/internal/common"
	"github.com/finiam/notes-app/internal/wallet"
)

var errUsage = errors.New("usage")

// report prints st unless it is silent and returns err unchanged.
func (a *App) report(st services.Status, err error) error {
	if !st.Silent {
		fmt.Fprintf(a.out, "[%s] %s\n", st.Kind, st.Message)
	}
	if err != nil {
		a.logger.Debug(context.Background(), "command failed", "error", err)
	}
	return err
}

func (a *App) loading(msg string) {
	fmt.Fprintf(a.out, "[%s] %s\n", services.StatusLoading, msg)
}

func (a *App) usage(text string) error {
	fmt.Fprintln(a.out, "Usage:", text)
	return errUsage
}

func (a *App) requireSession() (*services.Session, error) {
	s := a.currentSession()
	if s == nil {
		fmt.Fprintln(a.out, "Not connected. Run 'connect' first.")
		return nil, errors.New("not connected")
	}
	return s, nil
}

// Connect runs the wallet handshake and loads the user's notes.
func (a *App) Connect(ctx context.Context, _ []string) error {
	if a.isConnected() {
		fmt.Fprintln(a.out, "Already connected.")
		return nil
	}

	s, err := a.connector.Connect(ctx)
	if err != nil {
		return a.report(services.StatusFor(err, ""), err)
	}

	a.mu.Lock()
	a.session = s
	a.mu.Unlock()

	a.loading("Getting data...")
	loadCtx, cancel := a.withTimeout(ctx)
	defer cancel()
	st := s.Load(loadCtx)
	if st.Kind == services.StatusError {
		return a.report(st, errors.New(st.Message))
	}
	return a.report(st, nil)
}

func (a *App) disconnect() {
	a.mu.Lock()
	s := a.session
	a.session = nil
	a.mu.Unlock()
	if s != nil {
		s.Close()
	}
}

func (a *App) Disconnect(ctx context.Context, _ []string) error {
	if !a.isConnected() {
		fmt.Fprintln(a.out, "Not connected.")
		return nil
	}
	a.disconnect()
	fmt.Fprintln(a.out, "Disconnected.")
	return nil
}

func (a *App) Folders(ctx context.Context, _ []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	folders := s.Cache.Folders()
	if len(folders) == 0 {
		fmt.Fprintln(a.out, "No folders yet. Create one with 'mkfolder <name>'.")
	}
	for _, f := range folders {
		fmt.Fprintf(a.out, "%s  %s (%d notes)\n", f.ID, f.Name, len(s.Cache.NotesInFolder(f.ID)))
	}
	return nil
}

func (a *App) MakeFolder(ctx context.Context, args []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return a.usage("mkfolder <name>")
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	f, err := s.CreateFolder(ctx, strings.Join(args, " "))
	return a.report(services.StatusFor(err, "Created folder "+folderLabel(f)), err)
}

func folderLabel(f *models.Folder) string {
	if f == nil {
		return ""
	}
	return f.Name + " (" + f.ID + ")"
}

func (a *App) printNotes(notes []models.Note, openID string) {
	if len(notes) == 0 {
		fmt.Fprintln(a.out, "No notes.")
		return
	}
	for _, n := range notes {
		marker := " "
		if n.ID == openID {
			marker = "*"
		}
		line := fmt.Sprintf("%s %s  %s [%s]", marker, n.ID, n.Name, n.Slug)
		if n.Tags != "" {
			line += "  #" + n.Tags
		}
		fmt.Fprintln(a.out, line)
	}
}

func openID(s *services.Session) string {
	n, err := s.OpenNote()
	if err != nil {
		return ""
	}
	return n.ID
}

// Notes lists all notes, or the notes of one folder.
func (a *App) Notes(ctx context.Context, args []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		a.printNotes(s.Cache.NotesInFolder(args[0]), openID(s))
		return nil
	}
	a.printNotes(s.Cache.Notes(), openID(s))
	return nil
}

func (a *App) Find(ctx context.Context, args []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	a.printNotes(s.Cache.Search(strings.Join(args, " ")), openID(s))
	return nil
}

// NewNote creates a note in a folder and opens it.
func (a *App) NewNote(ctx context.Context, args []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return a.usage("new <folder-id> <name>")
	}
	a.loading("Creating note...")
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	_, err = s.CreateNote(ctx, strings.Join(args[1:], " "), args[0])
	return a.report(services.StatusFor(err, "Created note"), err)
}

func (a *App) OpenNote(ctx context.Context, args []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return a.usage("open <note-id>")
	}
	n, err := s.Open(args[0])
	if err != nil {
		return a.report(services.StatusFor(err, ""), err)
	}
	a.printNote(s, n)
	return nil
}

func (a *App) printNote(s *services.Session, n models.Note) {
	fmt.Fprintf(a.out, "# %s  (%s)\n", n.Name, n.Slug)
	if n.Tags != "" {
		fmt.Fprintf(a.out, "tags: %s\n", n.Tags)
	}
	fmt.Fprintln(a.out, n.Content)
	if dirty := s.Cache.DirtyFields(n.ID); len(dirty) > 0 {
		names := make([]string, len(dirty))
		for i, f := range dirty {
			names[i] = f.String()
		}
		fmt.Fprintf(a.out, "(unsaved: %s)\n", strings.Join(names, ", "))
	}
}

func (a *App) editOpen(field models.Field, value string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	if err := s.Edit(field, value); err != nil {
		return a.report(services.StatusFor(err, ""), err)
	}
	fmt.Fprintf(a.out, "%s changed (not saved)\n", field)
	return nil
}

func (a *App) EditName(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("name <new name>")
	}
	return a.editOpen(models.FieldName, strings.Join(args, " "))
}

func (a *App) EditTags(ctx context.Context, args []string) error {
	return a.editOpen(models.FieldTags, strings.Join(args, " "))
}

// EditContent replaces the open note's body with multi-line input.
func (a *App) EditContent(ctx context.Context, _ []string) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	text, err := GetMultiline(a.reader, "Enter note text", a.out)
	if err != nil {
		return err
	}
	return a.editOpen(models.FieldContent, text)
}

func (a *App) Save(ctx context.Context, _ []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	a.loading("Saving...")
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	_, err = s.Save(ctx)
	return a.report(services.StatusFor(err, "Saved note"), err)
}

// Remove deletes the given note, or the open one.
func (a *App) Remove(ctx context.Context, args []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	id := openID(s)
	if len(args) > 0 {
		id = args[0]
	}
	if id == "" {
		return a.usage("rm <note-id>")
	}
	a.loading("Removing...")
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	err = s.Remove(ctx, id)
	return a.report(services.StatusFor(err, "Removed note"), err)
}

// Share prints a link to an encrypted snapshot of the given or open note.
func (a *App) Share(ctx context.Context, args []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	id := openID(s)
	if len(args) > 0 {
		id = args[0]
	}
	if id == "" {
		return a.usage("share <note-id>")
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	link, err := s.Share(ctx, id)
	if err != nil {
		return a.report(services.StatusFor(err, ""), err)
	}
	fmt.Fprintln(a.out, "Anyone with this link can read the note as it is now:")
	fmt.Fprintln(a.out, link)
	return nil
}

// View opens a share link. It needs no wallet.
func (a *App) View(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("view <link>")
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	n, err := a.opener.Open(ctx, args[0])
	if err != nil {
		return a.report(services.StatusFor(err, ""), err)
	}
	fmt.Fprintf(a.out, "# %s\n", n.Name)
	if n.Tags != "" {
		fmt.Fprintf(a.out, "tags: %s\n", n.Tags)
	}
	fmt.Fprintln(a.out, n.Content)
	return nil
}

// Status reloads the cache and prints the result.
func (a *App) Status(ctx context.Context, _ []string) error {
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	st := s.Load(ctx)
	fmt.Fprintf(a.out, "account: %s\nnotes: %d, folders: %d\n", s.Account, len(s.Cache.Notes()), len(s.Cache.Folders()))
	return a.report(st, nil)
}

// WalletInit creates a local keystore at the configured path.
func (a *App) WalletInit(ctx context.Context, _ []string) error {
	path := a.config.KeystorePath
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(a.out, "A keystore already exists at %s.\n", path)
		return nil
	}

	pass, err := wallet.TerminalPassphrase(a.out, "New passphrase: ")()
	if err != nil {
		return a.report(services.StatusFor(err, ""), err)
	}
	defer common.WipeByteArray(pass)
	again, err := wallet.TerminalPassphrase(a.out, "Repeat passphrase: ")()
	if err != nil {
		return a.report(services.StatusFor(err, ""), err)
	}
	defer common.WipeByteArray(again)
	if string(pass) != string(again) {
		fmt.Fprintln(a.out, "Passphrases do not match.")
		return errors.New("passphrase mismatch")
	}

	ks, err := wallet.NewKeystore(rand.Reader, pass)
	if err == nil {
		err = ks.Save(path)
	}
	if err != nil {
		return a.report(services.StatusFor(err, ""), err)
	}
	fmt.Fprintf(a.out, "Wallet %s created at %s\n", ks.Account, path)
	return nil
}
