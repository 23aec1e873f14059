package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests use a stub.
type execIface interface {
	isConnected() bool
	Connect(ctx context.Context, args []string) error
	Disconnect(ctx context.Context, args []string) error
	Folders(ctx context.Context, args []string) error
	MakeFolder(ctx context.Context, args []string) error
	Notes(ctx context.Context, args []string) error
	NewNote(ctx context.Context, args []string) error
	OpenNote(ctx context.Context, args []string) error
	EditName(ctx context.Context, args []string) error
	EditContent(ctx context.Context, args []string) error
	EditTags(ctx context.Context, args []string) error
	Save(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Share(ctx context.Context, args []string) error
	View(ctx context.Context, args []string) error
	Find(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	WalletInit(ctx context.Context, args []string) error
}

const (
	helpDisconnected = "Available commands: connect, view <link>, wallet-init, exit"
	helpConnected    = "Available commands: folders, mkfolder <name>, notes [folder], new <folder> <name>, open <id>, " +
		"name <text>, content, tags <text>, save, rm [id], share [id], view <link>, find <text>, status, disconnect, exit"
)

// runREPL reads one command per line from r until EOF, "exit" or "quit".
// Command errors are reported by the handlers themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "notes %s> ", statusFn())

		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var handler func(context.Context, []string) error
		switch cmd {
		case "help":
			if a.isConnected() {
				fmt.Fprintln(w, helpConnected)
			} else {
				fmt.Fprintln(w, helpDisconnected)
			}
		case "connect":
			handler = a.Connect
		case "disconnect":
			handler = a.Disconnect
		case "folders":
			handler = a.Folders
		case "mkfolder":
			handler = a.MakeFolder
		case "notes", "l", "list":
			handler = a.Notes
		case "new":
			handler = a.NewNote
		case "open":
			handler = a.OpenNote
		case "name":
			handler = a.EditName
		case "content":
			handler = a.EditContent
		case "tags":
			handler = a.EditTags
		case "save":
			handler = a.Save
		case "rm":
			handler = a.Remove
		case "share":
			handler = a.Share
		case "view":
			handler = a.View
		case "find":
			handler = a.Find
		case "status":
			handler = a.Status
		case "wallet-init":
			handler = a.WalletInit
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if handler != nil {
			_ = handler(ctx, args)
		}
	}
}
