package cli

import (
	"bufio"
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/finiam/notes-app/internal/client/client"
	"github.com/finiam/notes-app/internal/client/config"
	"github.com/finiam/notes-app/internal/client/services"
	"github.com/finiam/notes-app/internal/logging"
	"github.com/finiam/notes-app/internal/wallet"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// connector is the part of services.Connector the App uses.
type connector interface {
	Connect(ctx context.Context) (*services.Session, error)
}

type App struct {
	config    *config.Config
	client    client.Client
	connector connector
	opener    *services.Opener
	logger    logging.Logger

	reader *bufio.Reader
	out    io.Writer

	mu      sync.Mutex
	session *services.Session
	Mode    Mode
}

// NewApp wires the store client, the keystore signer and the connector.
func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	a := &App{
		config: c,
		client: apiClient,
		opener: services.NewOpener(apiClient),
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	signer := wallet.NewLocalSigner(c.KeystorePath, wallet.TerminalPassphrase(os.Stdout, "Wallet passphrase: "), a.confirmSignature)
	a.connector = services.NewConnector(signer, apiClient, services.ConnectorConfig{
		IdentitySecret: c.IdentitySecret,
		ShareBaseURL:   c.ShareBaseURL,
		Rand:           rand.Reader,
	}, logger)

	return a, nil
}

// confirmSignature asks the user to approve a wallet signature.
func (a *App) confirmSignature(message string) bool {
	fmt.Fprintf(a.out, "The client asks your wallet to sign:\n---\n%s\n---\n", message)
	answer, err := GetSimpleText(a.reader, "Sign? [y/N]", a.out)
	if err != nil {
		return false
	}
	return answer == "y" || answer == "Y" || answer == "yes"
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()
	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

func (a *App) currentSession() *services.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

func (a *App) isConnected() bool {
	return a.currentSession() != nil
}

// Run starts the connectivity watcher and the REPL and blocks until the
// user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer func() {
		a.disconnect()
		_ = a.client.Close()
	}()

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	fmt.Fprintln(a.out, "Notes CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

// StartOnlineStatusWatcher pings the store every interval and records
// whether it is reachable.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := a.client.Ping(pingCtx); err != nil {
			a.setMode(ctx, ModeOffline)
			return
		}
		a.setMode(ctx, ModeOnline)
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			check()
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.session != nil {
		s = shortAccount(a.session.Account) + " "
	}
	s += string(a.Mode)
	if s == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", s)
}

func shortAccount(acc string) string {
	if len(acc) <= 12 {
		return acc
	}
	return acc[:6] + "…" + acc[len(acc)-4:]
}

// withTimeout bounds a single store operation.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
