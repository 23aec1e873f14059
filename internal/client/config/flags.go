package config

import (
	"flag"
	"io"
	"time"

	"github.com/finiam/notes-app/internal/flagx"
)

// parseFlags overlays cfg with the client's short flags:
//
//	-a string   store gRPC address
//	-k string   keystore path
//	-s string   identity secret
//	-u string   share base URL
//	-t int      request timeout (seconds)
//	-i int      online check interval (seconds)
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-k", "-s", "-u", "-t", "-i"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.KeystorePath, "k", cfg.KeystorePath, "wallet keystore path")
	fs.StringVar(&cfg.IdentitySecret, "s", cfg.IdentitySecret, "identity message secret")
	fs.StringVar(&cfg.ShareBaseURL, "u", cfg.ShareBaseURL, "base URL for share links")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
	return nil
}
