package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/finiam/notes-app/internal/flagx"
	"github.com/finiam/notes-app/internal/timex"
)

// JsonConfig is the file form of Config. Durations accept "3s" or
// integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	KeystorePath        string         `json:"keystore_path"`
	IdentitySecret      string         `json:"identity_secret"`
	ShareBaseURL        string         `json:"share_base_url"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
}

// parseJSON overlays cfg with the non-empty values of the file named by
// -c/-config. Without the flag it does nothing.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.KeystorePath, jc.KeystorePath)
	setString(&cfg.IdentitySecret, jc.IdentitySecret)
	setString(&cfg.ShareBaseURL, jc.ShareBaseURL)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
