package config

import "time"

// Config holds runtime settings for the notes CLI.
type Config struct {
	// ServerEndpointAddr is host:port of the store gRPC endpoint.
	ServerEndpointAddr string
	// KeystorePath is the local wallet keystore file.
	KeystorePath string
	// IdentitySecret is appended to the identity message the wallet signs.
	// Changing it changes every user's identity.
	IdentitySecret string
	// ShareBaseURL prefixes share locators.
	ShareBaseURL        string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.KeystorePath = "wallet.json"
	c.IdentitySecret = "notes-app"
	c.ShareBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
}

// LoadConfig applies defaults, then the JSON file named by -c/-config, then
// command-line flags. Later sources take precedence. args excludes the
// program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
