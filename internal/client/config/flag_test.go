package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "127.0.0.1:9090", "-k", "/tmp/w.json", "-s", "team", "-u", "https://x", "-t", "3", "-i", "10"},
			expected: &Config{
				ServerEndpointAddr:  "127.0.0.1:9090",
				KeystorePath:        "/tmp/w.json",
				IdentitySecret:      "team",
				ShareBaseURL:        "https://x",
				RequestTimeout:      3 * time.Second,
				OnlineCheckInterval: 10 * time.Second,
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"-x", "1", "-a", "h:1"},
			expected: &Config{ServerEndpointAddr: "h:1"},
		},
		{name: "bad interval", args: []string{"-i", "abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
