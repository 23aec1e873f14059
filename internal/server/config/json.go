package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/finiam/notes-app/internal/flagx"
	"github.com/finiam/notes-app/internal/timex"
)

// JsonConfig is the file form of Config. It uses timex.Duration for
// durations, which accepts both strings such as "30m" and integer
// nanoseconds. After unmarshalling, its non-empty fields are copied into
// the runtime Config.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	SnapshotBackend             string         `json:"snapshot_backend"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
}

// parseJSON loads configuration values from the JSON file named by the -c
// or -config flag. If neither flag is present, no file is loaded.
func parseJSON(config *Config, args []string) error {
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

	setString(&config.EndpointAddrGRPC, jc.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, jc.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, jc.DatabaseDSN)
	setString(&config.SecretKey, jc.SecretKey)
	setString(&config.SnapshotBackend, jc.SnapshotBackend)
	setString(&config.S3RootUser, jc.S3RootUser)
	setString(&config.S3RootPassword, jc.S3RootPassword)
	setString(&config.S3Bucket, jc.S3Bucket)
	setString(&config.S3Region, jc.S3Region)
	setString(&config.S3BaseEndpoint, jc.S3BaseEndpoint)
	if jc.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = jc.AccessTokenValidityDuration.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
