// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// APIBaseURL is the base path of the work-order REST backend, always
	// normalized to end with a trailing slash.
	APIBaseURL string
	// ListenAddr is the panel's own listen address.
	ListenAddr string
	// DBPath is the sqlite file holding the encrypted session credential.
	DBPath string
	// SecretKey is the 32-byte AES-256 key for the credential store, or nil
	// when WORKPANEL_SECRET_KEY is unset (credential persistence disabled).
	SecretKey []byte
}

// Load reads configuration from environment variables and returns a validated
// Config. Optional variables with defaults: WORKPANEL_API_URL
// (http://127.0.0.1:8000/api/), WORKPANEL_LISTEN_ADDR (127.0.0.1:8080),
// WORKPANEL_DB_PATH (workpanel.db). WORKPANEL_SECRET_KEY, when set, must be
// 64 hex characters (32 bytes); without it the session cannot be persisted
// across restarts.
func Load() (*Config, error) {
	apiBaseURL := "http://127.0.0.1:8000/api/"
	if v, ok := os.LookupEnv("WORKPANEL_API_URL"); ok {
		u, err := url.Parse(v)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("WORKPANEL_API_URL has invalid URL %q", v)
		}
		apiBaseURL = v
		if !strings.HasSuffix(apiBaseURL, "/") {
			apiBaseURL += "/"
		}
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("WORKPANEL_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "workpanel.db"
	if v, ok := os.LookupEnv("WORKPANEL_DB_PATH"); ok {
		dbPath = v
	}

	var secretKey []byte
	if v, ok := os.LookupEnv("WORKPANEL_SECRET_KEY"); ok && v != "" {
		decoded, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("WORKPANEL_SECRET_KEY is not valid hex: %w", err)
		}
		if len(decoded) != 32 {
			return nil, fmt.Errorf("WORKPANEL_SECRET_KEY must decode to 32 bytes, got %d", len(decoded))
		}
		secretKey = decoded
	}

	return &Config{
		APIBaseURL: apiBaseURL,
		ListenAddr: listenAddr,
		DBPath:     dbPath,
		SecretKey:  secretKey,
	}, nil
}
