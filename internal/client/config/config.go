package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the vendordesk CLI.
//
// Fields:
//   - APIBaseURL: base URL of the vendor backend REST API.
//   - RequestTimeout: per-request HTTP timeout.
//   - RefreshTimeout: upper bound for one token refresh.
//   - DBPath: SQLite file holding tokens and persisted auth state.
//   - Passphrase: when set, local values are encrypted at rest.
//   - LogLevel: minimum level written to stderr.
//   - CallbackAddr: loopback address the Stripe onboarding return hits.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	RefreshTimeout time.Duration
	DBPath         string
	Passphrase     string
	LogLevel       string
	CallbackAddr   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5001/api"
	c.RequestTimeout = 30 * time.Second
	c.RefreshTimeout = 15 * time.Second
	c.DBPath = defaultDBPath()
	c.Passphrase = ""
	c.LogLevel = "info"
	c.CallbackAddr = "127.0.0.1:8765"
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "vendordesk.db"
	}
	return filepath.Join(home, ".vendordesk", "vendordesk.db")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
