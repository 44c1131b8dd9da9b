package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "VENDORDESK_"

// dotenvFiles are loaded, when they exist, before the environment is read.
// Variables already set in the process environment win.
var dotenvFiles = []string{".env"}

// parseEnv overlays Config with VENDORDESK_* environment variables.
func parseEnv(cfg *Config) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	lookupString("API_URL", &cfg.APIBaseURL)
	lookupDuration("REQUEST_TIMEOUT", &cfg.RequestTimeout)
	lookupDuration("REFRESH_TIMEOUT", &cfg.RefreshTimeout)
	lookupString("DB_PATH", &cfg.DBPath)
	lookupString("PASSPHRASE", &cfg.Passphrase)
	lookupString("LOG_LEVEL", &cfg.LogLevel)
	lookupString("CALLBACK_ADDR", &cfg.CallbackAddr)
}

func lookupString(name string, dst *string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		*dst = v
	}
}

func lookupDuration(name string, dst *time.Duration) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
