package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:5001/api", c.APIBaseURL)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, 15*time.Second, c.RefreshTimeout)
	assert.NotEmpty(t, c.DBPath)
	assert.Empty(t, c.Passphrase)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "127.0.0.1:8765", c.CallbackAddr)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Setenv("VENDORDESK_API_URL", "http://env:1/api")
	t.Setenv("VENDORDESK_LOG_LEVEL", "warn")
	path := writeTempJSON(t, "", "", map[string]any{
		"log_level":       "debug",
		"refresh_timeout": "5s",
	})
	os.Args = []string{"testbin", "-c", path, "-a", "http://flag:2/api"}

	cfg := LoadConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "http://flag:2/api", cfg.APIBaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.RefreshTimeout)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}
