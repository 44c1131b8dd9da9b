package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/vendordesk/internal/flagx"
	"github.com/dmitrijs2005/vendordesk/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the corresponding Config field untouched.
type JsonConfig struct {
	APIBaseURL     *string         `json:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	RefreshTimeout *timex.Duration `json:"refresh_timeout"`
	DBPath         *string         `json:"db_path"`
	Passphrase     *string         `json:"passphrase"`
	LogLevel       *string         `json:"log_level"`
	CallbackAddr   *string         `json:"callback_addr"`
}

// parseJson overlays Config with values loaded from the file named by -c or
// -config. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	path := flagx.JSONConfigPath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIf(&cfg.APIBaseURL, jc.APIBaseURL)
	setIf(&cfg.DBPath, jc.DBPath)
	setIf(&cfg.Passphrase, jc.Passphrase)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.CallbackAddr, jc.CallbackAddr)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RefreshTimeout != nil {
		cfg.RefreshTimeout = jc.RefreshTimeout.Duration
	}
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
