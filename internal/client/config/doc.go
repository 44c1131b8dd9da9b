// Package config loads runtime configuration for the vendordesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: VENDORDESK_* variables, after loading an optional .env
//     file from the working directory.
//  3. Optional JSON file selected via flags: -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   backend API base URL
//	-t int      request timeout (seconds)
//	-r int      token refresh timeout (seconds)
//	-d string   path of the local SQLite database
//	-k string   passphrase for encrypting local storage
//	-l string   log level (debug, info, warn, error)
//	-cb string  address of the onboarding return listener
//
// # Environment
//
//	VENDORDESK_API_URL, VENDORDESK_REQUEST_TIMEOUT, VENDORDESK_REFRESH_TIMEOUT,
//	VENDORDESK_DB_PATH, VENDORDESK_PASSPHRASE, VENDORDESK_LOG_LEVEL,
//	VENDORDESK_CALLBACK_ADDR
//
// Timeouts in the environment are Go duration strings ("15s").
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "15s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:5001/api",
//	  "request_timeout": "30s",
//	  "refresh_timeout": "15s",
//	  "db_path": "/home/me/.vendordesk/vendordesk.db",
//	  "log_level": "info",
//	  "callback_addr": "127.0.0.1:8765"
//	}
//
// Invalid input at any stage panics; configuration is read once at startup.
package config
