package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/vendordesk/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. os.Args is
// filtered with flagx.FilterArgs first so flags owned by other loaders, and
// the REPL's own arguments, do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-r", "-d", "-k", "-l", "-cb"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base URL")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	refreshTimeout := fs.Int("r", int(cfg.RefreshTimeout.Seconds()), "token refresh timeout (in seconds)")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path of the local database")
	fs.StringVar(&cfg.Passphrase, "k", cfg.Passphrase, "passphrase for local storage encryption")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.CallbackAddr, "cb", cfg.CallbackAddr, "onboarding return listener address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// sub-second values from earlier sources survive unless overridden here
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
		case "r":
			cfg.RefreshTimeout = time.Duration(*refreshTimeout) * time.Second
		}
	})
}
