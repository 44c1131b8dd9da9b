package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/vendordesk/internal/buildinfo"
	"github.com/dmitrijs2005/vendordesk/internal/client/callback"
	"github.com/dmitrijs2005/vendordesk/internal/client/cli"
	"github.com/dmitrijs2005/vendordesk/internal/client/client"
	"github.com/dmitrijs2005/vendordesk/internal/client/config"
	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/client/refresh"
	"github.com/dmitrijs2005/vendordesk/internal/client/services"
	"github.com/dmitrijs2005/vendordesk/internal/client/state"
	"github.com/dmitrijs2005/vendordesk/internal/client/storage"
	"github.com/dmitrijs2005/vendordesk/internal/logging"
	"github.com/dmitrijs2005/vendordesk/internal/metrics"
	"golang.org/x/term"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	log := logging.New(os.Stderr, logFormat(), cfg.LogLevel)

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "vendordesk stopped", "error", err)
		os.Exit(1)
	}
}

// logFormat keeps pretty output for a terminal and JSON lines otherwise.
func logFormat() string {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return "console"
	}
	return "json"
}

// sessionEvents forwards refresh outcomes to the auth service, which is
// built after the coordinator it depends on.
type sessionEvents struct {
	target refresh.Listener
}

func (s *sessionEvents) TokensRefreshed(ctx context.Context, t models.Tokens) {
	if s.target != nil {
		s.target.TokensRefreshed(ctx, t)
	}
}

func (s *sessionEvents) SessionExpired(ctx context.Context, cause error) {
	if s.target != nil {
		s.target.SessionExpired(ctx, cause)
	}
}

func run(ctx context.Context, cfg *config.Config, log logging.Logger) error {
	db, err := storage.OpenSQLite(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}
	defer db.Close()

	var store storage.Store = storage.NewSQLiteStore(db)
	if cfg.Passphrase != "" {
		enc, err := storage.NewEncryptedStore(ctx, store, []byte(cfg.Passphrase))
		if err != nil {
			return fmt.Errorf("unlock local store: %w", err)
		}
		defer enc.Wipe()
		store = enc
	}
	tokens := storage.NewTokenStore(store)

	m := metrics.New()
	httpClient := client.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout,
		client.WithLogger(log.With("component", "http")),
		client.WithMetrics(m),
	)

	events := &sessionEvents{}
	coordinator := refresh.NewCoordinator(httpClient, tokens, refresh.Config{Timeout: cfg.RefreshTimeout},
		refresh.WithLogger(log.With("component", "refresh")),
		refresh.WithMetrics(m),
		refresh.WithListener(events),
	)
	api := client.NewAPI(httpClient, coordinator)

	authState := state.NewAuthStore()
	authSvc := services.NewAuthService(api, tokens, coordinator, authState, log.With("service", "auth"))
	events.target = authSvc

	returns := callback.New(cfg.CallbackAddr, m, log.With("component", "callback"))
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = returns.Shutdown(sctx)
	}()

	app := cli.NewApp(cli.Deps{
		Auth:     authSvc,
		Products: services.NewProductService(api, state.NewProductsStore(), authState, log.With("service", "products")),
		Account:  services.NewAccountService(api, state.NewAccountStore(), authState, log.With("service", "account")),
		Stripe:   services.NewStripeService(api, state.NewStripeStore(), authState, log.With("service", "stripe")),
		Returns:  returns,
		Metrics:  m,
		Log:      log,
	})
	return app.Run(ctx)
}
