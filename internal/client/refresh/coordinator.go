// Package refresh serializes access-token refreshes for concurrent API calls.
//
// Coordinator wraps every authorized request. When a request fails with
// common.ErrUnauthorized it either starts a refresh or joins the one already
// in flight, then replays the request once with the new access token. If the
// refresh fails, the stored tokens are cleared, the listener is told the
// session expired, and every caller gets its own original error back.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/vendordesk/internal/client/client"
	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/common"
	"github.com/dmitrijs2005/vendordesk/internal/logging"
	"github.com/dmitrijs2005/vendordesk/internal/metrics"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds a refresh when Config.Timeout is zero.
const DefaultTimeout = 15 * time.Second

const flightKey = "refresh"

// Refresher exchanges a refresh token for a new pair. It must not go through
// the Coordinator.
type Refresher interface {
	RefreshTokens(ctx context.Context, refreshToken string) (models.Tokens, error)
}

type TokenStore interface {
	Load(ctx context.Context) (models.Tokens, error)
	Save(ctx context.Context, t models.Tokens) error
	Clear(ctx context.Context) error
}

// Listener observes refresh outcomes. Calls happen on the refreshing
// goroutine, once per refresh.
type Listener interface {
	TokensRefreshed(ctx context.Context, t models.Tokens)
	SessionExpired(ctx context.Context, cause error)
}

type Config struct {
	// Timeout bounds one refresh. The refresh runs detached from the caller
	// that triggered it, so a canceled caller does not fail the other
	// waiters.
	Timeout time.Duration
}

type Coordinator struct {
	refresher Refresher
	tokens    TokenStore
	listener  Listener
	log       logging.Logger
	metrics   *metrics.Metrics
	timeout   time.Duration

	group    singleflight.Group
	mu       sync.Mutex
	inFlight bool
}

type Option func(*Coordinator)

func WithLogger(l logging.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

func WithListener(l Listener) Option {
	return func(c *Coordinator) { c.listener = l }
}

func NewCoordinator(r Refresher, t TokenStore, cfg Config, opts ...Option) *Coordinator {
	c := &Coordinator{
		refresher: r,
		tokens:    t,
		listener:  nopListener{},
		log:       logging.Nop(),
		timeout:   cfg.Timeout,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Do runs fn with the stored access token. On an unauthorized error it
// obtains a fresh token and runs fn exactly once more.
func (c *Coordinator) Do(ctx context.Context, fn client.RequestFunc) error {
	tok, err := c.tokens.Load(ctx)
	if err != nil {
		return fmt.Errorf("load tokens: %w", err)
	}

	err = fn(ctx, tok.AccessToken)
	if err == nil || !errors.Is(err, common.ErrUnauthorized) {
		return err
	}

	fresh, rerr := c.Refresh(ctx, tok.AccessToken)
	if rerr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}

	c.metrics.ObserveRetry()
	return fn(ctx, fresh)
}

// Refresh returns an access token newer than stale. If a completed refresh
// already replaced stale, the current token is returned without a network
// call; otherwise the caller starts or joins the single in-flight refresh.
func (c *Coordinator) Refresh(ctx context.Context, stale string) (string, error) {
	if cur, err := c.tokens.Load(ctx); err == nil && cur.AccessToken != "" && cur.AccessToken != stale {
		c.metrics.ObserveRefresh(metrics.RefreshStale)
		return cur.AccessToken, nil
	}

	c.mu.Lock()
	if c.inFlight {
		c.metrics.ObserveWaiter()
	}
	c.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flightKey, func() (any, error) {
		c.setInFlight(true)
		defer c.setInFlight(false)
		return c.run(detached, stale)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Coordinator) setInFlight(v bool) {
	c.mu.Lock()
	c.inFlight = v
	c.mu.Unlock()
}

func (c *Coordinator) run(parent context.Context, stale string) (string, error) {
	ctx, cancel := context.WithTimeout(parent, c.timeout)
	defer cancel()

	tok, err := c.tokens.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load tokens: %w", err)
	}
	if tok.AccessToken != "" && tok.AccessToken != stale {
		c.metrics.ObserveRefresh(metrics.RefreshStale)
		return tok.AccessToken, nil
	}

	if tok.RefreshToken == "" {
		c.expire(ctx, !tok.IsZero(), common.ErrNoRefreshToken)
		return "", common.ErrNoRefreshToken
	}

	c.log.Debug(ctx, "refreshing access token")

	fresh, err := c.refresher.RefreshTokens(ctx, tok.RefreshToken)
	if err != nil {
		c.expire(ctx, true, err)
		return "", err
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = tok.RefreshToken
	}

	if err := c.tokens.Save(ctx, fresh); err != nil {
		c.metrics.ObserveRefresh(metrics.RefreshFailure)
		return "", fmt.Errorf("save tokens: %w", err)
	}

	c.metrics.ObserveRefresh(metrics.RefreshSuccess)
	c.log.Info(ctx, "access token refreshed")
	c.listener.TokensRefreshed(ctx, fresh)
	return fresh.AccessToken, nil
}

// expire drops the stored session. notify is false when there was nothing
// to expire.
func (c *Coordinator) expire(ctx context.Context, notify bool, cause error) {
	c.metrics.ObserveRefresh(metrics.RefreshFailure)

	if err := c.tokens.Clear(ctx); err != nil {
		c.log.Error(ctx, "failed to clear tokens", "error", err)
	}
	if !notify {
		return
	}
	c.log.Warn(ctx, "session expired", "error", cause)
	c.listener.SessionExpired(ctx, cause)
}

type nopListener struct{}

func (nopListener) TokensRefreshed(context.Context, models.Tokens) {}
func (nopListener) SessionExpired(context.Context, error)          {}

// Listeners fans out to several listeners in order.
type Listeners []Listener

func (ls Listeners) TokensRefreshed(ctx context.Context, t models.Tokens) {
	for _, l := range ls {
		l.TokensRefreshed(ctx, t)
	}
}

func (ls Listeners) SessionExpired(ctx context.Context, cause error) {
	for _, l := range ls {
		l.SessionExpired(ctx, cause)
	}
}
