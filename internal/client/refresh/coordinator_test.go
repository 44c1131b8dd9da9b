package refresh

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/vendordesk/internal/client/client"
	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/client/storage"
	"github.com/dmitrijs2005/vendordesk/internal/common"
	"github.com/dmitrijs2005/vendordesk/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnauthorized = &client.APIError{Method: "GET", Path: "/x", Status: 401, Message: "Token expired"}

type fakeRefresher struct {
	calls   atomic.Int32
	release chan struct{}
	result  models.Tokens
	err     error
}

func (f *fakeRefresher) RefreshTokens(ctx context.Context, refreshToken string) (models.Tokens, error) {
	f.calls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return models.Tokens{}, ctx.Err()
		}
	}
	return f.result, f.err
}

type recordingListener struct {
	mu        sync.Mutex
	refreshed []models.Tokens
	expired   []error
}

func (l *recordingListener) TokensRefreshed(_ context.Context, t models.Tokens) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refreshed = append(l.refreshed, t)
}

func (l *recordingListener) SessionExpired(_ context.Context, cause error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expired = append(l.expired, cause)
}

func setup(t *testing.T, r *fakeRefresher, cfg Config) (*Coordinator, *storage.TokenStore, *recordingListener, *metrics.Metrics) {
	t.Helper()
	ts := storage.NewTokenStore(storage.NewMemoryStore())
	require.NoError(t, ts.Save(context.Background(), models.Tokens{AccessToken: "old", RefreshToken: "r1"}))

	l := &recordingListener{}
	m := metrics.New()
	return NewCoordinator(r, ts, cfg, WithListener(l), WithMetrics(m)), ts, l, m
}

// acceptsOnly fails with 401 for every token but want and records the tokens
// it saw.
func acceptsOnly(want string, seen *sync.Map, firstAttempts *sync.WaitGroup) client.RequestFunc {
	return func(_ context.Context, tok string) error {
		n, _ := seen.LoadOrStore(tok, new(atomic.Int32))
		n.(*atomic.Int32).Add(1)
		if tok != want {
			if firstAttempts != nil {
				firstAttempts.Done()
			}
			return errUnauthorized
		}
		return nil
	}
}

func count(seen *sync.Map, tok string) int32 {
	n, ok := seen.Load(tok)
	if !ok {
		return 0
	}
	return n.(*atomic.Int32).Load()
}

func TestDo_PassesThroughSuccessAndOtherErrors(t *testing.T) {
	r := &fakeRefresher{}
	c, _, _, _ := setup(t, r, Config{})

	var got string
	require.NoError(t, c.Do(context.Background(), func(_ context.Context, tok string) error {
		got = tok
		return nil
	}))
	assert.Equal(t, "old", got)

	boom := errors.New("boom")
	err := c.Do(context.Background(), func(context.Context, string) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.Zero(t, r.calls.Load())
}

func TestDo_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	const n = 12
	r := &fakeRefresher{release: make(chan struct{}), result: models.Tokens{AccessToken: "new", RefreshToken: "r2"}}
	c, ts, l, m := setup(t, r, Config{})

	var seen sync.Map
	var first sync.WaitGroup
	first.Add(n)
	fn := acceptsOnly("new", &seen, &first)

	errs := make([]error, n)
	var done sync.WaitGroup
	for i := range n {
		done.Add(1)
		go func() {
			defer done.Done()
			errs[i] = c.Do(context.Background(), fn)
		}()
	}

	first.Wait()
	time.Sleep(20 * time.Millisecond)
	close(r.release)
	done.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), r.calls.Load(), "exactly one refresh")
	assert.Equal(t, int32(n), count(&seen, "old"))
	assert.Equal(t, int32(n), count(&seen, "new"), "each request retried once")

	got, err := ts.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Tokens{AccessToken: "new", RefreshToken: "r2"}, got)
	assert.Len(t, l.refreshed, 1)
	assert.Empty(t, l.expired)

	snap, _ := m.Snapshot()
	assert.Equal(t, float64(n), snap.Retries)
	assert.Equal(t, 1.0, snap.RefreshByResult[metrics.RefreshSuccess])
}

func TestDo_ConcurrentUnauthorizedAllFailTogether(t *testing.T) {
	const n = 8
	r := &fakeRefresher{release: make(chan struct{}), err: &client.APIError{Method: "POST", Path: common.RefreshTokenPath, Status: 401}}
	c, ts, l, _ := setup(t, r, Config{})

	var seen sync.Map
	var first sync.WaitGroup
	first.Add(n)
	fn := acceptsOnly("new", &seen, &first)

	errs := make([]error, n)
	var done sync.WaitGroup
	for i := range n {
		done.Add(1)
		go func() {
			defer done.Done()
			errs[i] = c.Do(context.Background(), fn)
		}()
	}

	first.Wait()
	time.Sleep(20 * time.Millisecond)
	close(r.release)
	done.Wait()

	for _, err := range errs {
		assert.Same(t, errUnauthorized, err, "each waiter gets its original error")
	}
	assert.Equal(t, int32(1), r.calls.Load())
	assert.Equal(t, int32(n), count(&seen, "old"), "no request is retried")

	got, err := ts.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, got.IsZero())
	assert.Len(t, l.expired, 1)
}

func TestDo_StaleTokenRetriesWithoutRefresh(t *testing.T) {
	r := &fakeRefresher{}
	c, ts, _, m := setup(t, r, Config{})

	var tokens []string
	err := c.Do(context.Background(), func(ctx context.Context, tok string) error {
		tokens = append(tokens, tok)
		if tok == "old" {
			// another request finished a refresh meanwhile
			require.NoError(t, ts.Save(ctx, models.Tokens{AccessToken: "newer"}))
			return errUnauthorized
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"old", "newer"}, tokens)
	assert.Zero(t, r.calls.Load())

	snap, _ := m.Snapshot()
	assert.Equal(t, 1.0, snap.RefreshByResult[metrics.RefreshStale])
}

func TestDo_RetriesOnlyOnce(t *testing.T) {
	r := &fakeRefresher{result: models.Tokens{AccessToken: "new"}}
	c, ts, _, _ := setup(t, r, Config{})

	attempts := 0
	err := c.Do(context.Background(), func(context.Context, string) error {
		attempts++
		return errUnauthorized
	})

	require.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, int32(1), r.calls.Load())

	got, _ := ts.Load(context.Background())
	assert.Equal(t, "r1", got.RefreshToken, "unrotated refresh token is kept")
}

func TestDo_NoRefreshTokenExpiresSession(t *testing.T) {
	r := &fakeRefresher{}
	ts := storage.NewTokenStore(storage.NewMemoryStore())
	require.NoError(t, ts.Save(context.Background(), models.Tokens{AccessToken: "old"}))
	l := &recordingListener{}
	c := NewCoordinator(r, ts, Config{}, WithListener(l))

	err := c.Do(context.Background(), func(context.Context, string) error { return errUnauthorized })

	require.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Zero(t, r.calls.Load())
	require.Len(t, l.expired, 1)
	assert.ErrorIs(t, l.expired[0], common.ErrNoRefreshToken)
}

func TestDo_RefreshTimeoutFailsRequest(t *testing.T) {
	r := &fakeRefresher{release: make(chan struct{})}
	c, _, l, _ := setup(t, r, Config{Timeout: 30 * time.Millisecond})

	err := c.Do(context.Background(), func(_ context.Context, tok string) error {
		if tok == "old" {
			return errUnauthorized
		}
		return nil
	})

	require.ErrorIs(t, err, common.ErrUnauthorized)
	require.Len(t, l.expired, 1)
	assert.ErrorIs(t, l.expired[0], context.DeadlineExceeded)
}

func TestDo_CanceledWaiterDoesNotCancelRefresh(t *testing.T) {
	r := &fakeRefresher{release: make(chan struct{}), result: models.Tokens{AccessToken: "new"}}
	c, ts, _, _ := setup(t, r, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.Do(ctx, func(_ context.Context, tok string) error {
			if tok == "old" {
				return errUnauthorized
			}
			return nil
		})
	}()

	require.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)

	close(r.release)
	require.Eventually(t, func() bool {
		got, _ := ts.Load(context.Background())
		return got.AccessToken == "new"
	}, time.Second, 5*time.Millisecond)
}

func TestListeners_FanOut(t *testing.T) {
	a, b := &recordingListener{}, &recordingListener{}
	ls := Listeners{a, b}

	ls.TokensRefreshed(context.Background(), models.Tokens{AccessToken: "x"})
	ls.SessionExpired(context.Background(), errors.New("gone"))

	assert.Len(t, a.refreshed, 1)
	assert.Len(t, b.expired, 1)
}
