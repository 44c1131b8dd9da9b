package callback

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/logging"
	"github.com/dmitrijs2005/vendordesk/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServer_Return(t *testing.T) {
	s := New("127.0.0.1:0", metrics.New(), logging.Nop())

	rec := get(t, s.Handler(), ReturnPath+"?setup_mode=complete")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "complete")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	res, err := s.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SetupComplete, res.SetupMode)
}

func TestServer_ReturnKeepsLatest(t *testing.T) {
	s := New("127.0.0.1:0", nil, logging.Nop())

	get(t, s.Handler(), ReturnPath+"?setup_mode=canceled")
	get(t, s.Handler(), ReturnPath+"?setup_mode=complete")

	res := <-s.Results()
	assert.Equal(t, models.SetupComplete, res.SetupMode)
}

func TestServer_ReturnInvalid(t *testing.T) {
	s := New("127.0.0.1:0", nil, logging.Nop())

	rec := get(t, s.Handler(), ReturnPath+"?setup_mode=maybe")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	m := metrics.New()
	m.ObserveRequest(http.MethodGet, 200)
	s := New("127.0.0.1:0", m, logging.Nop())

	rec := get(t, s.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = get(t, s.Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "vendordesk_api_requests_total")
}

func TestServer_StartShutdown(t *testing.T) {
	s := New("127.0.0.1:0", nil, logging.Nop())
	require.NoError(t, s.Start())
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	assert.True(t, strings.HasPrefix(s.ReturnURL(), "http://127.0.0.1:"))
	assert.NotEqual(t, "127.0.0.1:0", s.Addr())

	resp, err := http.Get(s.ReturnURL() + "?setup_mode=canceled")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "canceled")

	res := <-s.Results()
	assert.Equal(t, models.SetupCanceled, res.SetupMode)

	require.NoError(t, s.Shutdown(context.Background()))
	assert.ErrorIs(t, s.Shutdown(context.Background()), ErrNotStarted)
}
