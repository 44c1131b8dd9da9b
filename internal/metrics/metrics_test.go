package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveRequest("GET", 200)
	m.ObserveRequest("GET", 200)
	m.ObserveRequest("POST", 0)
	m.ObserveRefresh(RefreshSuccess)
	m.ObserveRetry()
	m.ObserveRetry()
	m.ObserveWaiter()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("POST", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshAttempts.WithLabelValues(RefreshSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.retries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.waiters))

	snap, err := m.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 2.0, snap.Requests["GET 200"])
	assert.Equal(t, 1.0, snap.RefreshByResult[RefreshSuccess])
	assert.Equal(t, 2.0, snap.Retries)
	assert.Equal(t, 1.0, snap.Waiters)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("GET", 500)
	m.ObserveRefresh(RefreshFailure)
	m.ObserveRetry()
	m.ObserveWaiter()

	snap, err := m.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, snap.Requests)
	assert.Nil(t, m.Registry())
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveRefresh(RefreshFailure)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `vendordesk_token_refresh_total{result="failure"} 1`)
}
