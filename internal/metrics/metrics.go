// Package metrics holds the client's Prometheus counters. They live on a
// private registry so tests and multiple clients do not collide.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vendordesk"

// Refresh outcomes recorded by ObserveRefresh.
const (
	RefreshSuccess = "success"
	RefreshFailure = "failure"
	RefreshStale   = "stale"
)

// Metrics is safe for concurrent use. A nil *Metrics ignores every call.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	refreshAttempts *prometheus.CounterVec
	retries         prometheus.Counter
	waiters         prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Backend API requests by method and response status.",
		}, []string{"method", "status"}),
		refreshAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refresh_total",
			Help:      "Token refresh resolutions by result.",
		}, []string{"result"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_retries_total",
			Help:      "Requests re-issued after a token refresh.",
		}),
		waiters: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_waiters_total",
			Help:      "Requests that joined a refresh already in flight.",
		}),
	}
	m.registry.MustRegister(m.requests, m.refreshAttempts, m.retries, m.waiters)
	return m
}

// ObserveRequest counts one API call. status 0 means no response arrived.
func (m *Metrics) ObserveRequest(method string, status int) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, label).Inc()
}

func (m *Metrics) ObserveRefresh(result string) {
	if m == nil {
		return
	}
	m.refreshAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRetry() {
	if m == nil {
		return
	}
	m.retries.Inc()
}

func (m *Metrics) ObserveWaiter() {
	if m == nil {
		return
	}
	m.waiters.Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Snapshot is a flat view of the counters for the CLI "metrics" command.
type Snapshot struct {
	Requests         map[string]float64
	RefreshByResult  map[string]float64
	Retries, Waiters float64
}

func (m *Metrics) Snapshot() (Snapshot, error) {
	s := Snapshot{Requests: map[string]float64{}, RefreshByResult: map[string]float64{}}
	if m == nil {
		return s, nil
	}

	families, err := m.registry.Gather()
	if err != nil {
		return s, err
	}

	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			v := metric.GetCounter().GetValue()
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			switch mf.GetName() {
			case namespace + "_api_requests_total":
				s.Requests[labels["method"]+" "+labels["status"]] += v
			case namespace + "_token_refresh_total":
				s.RefreshByResult[labels["result"]] += v
			case namespace + "_request_retries_total":
				s.Retries = v
			case namespace + "_refresh_waiters_total":
				s.Waiters = v
			}
		}
	}
	return s, nil
}
