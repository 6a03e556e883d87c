// Package metrics exposes Prometheus metrics for HTTP requests and store
// queries.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-chat-admin/internal/httputil"
)

const namespace = "chat_admin"

type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	queriesTotal    *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
	loginsTotal     *prometheus.CounterVec
}

// New registers all collectors, plus the Go and process collectors, on a
// private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_queries_total",
			Help:      "Store queries by name and outcome.",
		}, []string{"query", "outcome"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_seconds",
			Help:      "Store query latency by name.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"query"}),
		loginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Admin login attempts by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.queriesTotal,
		m.queryDuration,
		m.loginsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveQuery implements store.QueryObserver.
func (m *Metrics) ObserveQuery(name string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.queriesTotal.WithLabelValues(name, outcome).Inc()
	m.queryDuration.WithLabelValues(name).Observe(d.Seconds())
}

// ObserveLogin counts a login attempt.
func (m *Metrics) ObserveLogin(ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.loginsTotal.WithLabelValues(outcome).Inc()
}

// Instrument records count and latency per matched route pattern, so
// path parameters do not explode label cardinality.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := httputil.NewStatusRecorder(w)
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.Status)).Inc()
		m.requestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
