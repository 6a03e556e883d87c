package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveLoginAndQuery(t *testing.T) {
	m := New()
	m.ObserveLogin(true)
	m.ObserveLogin(false)
	m.ObserveLogin(false)
	m.ObserveQuery("users.list", 3*time.Millisecond, nil)
	m.ObserveQuery("users.list", time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(m.loginsTotal.WithLabelValues("failure")); got != 2 {
		t.Errorf("failed logins = %v", got)
	}
	if got := testutil.ToFloat64(m.loginsTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("successful logins = %v", got)
	}
	if got := testutil.ToFloat64(m.queriesTotal.WithLabelValues("users.list", "error")); got != 1 {
		t.Errorf("query errors = %v", got)
	}
	if n := testutil.CollectAndCount(m.queryDuration); n != 1 {
		t.Errorf("duration series = %d", n)
	}
}

func TestInstrumentLabelsByPattern(t *testing.T) {
	m := New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /chat/{user1}/{user2}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := m.Instrument(mux)

	for _, path := range []string{"/chat/1/2", "/chat/3/4", "/nope"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET /chat/{user1}/{user2}", "GET", "418")); got != 2 {
		t.Errorf("pattern-labelled requests = %v", got)
	}
	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("unmatched", "GET", "404")); got != 1 {
		t.Errorf("unmatched requests = %v", got)
	}
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveLogin(true)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{"chat_admin_logins_total", "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %s", want)
		}
	}
}
