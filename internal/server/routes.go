// Package server wires the HTTP routes and middleware of the admin API.
package server

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"go-chat-admin/internal/auth"
	"go-chat-admin/internal/conversations"
	"go-chat-admin/internal/directory"
	"go-chat-admin/internal/httputil"
	"go-chat-admin/internal/messages"
	"go-chat-admin/internal/metrics"
	"go-chat-admin/internal/store"
)

type Deps struct {
	Store          *store.Store
	Issuer         *auth.Issuer
	Directory      *directory.Service
	Conversations  *conversations.Service
	Messages       *messages.Service
	Metrics        *metrics.Metrics // nil disables /metrics
	AllowedOrigins string
}

// Every route is served at the root and again under /api.
var prefixes = []string{"", "/api"}

func NewHandler(d Deps) http.Handler {
	mux := http.NewServeMux()
	protected := httputil.JWTAuth(d.Issuer)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := d.Store.Ping(ctx); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics.Handler())
	}

	for _, p := range prefixes {
		mux.Handle("POST "+p+"/login", httputil.JSONHandler(func(w http.ResponseWriter, r *http.Request) error {
			return auth.HandleLogin(d.Issuer, w, r)
		}))

		mux.Handle("GET "+p+"/me", protected(httputil.JSONHandler(auth.HandleMe)))

		mux.Handle("GET "+p+"/users", protected(httputil.JSONHandler(func(w http.ResponseWriter, r *http.Request) error {
			return directory.HandleUsers(d.Directory, w, r)
		})))
		mux.Handle("GET "+p+"/groups", protected(httputil.JSONHandler(func(w http.ResponseWriter, r *http.Request) error {
			return directory.HandleGroups(d.Directory, w, r)
		})))

		mux.Handle("GET "+p+"/conversations", protected(httputil.JSONHandler(func(w http.ResponseWriter, r *http.Request) error {
			return conversations.HandleList(d.Conversations, w, r)
		})))

		mux.Handle("GET "+p+"/chat/{user1}/{user2}", protected(httputil.JSONHandler(func(w http.ResponseWriter, r *http.Request) error {
			return messages.HandleChat(d.Messages, w, r)
		})))
		mux.Handle("GET "+p+"/group/{groupId}", protected(httputil.JSONHandler(func(w http.ResponseWriter, r *http.Request) error {
			return messages.HandleGroup(d.Messages, w, r)
		})))
		mux.Handle("GET "+p+"/search", protected(httputil.JSONHandler(func(w http.ResponseWriter, r *http.Request) error {
			return messages.HandleSearch(d.Messages, w, r)
		})))
	}

	var inner http.Handler = mux
	if d.Metrics != nil {
		// Innermost, so the mux sets r.Pattern on the request it sees.
		inner = d.Metrics.Instrument(mux)
	}
	chain := httputil.Chain(
		httputil.WithRequestID,
		httputil.Logging,
		httputil.Recover,
		httputil.CORS(d.AllowedOrigins),
	)
	return otelhttp.NewHandler(chain(inner), "http.server")
}
