package httputil

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	adminKey
)

const RequestIDHeader = "X-Request-ID"

// Middleware

type Middleware func(http.Handler) http.Handler

// Chain applies mws so that the first one is outermost.
func Chain(mws ...Middleware) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			h = mws[i](h)
		}
		return h
	}
}

// TokenVerifier resolves a bearer token to the admin username.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// JWTAuth rejects requests without a valid bearer token and stores the
// admin username in the request context.
func JWTAuth(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := BearerToken(r)
			if tok == "" {
				_ = WriteJSON(w, http.StatusUnauthorized, ErrorBody(MsgUnauthorized))
				return
			}
			username, err := v.Verify(tok)
			if err != nil {
				slog.DebugContext(r.Context(), "token rejected", "request_id", RequestID(r.Context()), "error", err)
				_ = WriteJSON(w, http.StatusUnauthorized, ErrorBody(MsgInvalidToken))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), username)))
		})
	}
}

func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[len("Bearer "):])
}

func WithAdmin(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, adminKey, username)
}

func AdminFromContext(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(adminKey).(string)
	return u, ok && u != ""
}

// CORS

func CORS(allowed string) Middleware {
	allowAll := allowed == "*"
	origins := map[string]bool{}
	for _, o := range strings.Split(allowed, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins[o] = true
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || origins[origin]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID reuses the client's X-Request-ID or assigns a fresh one.

func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// StatusRecorder captures the status code written by the wrapped handler.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
}

func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
}

func (s *StatusRecorder) WriteHeader(code int) {
	s.Status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *StatusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := NewStatusRecorder(w)
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		switch {
		case rec.Status >= 500:
			level = slog.LevelError
		case rec.Status >= 400:
			level = slog.LevelWarn
		}
		slog.Log(r.Context(), level, "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.Status,
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", RequestID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// Recover turns a handler panic into a 500 without leaking details.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				slog.ErrorContext(r.Context(), "panic in handler",
					"panic", v,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", RequestID(r.Context()),
					"stack", string(debug.Stack()),
				)
				_ = WriteJSON(w, http.StatusInternalServerError, ErrorBody(MsgInternalError))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
