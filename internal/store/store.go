// Package store wraps the PostgreSQL connection pool used by the read
// endpoints.
package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"go-chat-admin/internal/config"
)

// QueryObserver receives the outcome of every query.
type QueryObserver interface {
	ObserveQuery(name string, d time.Duration, err error)
}

type Store struct {
	DB     *sqlx.DB
	obs    QueryObserver
	tracer trace.Tracer
}

type Option func(*Store)

func WithObserver(o QueryObserver) Option { return func(s *Store) { s.obs = o } }

func New(db *sqlx.DB, opts ...Option) *Store {
	s := &Store{DB: db, tracer: otel.Tracer("go-chat-admin/store")}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open connects with the pgx driver and checks the connection. Every
// session runs in UTC.
func Open(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", withUTC(cfg.DSN()))
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// withUTC adds a timezone runtime parameter to a URL or key=value DSN
// unless one is already present.
func withUTC(dsn string) string {
	if strings.Contains(strings.ToLower(dsn), "timezone=") {
		return dsn
	}
	if u, err := url.Parse(dsn); err == nil && (u.Scheme == "postgres" || u.Scheme == "postgresql") {
		q := u.Query()
		q.Set("timezone", "UTC")
		u.RawQuery = q.Encode()
		return u.String()
	}
	return strings.TrimSpace(dsn) + " timezone=UTC"
}

func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

// Select runs a query written with ? placeholders and scans all rows into
// dest. name labels the query in traces and metrics.
func (s *Store) Select(ctx context.Context, name string, dest any, query string, args ...any) error {
	return s.run(ctx, name, func(ctx context.Context) error {
		return s.DB.SelectContext(ctx, dest, s.DB.Rebind(query), args...)
	})
}

// Get is Select for a single row.
func (s *Store) Get(ctx context.Context, name string, dest any, query string, args ...any) error {
	return s.run(ctx, name, func(ctx context.Context) error {
		return s.DB.GetContext(ctx, dest, s.DB.Rebind(query), args...)
	})
}

func (s *Store) run(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "db."+name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("db.system", "postgresql")),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	if s.obs != nil {
		s.obs.ObserveQuery(name, time.Since(start), err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
