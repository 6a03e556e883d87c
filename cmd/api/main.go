package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"go-chat-admin/internal/auth"
	"go-chat-admin/internal/config"
	"go-chat-admin/internal/conversations"
	"go-chat-admin/internal/directory"
	"go-chat-admin/internal/messages"
	"go-chat-admin/internal/metrics"
	"go-chat-admin/internal/server"
	"go-chat-admin/internal/store"
	"go-chat-admin/internal/tracing"
)

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file layered over the process environment")
	addr := pflag.String("addr", "", "listen address (overrides ADDR)")
	pflag.Parse()

	if err := run(*envFile, *addr); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(envFile, addrFlag string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if addrFlag != "" {
		cfg.Addr = addrFlag
	}
	slog.SetDefault(newLogger(cfg))
	cfgStore := config.NewStore(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		return err
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(c)
	}()

	// DB
	db, err := store.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	var m *metrics.Metrics
	var opts []store.Option
	var loginObs auth.LoginObserver
	if cfg.MetricsEnabled {
		m = metrics.New()
		opts = append(opts, store.WithObserver(m))
		loginObs = m
	}
	st := store.New(db, opts...)

	if cfg.Watch {
		go func() {
			if err := config.Watch(ctx, envFile, cfgStore, slog.Default()); err != nil {
				slog.Error("config watcher stopped", "error", err)
			}
		}()
	}

	handler := server.NewHandler(server.Deps{
		Store:          st,
		Issuer:         auth.NewIssuer(cfgStore, loginObs),
		Directory:      directory.NewService(st),
		Conversations:  conversations.NewService(st),
		Messages:       messages.NewService(st),
		Metrics:        m,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.Addr, "admin", cfg.Admin.Username)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down")
	shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shCtx)
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
