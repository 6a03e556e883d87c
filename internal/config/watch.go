package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// Watch reloads envFile into store whenever it changes. It blocks until ctx
// is cancelled. A reload that fails validation is logged and the previous
// configuration stays active.
//
// The parent directory is watched rather than the file so that editors that
// replace the file by rename are still picked up.
func Watch(ctx context.Context, envFile string, store *Store, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(envFile)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", envFile, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("config watcher started", "path", abs)

	reload := func() {
		cfg, err := Load(abs)
		if err != nil {
			logger.Error("config reload failed", "path", abs, "error", err)
			return
		}
		store.Set(cfg)
		logger.Info("config reloaded", "path", abs)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, reload)
		case err, ok := <-w.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Error("config watcher error", "error", err)
		}
	}
}
