package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/liliang-cn/docassist/internal/domain"
	"github.com/liliang-cn/docassist/internal/ingest"
	"go.uber.org/zap"
)

// Reloader relearns the documentation
type Reloader interface {
	Reload(ctx context.Context) (*domain.ReloadResult, error)
}

// Watcher reloads the documentation when files in its folder change
type Watcher struct {
	dir      string
	debounce time.Duration
	reloader Reloader
	logger   *zap.Logger
}

// NewWatcher creates a watcher for dir. Bursts of events closer than
// debounce trigger a single reload.
func NewWatcher(dir string, debounce time.Duration, reloader Reloader, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{dir: dir, debounce: debounce, reloader: reloader, logger: logger}
}

// Run watches until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create documentation folder: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.logger.Info("Watching documentation folder", zap.String("path", w.dir))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ingest.IsSupported(filepath.Base(ev.Name)) || ev.Op == fsnotify.Chmod {
				continue
			}
			w.logger.Debug("Documentation changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			pending = time.After(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", zap.Error(err))

		case <-pending:
			pending = nil
			if _, err := w.reloader.Reload(ctx); err != nil {
				w.logger.Error("Automatic reload failed", zap.Error(err))
			}
		}
	}
}
