package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"scrub/internal/config"
	"scrub/internal/logging"
)

// Handler processes one detected transcript file. Errors are logged and do
// not stop the watcher.
type Handler func(ctx context.Context, path string) error

// Watcher monitors the inbox directory and dispatches matching files.
type Watcher struct {
	dir        string
	extensions map[string]struct{}
	settle     time.Duration
	handler    Handler
	logger     *slog.Logger
	fs         *fsnotify.Watcher
	sem        chan struct{}
	wg         sync.WaitGroup
}

// New builds a watcher over cfg.Paths.WatchDir, which must already exist.
func New(cfg *config.Config, handler Handler, logger *slog.Logger) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("watch handler is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fs.Add(cfg.Paths.WatchDir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch %s: %w", cfg.Paths.WatchDir, err)
	}

	maxConcurrent := cfg.Watch.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	extensions := make(map[string]struct{}, len(cfg.Watch.Extensions))
	for _, ext := range cfg.Watch.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[ext] = struct{}{}
	}
	if len(extensions) == 0 {
		extensions[".vtt"] = struct{}{}
	}

	return &Watcher{
		dir:        cfg.Paths.WatchDir,
		extensions: extensions,
		settle:     time.Duration(cfg.Watch.SettleDelayMS) * time.Millisecond,
		handler:    handler,
		logger:     logging.NewComponentLogger(logger, "watcher"),
		fs:         fs,
		sem:        make(chan struct{}, maxConcurrent),
	}, nil
}

// Run dispatches files already in the inbox, then processes filesystem
// events until ctx is cancelled. In-flight handlers finish before Run
// returns.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watcher started",
		logging.String("dir", w.dir),
		logging.Int("max_concurrent", cap(w.sem)),
		logging.Any("extensions", extensionList(w.extensions)),
	)
	w.scanExisting(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("waiting for in-flight runs")
			w.wg.Wait()
			w.logger.Info("watcher stopped")
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return fmt.Errorf("watch events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !w.matches(event.Name) {
				w.logger.Debug("ignoring file", logging.String("path", event.Name))
				continue
			}
			w.logger.Info("transcript detected", logging.String("path", event.Name))
			if err := w.dispatch(ctx, event.Name); err != nil {
				w.wg.Wait()
				return err
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return fmt.Errorf("watch errors channel closed")
			}
			w.logger.Error("watch error", logging.Error(err))
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// dispatch hands the file to the handler once a concurrency slot frees up.
// The settle delay runs inside the slot so the event loop stays responsive.
func (w *Watcher) dispatch(ctx context.Context, path string) error {
	select {
	case w.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.sem }()

		if w.settle > 0 {
			select {
			case <-time.After(w.settle):
			case <-ctx.Done():
				return
			}
		}
		if err := w.handler(ctx, path); err != nil {
			w.logger.Error("transcript processing failed",
				logging.String("path", path),
				logging.Error(err),
			)
		}
	}()
	return nil
}

// scanExisting dispatches matching files that were dropped in the inbox
// before the watcher came up.
func (w *Watcher) scanExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("scan inbox", logging.Error(err))
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if !w.matches(path) {
			continue
		}
		w.logger.Info("existing transcript found", logging.String("path", path))
		if err := w.dispatch(ctx, path); err != nil {
			return
		}
	}
}

func (w *Watcher) matches(path string) bool {
	_, ok := w.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

func extensionList(extensions map[string]struct{}) []string {
	list := make([]string, 0, len(extensions))
	for ext := range extensions {
		list = append(list, ext)
	}
	sort.Strings(list)
	return list
}
