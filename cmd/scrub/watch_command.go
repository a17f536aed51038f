package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"scrub/internal/logging"
	"scrub/internal/notifications"
	"scrub/internal/pipeline"
	"scrub/internal/queue"
	"scrub/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the inbox directory and clean transcripts as they arrive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatchProcess(cmd.Context(), ctx)
		},
	}
}

func runWatchProcess(cmdCtx context.Context, ctx *commandContext) error {
	if ctx == nil {
		return fmt.Errorf("command context is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	runID := time.Now().UTC().Format("20060102T150405Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("scrub-%s.log", runID))
	logger, err := logging.New(logging.Options{
		Level:            cfg.Logging.Level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "scrub-*.log", Exclude: []string{logPath}},
	)

	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "scrub.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return errors.New("another scrub watch instance is already running")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open queue store", logging.Error(err))
		return err
	}
	defer store.Close()
	logger.Info("queue store ready", logging.String("path", store.Path()))

	if reset, err := store.ResetStuckProcessing(signalCtx); err != nil {
		logger.Warn("reset stuck items", logging.Error(err))
	} else if reset > 0 {
		logger.Info("reset stuck items", logging.Int64("count", reset))
	}

	notifier := notifications.NewService(cfg)
	runner := pipeline.New(cfg, store, notifier, logger, pipeline.Options{})

	probeCtx, cancelProbe := context.WithTimeout(signalCtx, 15*time.Second)
	if err := runner.CheckBackend(probeCtx); err != nil {
		logger.Warn("cleaning backend check failed", logging.Error(err))
	} else {
		logger.Info("cleaning backend reachable")
	}
	cancelProbe()

	if err := drainPending(signalCtx, store, runner, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("process pending backlog", logging.Error(err))
	}

	notifyIntakeError := func(handlerCtx context.Context, err error) {
		if pubErr := notifier.Publish(handlerCtx, notifications.EventError, notifications.Payload{
			"context": "transcript intake",
			"error":   err.Error(),
		}); pubErr != nil {
			logger.Debug("intake error notification failed", logging.Error(pubErr))
		}
	}

	handler := func(handlerCtx context.Context, path string) error {
		existing, err := store.FindActiveBySource(handlerCtx, path)
		if err != nil {
			err = fmt.Errorf("check queue: %w", err)
			notifyIntakeError(handlerCtx, err)
			return err
		}
		if existing != nil {
			logger.Debug("transcript already queued",
				logging.String("path", path),
				logging.Int64("item_id", existing.ID),
			)
			return nil
		}
		item, err := store.NewTranscript(handlerCtx, path)
		if err != nil {
			err = fmt.Errorf("enqueue transcript: %w", err)
			notifyIntakeError(handlerCtx, err)
			return err
		}
		if err := notifier.Publish(handlerCtx, notifications.EventTranscriptDetected, notifications.Payload{
			"title": item.Title,
		}); err != nil {
			logger.Debug("detection notification failed", logging.Error(err))
		}
		return runner.Run(handlerCtx, item)
	}

	w, err := watcher.New(cfg, handler, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Run(signalCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("scrub watch shutting down")
	return nil
}

// drainPending runs items left pending by an earlier process, oldest first.
// Reset and retried items are picked up here before the watcher takes over.
// A run failure moves the item out of pending, so the loop always advances;
// an item that stays pending anyway is left for the next start.
func drainPending(ctx context.Context, store *queue.Store, runner *pipeline.Runner, logger *slog.Logger) error {
	var lastID int64
	for {
		item, err := store.NextForStatuses(ctx, queue.StatusPending)
		if err != nil {
			return err
		}
		if item == nil {
			return nil
		}
		if item.ID == lastID {
			logger.Warn("pending item did not advance, leaving it queued", logging.Int64("item_id", item.ID))
			return nil
		}
		lastID = item.ID

		logger.Info("processing queued transcript",
			logging.Int64("item_id", item.ID),
			logging.String("source_file", item.SourcePath),
		)
		if err := runner.Run(ctx, item); err != nil {
			logger.Error("queued transcript failed", logging.Int64("item_id", item.ID), logging.Error(err))
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
