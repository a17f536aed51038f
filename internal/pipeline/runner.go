package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"scrub/internal/cleaning"
	"scrub/internal/config"
	"scrub/internal/export"
	"scrub/internal/logging"
	"scrub/internal/notifications"
	"scrub/internal/queue"
	"scrub/internal/services"
	"scrub/internal/transcript"
)

// Handler is the stage contract the runner drives.
type Handler interface {
	Prepare(ctx context.Context, item *queue.Item) error
	Execute(ctx context.Context, item *queue.Item) error
}

// Options adjust how a Runner executes transcript runs.
type Options struct {
	// Raw exports grouped statements without a cleaning pass.
	Raw bool
	// OutputPath overrides the derived output location.
	OutputPath string
	// Title overrides the document title heading.
	Title string
	// Backend overrides the configured cleaning backend; used by tests.
	Backend cleaning.Backend
}

// Runner executes the full pipeline for one queue item at a time.
type Runner struct {
	cfg      *config.Config
	store    *queue.Store
	notifier notifications.Service
	logger   *slog.Logger
	opts     Options
}

// New builds a Runner. The store is required; notifier and logger may be nil.
func New(cfg *config.Config, store *queue.Store, notifier notifications.Service, logger *slog.Logger, opts Options) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:      cfg,
		store:    store,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		opts:     opts,
	}
}

// runState carries intermediate artifacts between the stages of one run.
type runState struct {
	segments   []transcript.Segment
	warnings   []transcript.ParseWarning
	statements []transcript.Statement
	batches    []transcript.Batch
	cleaned    []transcript.Statement
	stats      export.Stats

	markdownPath string
	docxPath     string
}

type stageDef struct {
	name       string
	processing queue.Status
	handler    Handler
}

// Run drives the item through parse, clean, and export, persisting status
// transitions and counters along the way. On failure the item ends in the
// failed or review status and the original error is returned.
func (r *Runner) Run(ctx context.Context, item *queue.Item) error {
	if item == nil {
		return fmt.Errorf("queue item is required")
	}
	if r.store == nil {
		return fmt.Errorf("queue store is required")
	}

	ctx = services.WithItemID(ctx, item.ID)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, r.logger)

	state := &runState{}
	state.markdownPath, state.docxPath = r.resolveOutputPaths(item)

	stages := []stageDef{
		{name: "parse", processing: queue.StatusParsing, handler: &parseStage{r: r, state: state}},
	}
	if !r.opts.Raw {
		stages = append(stages, stageDef{name: "clean", processing: queue.StatusCleaning, handler: &cleanStage{r: r, state: state}})
	}
	stages = append(stages, stageDef{name: "export", processing: queue.StatusExporting, handler: &exportStage{r: r, state: state}})

	logger.Info("run started",
		logging.String("source_file", strings.TrimSpace(item.SourcePath)),
		logging.String("title", strings.TrimSpace(item.Title)),
		logging.Bool("raw", r.opts.Raw),
	)
	start := time.Now()

	for _, def := range stages {
		if err := r.runStage(ctx, def, item); err != nil {
			r.failItem(ctx, item, err)
			return err
		}
	}

	item.Status = queue.StatusCompleted
	item.SetProgressComplete("Completed", "Transcript ready")
	if err := r.store.Update(ctx, item); err != nil {
		return fmt.Errorf("persist completion: %w", err)
	}

	logger.Info("run completed",
		logging.Duration("elapsed", time.Since(start).Round(time.Millisecond)),
		logging.String("output", item.OutputPath),
		logging.Int("statements", item.StatementCount),
		logging.Int("words_removed", item.RemovedWords),
		logging.Int("warnings", item.WarningCount),
	)
	r.notifyCompleted(ctx, item, state)
	return nil
}

func (r *Runner) runStage(ctx context.Context, def stageDef, item *queue.Item) error {
	stageCtx := services.WithStage(ctx, def.name)
	logger := logging.WithContext(stageCtx, r.logger)

	label := stageLabel(def.processing)
	item.Status = def.processing
	item.SetProgress(label, label+" started", 0)
	item.ErrorMessage = ""
	if err := r.store.Update(stageCtx, item); err != nil {
		return fmt.Errorf("persist %s transition: %w", def.name, err)
	}
	logger.Info("stage started", logging.String("processing_status", string(def.processing)))

	if err := def.handler.Prepare(stageCtx, item); err != nil {
		return err
	}
	if err := r.store.Update(stageCtx, item); err != nil {
		return fmt.Errorf("persist %s preparation: %w", def.name, err)
	}

	if err := def.handler.Execute(stageCtx, item); err != nil {
		return err
	}
	if err := r.store.Update(stageCtx, item); err != nil {
		return fmt.Errorf("persist %s result: %w", def.name, err)
	}

	logger.Info("stage completed",
		logging.String("progress_stage", strings.TrimSpace(item.ProgressStage)),
		logging.String("progress_message", strings.TrimSpace(item.ProgressMessage)),
	)
	return nil
}

// failItem records the terminal status for a failed run. Validation and
// configuration problems land in review; everything else is a plain failure.
func (r *Runner) failItem(ctx context.Context, item *queue.Item, runErr error) {
	message := strings.TrimSpace(runErr.Error())
	status := services.FailureStatus(runErr)
	if status == queue.StatusReview {
		item.SetReview(message)
	} else {
		item.SetFailed(message)
	}

	logger := logging.WithContext(ctx, r.logger)
	logger.Error("run failed",
		logging.String("resolved_status", string(status)),
		logging.Error(runErr),
	)
	if err := r.store.Update(ctx, item); err != nil {
		logger.Error("failed to persist run failure", logging.Error(err))
	}

	if r.notifier != nil {
		if err := r.notifier.Publish(ctx, notifications.EventRunFailed, notifications.Payload{
			"title": item.Title,
			"error": message,
		}); err != nil {
			logger.Debug("failure notification failed", logging.Error(err))
		}
	}
}

func (r *Runner) notifyCompleted(ctx context.Context, item *queue.Item, state *runState) {
	if r.notifier == nil {
		return
	}
	payload := notifications.Payload{
		"title":  item.Title,
		"output": item.OutputPath,
	}
	if state.stats.Statements > 0 {
		payload["summary"] = state.stats.Summary()
	}
	if err := r.notifier.Publish(ctx, notifications.EventRunCompleted, payload); err != nil {
		logging.WithContext(ctx, r.logger).Debug("completion notification failed", logging.Error(err))
	}
}

// CheckBackend verifies the configured cleaning backend is reachable and
// accepts requests. Raw runners have nothing to check. Backends without a
// health probe pass trivially.
func (r *Runner) CheckBackend(ctx context.Context) error {
	if r.opts.Raw {
		return nil
	}
	if err := r.cfg.ValidateCleaningCredentials(); err != nil {
		return err
	}
	backend := r.opts.Backend
	if backend == nil {
		built, err := newBackend(r.cfg)
		if err != nil {
			return err
		}
		backend = built
	}
	probe, ok := backend.(interface {
		HealthCheck(ctx context.Context) error
	})
	if !ok {
		return nil
	}
	return probe.HealthCheck(ctx)
}

// exportOptions resolves document presentation once so progressive rewrites
// and the final export render identically.
func (r *Runner) exportOptions(state *runState) export.Options {
	title := strings.TrimSpace(r.opts.Title)
	subtitle := ""
	switch {
	case r.opts.Raw:
		if title == "" {
			title = export.DefaultRawTitle
		}
		subtitle = export.RawSubtitle
	case title == "":
		title = export.DefaultCleanedTitle
	}
	return export.Options{
		Title:     title,
		Subtitle:  subtitle,
		Annotate:  !r.opts.Raw && r.cfg.Export.AnnotateRemoved,
		Originals: state.statements,
	}
}

func (r *Runner) exportFormats() (markdown, docx bool) {
	switch strings.ToLower(strings.TrimSpace(r.cfg.Export.Format)) {
	case "docx":
		return false, true
	case "both":
		return true, true
	default:
		return true, false
	}
}

func (r *Runner) resolveOutputPaths(item *queue.Item) (markdownPath, docxPath string) {
	base := strings.TrimSuffix(filepath.Base(item.SourcePath), filepath.Ext(item.SourcePath))
	if base == "" || base == "." {
		base = "transcript"
	}
	if r.opts.Raw {
		base += ".raw"
	}
	markdownPath = filepath.Join(r.cfg.Paths.OutputDir, base+".md")
	docxPath = filepath.Join(r.cfg.Paths.OutputDir, base+".docx")

	if override := strings.TrimSpace(r.opts.OutputPath); override != "" {
		ext := filepath.Ext(override)
		if strings.EqualFold(ext, ".docx") {
			docxPath = override
			markdownPath = strings.TrimSuffix(override, ext) + ".md"
		} else {
			markdownPath = override
			docxPath = strings.TrimSuffix(override, ext) + ".docx"
		}
	}
	return markdownPath, docxPath
}

func stageLabel(status queue.Status) string {
	runes := []rune(string(status))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
