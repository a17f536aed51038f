package pipeline

import (
	"context"
	"fmt"
	"strings"

	"scrub/internal/cleaning"
	"scrub/internal/config"
	"scrub/internal/export"
	"scrub/internal/logging"
	"scrub/internal/queue"
	"scrub/internal/services"
	"scrub/internal/services/gemini"
	"scrub/internal/services/llm"
	"scrub/internal/transcript"
)

// cleanStage submits the packed batches to the configured backend and
// reconciles the cleaned text back onto the statements.
type cleanStage struct {
	r       *Runner
	state   *runState
	backend cleaning.Backend
}

func (s *cleanStage) Prepare(ctx context.Context, item *queue.Item) error {
	if err := s.r.cfg.ValidateCleaningCredentials(); err != nil {
		return services.Wrap(services.ErrConfiguration, "clean", "check credentials",
			"Cleaning backend credentials missing", err)
	}
	if s.r.opts.Backend != nil {
		s.backend = s.r.opts.Backend
		return nil
	}
	backend, err := newBackend(s.r.cfg)
	if err != nil {
		return err
	}
	s.backend = backend
	return nil
}

func (s *cleanStage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.r.logger)

	if len(s.state.batches) == 0 {
		s.state.cleaned = make([]transcript.Statement, len(s.state.statements))
		copy(s.state.cleaned, s.state.statements)
		item.SetProgressComplete("Cleaning", "Nothing to clean")
		return nil
	}

	svc := cleaning.NewService(s.backend, cleaning.Options{
		Concurrency: s.r.cfg.Cleaning.Concurrency,
		Logger:      s.r.logger,
	})

	markdown, _ := s.r.exportFormats()
	progressive := s.r.cfg.Export.Progressive && markdown
	sampler := logging.NewProgressSampler(10)
	total := len(s.state.batches)

	onProgress := func(completed, totalBatches int, current []transcript.Statement) {
		percent := float64(completed) / float64(totalBatches) * 100
		message := fmt.Sprintf("Batch %d of %d", completed, totalBatches)
		item.BatchesDone = completed
		item.SetProgress("Cleaning", message, percent)
		if err := s.r.store.UpdateProgress(ctx, item); err != nil {
			logger.Warn("persist cleaning progress", logging.Error(err))
		}
		if progressive {
			if err := export.WriteMarkdown(s.state.markdownPath, current, s.r.exportOptions(s.state)); err != nil {
				logger.Warn("progressive export", logging.Error(err))
			}
		}
		if sampler.ShouldLog(percent, "cleaning") {
			logger.Info("cleaning progress",
				logging.Int("completed", completed),
				logging.Int("total", totalBatches),
				logging.Float64("percent", percent),
			)
		}
	}

	result, err := svc.Clean(ctx, s.state.statements, s.state.batches, onProgress)
	if err != nil {
		return services.Wrap(services.ErrTransient, "clean", "clean batches",
			"Run cancelled", err)
	}

	s.state.cleaned = result.Statements
	for _, warning := range result.Warnings {
		logger.Warn("reconciliation warning",
			logging.Int(logging.FieldBatch, warning.Batch),
			logging.Int("marker", warning.Marker),
			logging.String("reason", warning.Message),
		)
	}

	failed := result.FailedBatches()
	if len(failed) == total {
		var cause error
		for _, outcome := range result.Outcomes {
			if outcome.Err != nil {
				cause = outcome.Err
				break
			}
		}
		return services.Wrap(services.ErrExternalService, "clean", "clean batches",
			"All cleaning batches failed", cause)
	}

	item.WarningCount += len(result.Warnings) + len(failed)
	item.BatchesDone = total - len(failed)
	if len(failed) > 0 {
		item.SetProgressComplete("Cleaning", fmt.Sprintf("Cleaned with %d failed batches", len(failed)))
	} else {
		item.SetProgressComplete("Cleaning", fmt.Sprintf("Cleaned %d statements", result.AppliedCount()))
	}

	logger.Info("cleaning finished",
		logging.Int("applied", result.AppliedCount()),
		logging.Int("failed_batches", len(failed)),
		logging.Int("warnings", len(result.Warnings)),
	)
	return nil
}

// newBackend builds the cleaning client the config selects.
func newBackend(cfg *config.Config) (cleaning.Backend, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Cleaning.Provider))
	switch provider {
	case "", "openai":
		settings := cfg.GetLLM()
		return llm.NewClient(llm.Config{
			APIKey:         settings.APIKey,
			BaseURL:        settings.BaseURL,
			Model:          settings.Model,
			Referer:        settings.Referer,
			Title:          settings.Title,
			TimeoutSeconds: settings.TimeoutSeconds,
		}), nil
	case "gemini":
		client, err := gemini.NewClient(gemini.Config{
			APIKeys: cfg.Gemini.APIKeys,
			Model:   cfg.Gemini.Model,
		})
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "clean", "build backend",
				"Could not build Gemini client", err)
		}
		return client, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "clean", "build backend",
			fmt.Sprintf("Unknown cleaning provider %q", cfg.Cleaning.Provider), nil)
	}
}
