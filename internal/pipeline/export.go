package pipeline

import (
	"context"
	"fmt"

	"scrub/internal/export"
	"scrub/internal/logging"
	"scrub/internal/queue"
	"scrub/internal/services"
)

// exportStage writes the final documents and computes the run statistics.
type exportStage struct {
	r     *Runner
	state *runState
}

func (s *exportStage) Prepare(ctx context.Context, item *queue.Item) error {
	return nil
}

func (s *exportStage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.r.logger)

	cleaned := s.state.cleaned
	if cleaned == nil {
		cleaned = s.state.statements
	}
	opts := s.r.exportOptions(s.state)
	markdown, docx := s.r.exportFormats()

	var outputs []string
	if markdown {
		if err := export.WriteMarkdown(s.state.markdownPath, cleaned, opts); err != nil {
			return services.Wrap(services.ErrTransient, "export", "write markdown",
				"Could not write markdown output", err)
		}
		outputs = append(outputs, s.state.markdownPath)
	}
	if docx {
		if err := export.WriteDocx(s.state.docxPath, cleaned, opts); err != nil {
			return services.Wrap(services.ErrTransient, "export", "write docx",
				"Could not write docx output", err)
		}
		outputs = append(outputs, s.state.docxPath)
	}
	if len(outputs) > 0 {
		item.OutputPath = outputs[0]
	}

	stats := export.Collect(s.state.statements, cleaned, export.RunInfo{
		Segments: len(s.state.segments),
		Batches:  len(s.state.batches),
		Warnings: item.WarningCount,
	})
	s.state.stats = stats
	item.RemovedWords = stats.WordsRemoved
	item.SetProgressComplete("Exporting", fmt.Sprintf("Exported %d statements", stats.Statements))

	logger.Info("transcript exported",
		logging.String("output", item.OutputPath),
		logging.Int("words_removed", stats.WordsRemoved),
		logging.Int("statements", stats.Statements),
	)
	return nil
}
