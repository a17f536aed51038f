package pipeline

import (
	"context"
	"fmt"
	"os"

	"scrub/internal/config"
	"scrub/internal/logging"
	"scrub/internal/queue"
	"scrub/internal/services"
	"scrub/internal/transcript"
)

// parseStage reads the source file into segments, groups them into speaker
// statements, and packs the statements into token-budgeted batches.
type parseStage struct {
	r     *Runner
	state *runState
}

func (s *parseStage) Prepare(ctx context.Context, item *queue.Item) error {
	info, err := os.Stat(item.SourcePath)
	if err != nil {
		return services.Wrap(services.ErrNotFound, "parse", "stat source",
			"Transcript file missing or unreadable", err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrValidation, "parse", "stat source",
			"Source path is a directory, expected a transcript file", nil)
	}
	return nil
}

func (s *parseStage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.r.logger)

	segments, warnings, err := transcript.ParseFile(item.SourcePath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "parse", "read cues",
			"Could not parse transcript", err)
	}
	for _, warning := range warnings {
		logger.Warn("cue skipped",
			logging.Int("line", warning.Line),
			logging.String("reason", warning.Message),
		)
	}
	if len(segments) == 0 {
		return services.Wrap(services.ErrValidation, "parse", "read cues",
			"No cues found in transcript", nil)
	}

	statements := transcript.Group(segments, s.r.cfg.MaxGap())
	batches := transcript.Pack(statements, chunkOptions(s.r.cfg))

	s.state.segments = segments
	s.state.warnings = warnings
	s.state.statements = statements
	s.state.batches = batches

	item.SegmentCount = len(segments)
	item.StatementCount = len(statements)
	item.BatchCount = len(batches)
	item.WarningCount = len(warnings)
	item.SetProgressComplete("Parsing", fmt.Sprintf("%d statements in %d batches", len(statements), len(batches)))

	logger.Info("transcript parsed",
		logging.Int("segments", len(segments)),
		logging.Int("statements", len(statements)),
		logging.Int("batches", len(batches)),
		logging.Int("parse_warnings", len(warnings)),
		logging.Int("speakers", len(transcript.Speakers(statements))),
	)
	return nil
}

func chunkOptions(cfg *config.Config) transcript.ChunkOptions {
	return transcript.ChunkOptions{
		MaxTokens:      cfg.Chunking.MaxTokens,
		CharsPerToken:  cfg.Chunking.CharsPerToken,
		OverheadTokens: cfg.Chunking.StatementOverheadTokens,
	}
}
