package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"scrub/internal/transcript"
)

func newStatementsCommand(ctx *commandContext) *cobra.Command {
	var gapSeconds float64

	cmd := &cobra.Command{
		Use:   "statements <file>",
		Short: "Show how a transcript groups into speaker statements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			maxGap := cfg.MaxGap()
			if cmd.Flags().Changed("gap") {
				if gapSeconds < 0 {
					return fmt.Errorf("gap must be >= 0, got %v", gapSeconds)
				}
				maxGap = time.Duration(gapSeconds * float64(time.Second))
			}

			segments, warnings, err := loadSegments(args[0])
			if err != nil {
				return err
			}
			statements := transcript.Group(segments, maxGap)

			rows := make([][]string, 0, len(statements))
			for i, stmt := range statements {
				rows = append(rows, []string{
					fmt.Sprintf("%d", i),
					transcript.FormatTimestamp(stmt.Start),
					transcript.FormatTimestamp(stmt.End),
					stmt.Speaker,
					fmt.Sprintf("%d", stmt.SegmentCount()),
					truncateText(stmt.Text, 60),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Start", "End", "Speaker", "Cues", "Text"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "%d statements from %d speakers across %d cues\n",
				len(statements), len(transcript.Speakers(statements)), len(segments))
			if len(warnings) > 0 {
				fmt.Fprintf(out, "Skipped %d malformed cues\n", len(warnings))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&gapSeconds, "gap", 0, "Maximum silence in seconds before a new statement starts")
	return cmd
}

func newChunksCommand(ctx *commandContext) *cobra.Command {
	var gapSeconds float64
	var maxTokens int

	cmd := &cobra.Command{
		Use:   "chunks <file>",
		Short: "Show how a transcript packs into cleaning batches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			maxGap := cfg.MaxGap()
			if cmd.Flags().Changed("gap") {
				if gapSeconds < 0 {
					return fmt.Errorf("gap must be >= 0, got %v", gapSeconds)
				}
				maxGap = time.Duration(gapSeconds * float64(time.Second))
			}
			opts := transcript.ChunkOptions{
				MaxTokens:      cfg.Chunking.MaxTokens,
				CharsPerToken:  cfg.Chunking.CharsPerToken,
				OverheadTokens: cfg.Chunking.StatementOverheadTokens,
			}
			if cmd.Flags().Changed("max-tokens") {
				if maxTokens <= 0 {
					return fmt.Errorf("max-tokens must be positive, got %d", maxTokens)
				}
				opts.MaxTokens = maxTokens
			}

			segments, _, err := loadSegments(args[0])
			if err != nil {
				return err
			}
			statements := transcript.Group(segments, maxGap)
			batches := transcript.Pack(statements, opts)

			rows := make([][]string, 0, len(batches))
			for i, batch := range batches {
				rows = append(rows, []string{
					fmt.Sprintf("%d", i),
					fmt.Sprintf("%d", len(batch.Statements)),
					batchRange(batch),
					fmt.Sprintf("%d", batch.EstimatedTokens),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Batch", "Statements", "Range", "Est. Tokens"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "%d statements packed into %d batches (budget %d tokens)\n",
				len(statements), len(batches), opts.MaxTokens)
			return nil
		},
	}

	cmd.Flags().Float64Var(&gapSeconds, "gap", 0, "Maximum silence in seconds before a new statement starts")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Estimated-token budget per cleaning batch")
	return cmd
}

func loadSegments(arg string) ([]transcript.Segment, []transcript.ParseWarning, error) {
	absPath, err := filepath.Abs(arg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("file does not exist: %s", absPath)
		}
		return nil, nil, fmt.Errorf("inspect file: %w", err)
	}
	segments, warnings, err := transcript.ParseFile(absPath)
	if err != nil {
		return nil, nil, err
	}
	if len(segments) == 0 {
		return nil, nil, fmt.Errorf("no cues found in %s", absPath)
	}
	return segments, warnings, nil
}

func batchRange(batch transcript.Batch) string {
	if len(batch.Statements) == 0 {
		return "-"
	}
	first := batch.Statements[0]
	last := batch.Statements[len(batch.Statements)-1]
	if first == last {
		return fmt.Sprintf("%d", first)
	}
	return fmt.Sprintf("%d-%d", first, last)
}

func truncateText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
