package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"scrub/internal/logging"
	"scrub/internal/pipeline"
	"scrub/internal/queue"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var (
		outputPath string
		format     string
		annotate   bool
		noAnnotate bool
		raw        bool
		title      string
		gapSeconds float64
		maxTokens  int
	)

	cmd := &cobra.Command{
		Use:   "clean <file>",
		Short: "Clean one transcript file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if annotate && noAnnotate {
				return errors.New("specify only one of --annotate or --no-annotate")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCfg := *cfg
			if cmd.Flags().Changed("format") {
				switch strings.ToLower(strings.TrimSpace(format)) {
				case "markdown", "docx", "both":
					runCfg.Export.Format = strings.ToLower(strings.TrimSpace(format))
				default:
					return fmt.Errorf("unsupported format %q (use markdown, docx, or both)", format)
				}
			}
			if annotate {
				runCfg.Export.AnnotateRemoved = true
			}
			if noAnnotate {
				runCfg.Export.AnnotateRemoved = false
			}
			if cmd.Flags().Changed("gap") {
				if gapSeconds < 0 {
					return fmt.Errorf("gap must be >= 0, got %v", gapSeconds)
				}
				runCfg.Grouping.MaxGapSeconds = gapSeconds
			}
			if cmd.Flags().Changed("max-tokens") {
				if maxTokens <= 0 {
					return fmt.Errorf("max-tokens must be positive, got %d", maxTokens)
				}
				runCfg.Chunking.MaxTokens = maxTokens
			}

			absPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			info, err := os.Stat(absPath)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("file does not exist: %s", absPath)
				}
				return fmt.Errorf("inspect file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", absPath)
			}

			resolvedOutput := strings.TrimSpace(outputPath)
			if resolvedOutput != "" {
				if resolvedOutput, err = filepath.Abs(resolvedOutput); err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
			}

			logger, err := logging.NewFromConfig(&runCfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := queue.Open(&runCfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if existing, err := store.FindActiveBySource(cmd.Context(), absPath); err != nil {
				return err
			} else if existing != nil {
				return fmt.Errorf("transcript is already queued as item #%d (%s)", existing.ID, existing.Status)
			}

			item, err := store.NewTranscript(cmd.Context(), absPath)
			if err != nil {
				return err
			}

			runner := pipeline.New(&runCfg, store, nil, logger, pipeline.Options{
				Raw:        raw,
				OutputPath: resolvedOutput,
				Title:      strings.TrimSpace(title),
			})
			if err := runner.Run(cmd.Context(), item); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cleaned %s -> %s\n", filepath.Base(absPath), item.OutputPath)
			fmt.Fprintf(out, "%d statements in %d batches, %d words removed, %d warnings\n",
				item.StatementCount, item.BatchCount, item.RemovedWords, item.WarningCount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (extension selects the primary format)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: markdown, docx, or both")
	cmd.Flags().BoolVar(&annotate, "annotate", false, "Mark removed words with strikethrough")
	cmd.Flags().BoolVar(&noAnnotate, "no-annotate", false, "Disable removed-word strikethrough")
	cmd.Flags().BoolVar(&raw, "raw", false, "Export grouped statements without cleaning")
	cmd.Flags().StringVar(&title, "title", "", "Document title heading")
	cmd.Flags().Float64Var(&gapSeconds, "gap", 0, "Maximum silence in seconds before a new statement starts")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Estimated-token budget per cleaning batch")

	return cmd
}
