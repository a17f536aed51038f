package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scrub/internal/diff"
	"scrub/internal/fileutil"
	"scrub/internal/transcript"
)

const (
	// DefaultCleanedTitle heads documents produced by a cleaning run.
	DefaultCleanedTitle = "Cleaned Meeting Transcript"
	// DefaultRawTitle heads documents exported without a cleaning pass.
	DefaultRawTitle = "Meeting Transcript"
	// RawSubtitle is the standing subtitle for raw exports.
	RawSubtitle = "Grouped by speaker with timestamps"
)

// Options control how a document is rendered.
type Options struct {
	// Title is the document heading. Empty falls back to DefaultCleanedTitle.
	Title string
	// Subtitle, when set, is rendered in italics under the title.
	Subtitle string
	// Annotate diffs each statement against Originals and marks removed
	// words. Statements beyond len(Originals) render unannotated.
	Annotate  bool
	Originals []transcript.Statement
}

// Markdown renders statements as a speaker-grouped markdown document.
// Statements whose body renders empty are skipped.
func Markdown(statements []transcript.Statement, opts Options) string {
	var b strings.Builder

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = DefaultCleanedTitle
	}
	b.WriteString("# " + title + "\n\n")
	if subtitle := strings.TrimSpace(opts.Subtitle); subtitle != "" {
		b.WriteString("*" + subtitle + "*\n\n")
	}

	prevSpeaker := ""
	wroteAny := false
	for i, stmt := range statements {
		body := statementBody(stmt, opts, i)
		if body == "" {
			continue
		}
		if !wroteAny || stmt.Speaker != prevSpeaker {
			if wroteAny {
				b.WriteString("\n")
			}
			b.WriteString("## " + stmt.Speaker + "\n\n")
			prevSpeaker = stmt.Speaker
		}
		b.WriteString("**" + transcript.FormatTimestamp(stmt.Start) + "**\n\n")
		b.WriteString(body + "\n\n")
		wroteAny = true
	}

	return b.String()
}

// WriteMarkdown renders the document and writes it atomically, creating the
// output directory if needed. Safe to call repeatedly with a growing set of
// cleaned statements.
func WriteMarkdown(path string, statements []transcript.Statement, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte(Markdown(statements, opts)), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

func statementBody(stmt transcript.Statement, opts Options, index int) string {
	if opts.Annotate && index < len(opts.Originals) {
		return diff.Annotate(opts.Originals[index].Text, stmt.Text)
	}
	return strings.TrimSpace(stmt.Text)
}
