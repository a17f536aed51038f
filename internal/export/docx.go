package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"scrub/internal/diff"
	"scrub/internal/transcript"
)

const (
	docxFont        = "Calibri"
	docxTitleSize   = 16
	docxSpeakerSize = 13
	docxBodySize    = 11

	docxInkColor     = "000000"
	docxTimeColor    = "595959"
	docxRemovedColor = "C00000"
)

// WriteDocx renders statements as a styled Word document at path. Removed
// words are rendered struck through in red when annotation is enabled.
func WriteDocx(path string, statements []transcript.Statement, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = DefaultCleanedTitle
	}
	doc.AddParagraph("").AddText(title).Font(docxFont).Size(docxTitleSize).Color(docxInkColor).Bold(true)
	if subtitle := strings.TrimSpace(opts.Subtitle); subtitle != "" {
		doc.AddParagraph("").AddText(subtitle).Font(docxFont).Size(docxBodySize).Color(docxTimeColor)
	}
	doc.AddParagraph("")

	prevSpeaker := ""
	wroteAny := false
	for i, stmt := range statements {
		if strings.TrimSpace(stmt.Text) == "" {
			continue
		}
		if !wroteAny || stmt.Speaker != prevSpeaker {
			doc.AddParagraph("").AddText(stmt.Speaker).Font(docxFont).Size(docxSpeakerSize).Color(docxInkColor).Bold(true)
			prevSpeaker = stmt.Speaker
		}
		doc.AddParagraph("").AddText(transcript.FormatTimestamp(stmt.Start)).Font(docxFont).Size(docxBodySize).Color(docxTimeColor).Bold(true)
		writeBodyRuns(doc.AddParagraph(""), stmt, opts, i)
		doc.AddParagraph("")
		wroteAny = true
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

func writeBodyRuns(p *docx.Paragraph, stmt transcript.Statement, opts Options, index int) {
	if opts.Annotate && index < len(opts.Originals) {
		if words := diff.Words(opts.Originals[index].Text, stmt.Text); words != nil {
			writeDiffRuns(p, words)
			return
		}
	}
	p.AddText(strings.TrimSpace(stmt.Text)).Font(docxFont).Size(docxBodySize).Color(docxInkColor)
}

// writeDiffRuns emits one text run per stretch of consecutive kept or removed
// words, so struck-out phrases stay single runs instead of one run per word.
func writeDiffRuns(p *docx.Paragraph, words []diff.Word) {
	start := 0
	wrote := false
	for start < len(words) {
		removed := words[start].Op == diff.Remove
		end := start
		texts := make([]string, 0, len(words)-start)
		for end < len(words) && (words[end].Op == diff.Remove) == removed {
			texts = append(texts, words[end].Text)
			end++
		}

		text := strings.Join(texts, " ")
		if wrote {
			text = " " + text
		}
		run := p.AddText(text).Font(docxFont).Size(docxBodySize)
		if removed {
			run.Color(docxRemovedColor).Strike(true)
		} else {
			run.Color(docxInkColor)
		}

		wrote = true
		start = end
	}
}
