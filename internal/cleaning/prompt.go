package cleaning

import (
	_ "embed"
	"fmt"
	"strings"

	"scrub/internal/transcript"
)

//go:embed prompts/system_prompt.md
var rawSystemPrompt string

//go:embed prompts/cleaning_instructions.md
var rawInstructions string

var (
	systemPrompt = stripHeading(rawSystemPrompt)
	instructions = stripHeading(rawInstructions)
)

// SystemPrompt returns the embedded system prompt sent with every batch.
func SystemPrompt() string {
	return systemPrompt
}

// BuildPrompt renders one batch as the user prompt: the cleaning instructions
// followed by a marker block per statement. Markers are the statement's index
// in the whole transcript so responses can be reconciled without positional
// bookkeeping.
func BuildPrompt(statements []transcript.Statement, batch transcript.Batch) string {
	var b strings.Builder
	b.WriteString(instructions)
	for _, idx := range batch.Statements {
		if idx < 0 || idx >= len(statements) {
			continue
		}
		stmt := statements[idx]
		fmt.Fprintf(&b, "\n\n[STATEMENT %d]\nSpeaker: %s\n%s", idx, stmt.Speaker, stmt.Text)
	}
	return b.String()
}

// stripHeading drops the markdown title line the prompt files carry for
// human readers, plus any blank lines after it.
func stripHeading(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "# ") {
		return text
	}
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[idx+1:])
	}
	return ""
}
