package cleaning

import (
	"strings"
	"testing"

	"scrub/internal/transcript"
)

func TestSystemPromptStripsHeading(t *testing.T) {
	prompt := SystemPrompt()
	if prompt == "" {
		t.Fatal("system prompt is empty")
	}
	if strings.HasPrefix(prompt, "#") {
		t.Fatalf("markdown heading should be stripped, got %q", prompt)
	}
}

func TestBuildPrompt(t *testing.T) {
	statements := []transcript.Statement{
		{Speaker: "Alice", Text: "um so I think we should go"},
		{Speaker: "Bob", Text: "I agree"},
		{Speaker: "Alice", Text: "one more thing"},
	}
	prompt := BuildPrompt(statements, transcript.Batch{Statements: []int{0, 2}})

	if !strings.Contains(prompt, "[STATEMENT 0]\nSpeaker: Alice\num so I think we should go") {
		t.Errorf("prompt missing statement 0 block:\n%s", prompt)
	}
	if !strings.Contains(prompt, "[STATEMENT 2]\nSpeaker: Alice\none more thing") {
		t.Errorf("prompt missing statement 2 block:\n%s", prompt)
	}
	if strings.Contains(prompt, "[STATEMENT 1]") {
		t.Errorf("prompt leaked a statement outside the batch:\n%s", prompt)
	}
	if strings.Index(prompt, "[STATEMENT 0]") > strings.Index(prompt, "[STATEMENT 2]") {
		t.Error("statement blocks out of order")
	}
	if strings.HasPrefix(prompt, "\n") {
		t.Error("prompt should open with the instructions")
	}
}

func TestBuildPromptSkipsOutOfRangeIndices(t *testing.T) {
	statements := []transcript.Statement{{Speaker: "Alice", Text: "hello"}}
	prompt := BuildPrompt(statements, transcript.Batch{Statements: []int{0, 7}})
	if !strings.Contains(prompt, "[STATEMENT 0]") {
		t.Error("valid index dropped")
	}
	if strings.Contains(prompt, "[STATEMENT 7]") {
		t.Error("out-of-range index rendered")
	}
}
