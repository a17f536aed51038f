package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scrub/internal/transcript"
)

func stmt(speaker, text string, start time.Duration) transcript.Statement {
	return transcript.Statement{Speaker: speaker, Start: start, End: start + time.Second, Text: text}
}

func TestMarkdownGroupsSpeakers(t *testing.T) {
	originals := []transcript.Statement{
		stmt("Alice", "um so I think we should go", 0),
		stmt("Bob", "I agree", 6*time.Second),
		stmt("Alice", "one more thing", 20*time.Second),
	}
	cleaned := []transcript.Statement{
		stmt("Alice", "I think we should go", 0),
		stmt("Bob", "I agree", 6*time.Second),
		stmt("Alice", "one more thing", 20*time.Second),
	}

	got := Markdown(cleaned, Options{Annotate: true, Originals: originals})
	want := `# Cleaned Meeting Transcript

## Alice

**00:00:00.000**

~~um~~ ~~so~~ I think we should go


## Bob

**00:00:06.000**

I agree


## Alice

**00:00:20.000**

one more thing

`
	if got != want {
		t.Errorf("document mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestMarkdownRawMode(t *testing.T) {
	statements := []transcript.Statement{
		stmt("Alice", "first thought", 0),
		stmt("Alice", "second thought", 10*time.Second),
	}

	got := Markdown(statements, Options{Title: DefaultRawTitle, Subtitle: RawSubtitle})
	want := `# Meeting Transcript

*Grouped by speaker with timestamps*

## Alice

**00:00:00.000**

first thought

**00:00:10.000**

second thought

`
	if got != want {
		t.Errorf("document mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestMarkdownSkipsEmptyStatements(t *testing.T) {
	statements := []transcript.Statement{
		stmt("Alice", "   ", 0),
		stmt("Bob", "hello", 5*time.Second),
	}

	got := Markdown(statements, Options{Title: "T"})
	want := `# T

## Bob

**00:00:05.000**

hello

`
	if got != want {
		t.Errorf("document mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestMarkdownAnnotateBeyondOriginals(t *testing.T) {
	statements := []transcript.Statement{
		stmt("Alice", "kept as is", 0),
	}

	got := Markdown(statements, Options{Title: "T", Annotate: true})
	if !strings.Contains(got, "kept as is") {
		t.Errorf("expected plain body, got:\n%s", got)
	}
	if strings.Contains(got, "~~") {
		t.Errorf("unexpected strikethrough markup:\n%s", got)
	}
}

func TestMarkdownDefaultTitle(t *testing.T) {
	got := Markdown(nil, Options{})
	if !strings.HasPrefix(got, "# "+DefaultCleanedTitle+"\n") {
		t.Errorf("expected default title, got:\n%s", got)
	}
}

func TestWriteMarkdownRewrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "transcript.md")

	originals := []transcript.Statement{
		stmt("Alice", "um hello there", 0),
	}
	opts := Options{Annotate: true, Originals: originals}

	if err := WriteMarkdown(path, originals, opts); err != nil {
		t.Fatal(err)
	}
	cleaned := []transcript.Statement{
		stmt("Alice", "hello there", 0),
	}
	if err := WriteMarkdown(path, cleaned, opts); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "~~um~~ hello there") {
		t.Errorf("expected annotated rewrite, got:\n%s", data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected a single output file, found %d entries", len(entries))
	}
}
