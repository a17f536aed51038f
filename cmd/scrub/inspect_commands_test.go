package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scrub/internal/testsupport"
)

func TestCLIStatements(t *testing.T) {
	env := setupCLITestEnv(t)
	source := testsupport.WriteSampleTranscript(t, env.baseDir)

	out, _, err := runCLI(t, []string{"statements", source}, env.configPath)
	if err != nil {
		t.Fatalf("statements: %v", err)
	}
	requireContains(t, out, "Alice")
	requireContains(t, out, "Bob")
	requireContains(t, out, "Cues")
	requireContains(t, out, "00:00:00.000")
	requireContains(t, out, "um so I think we should go")
	requireContains(t, out, "2 statements from 2 speakers across 3 cues")
}

func TestCLIStatementsGapOverride(t *testing.T) {
	env := setupCLITestEnv(t)
	source := testsupport.WriteSampleTranscript(t, env.baseDir)

	// A 2-second ceiling splits Bob's cue from Alice's run but also keeps
	// Alice's back-to-back cues merged.
	out, _, err := runCLI(t, []string{"statements", "--gap", "2", source}, env.configPath)
	if err != nil {
		t.Fatalf("statements --gap: %v", err)
	}
	requireContains(t, out, "2 statements from 2 speakers across 3 cues")
}

func TestCLIStatementsReportsSkippedCues(t *testing.T) {
	env := setupCLITestEnv(t)
	source := filepath.Join(env.baseDir, "ragged.vtt")
	content := strings.Join([]string{
		"WEBVTT",
		"",
		"00:00:00.000 --> 00:00:02.000",
		"<v Alice>hello there",
		"",
		"not a timestamp line",
		"<v Bob>orphaned text",
		"",
	}, "\n")
	if err := os.WriteFile(source, []byte(content), 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}

	out, _, err := runCLI(t, []string{"statements", source}, env.configPath)
	if err != nil {
		t.Fatalf("statements: %v", err)
	}
	requireContains(t, out, "Skipped 1 malformed cues")
}

func TestCLIChunks(t *testing.T) {
	env := setupCLITestEnv(t)
	source := testsupport.WriteSampleTranscript(t, env.baseDir)

	out, _, err := runCLI(t, []string{"chunks", source}, env.configPath)
	if err != nil {
		t.Fatalf("chunks: %v", err)
	}
	requireContains(t, out, "2 statements packed into 1 batches (budget 2000 tokens)")

	out, _, err = runCLI(t, []string{"chunks", "--max-tokens", "20", source}, env.configPath)
	if err != nil {
		t.Fatalf("chunks --max-tokens: %v", err)
	}
	requireContains(t, out, "2 statements packed into 2 batches (budget 20 tokens)")
}

func TestCLIStatementsMissingFile(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"statements", filepath.Join(env.baseDir, "nope.vtt")}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing transcript")
	}
}
