package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"scrub/internal/testsupport"
)

var statementMarkers = regexp.MustCompile(`\[STATEMENT\s+(\d+)\]`)

// newChatStub serves an OpenAI-style chat completion endpoint that answers
// each marker in the prompt with the supplied text.
func newChatStub(t *testing.T, texts map[int]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		prompt := ""
		for _, msg := range req.Messages {
			if msg.Role == "user" {
				prompt = msg.Content
			}
		}

		var content strings.Builder
		for _, match := range statementMarkers.FindAllStringSubmatch(prompt, -1) {
			marker, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}
			if text, ok := texts[marker]; ok {
				fmt.Fprintf(&content, "[STATEMENT %d]\n%s\n\n", marker, text)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content.String()}},
			},
		})
	}))
}

func TestCLICleanAgainstStubServer(t *testing.T) {
	env := setupCLITestEnv(t)
	srv := newChatStub(t, map[int]string{
		0: "I think we should go",
		1: "I agree",
	})
	defer srv.Close()

	env.cfg.LLM.BaseURL = srv.URL
	writeTestConfig(t, env.configPath, env.cfg)

	source := testsupport.WriteSampleTranscript(t, env.baseDir)
	out, _, err := runCLI(t, []string{"clean", source}, env.configPath)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	requireContains(t, out, "Cleaned meeting.vtt")
	requireContains(t, out, "2 statements in 1 batches, 2 words removed")

	outputPath := filepath.Join(env.cfg.Paths.OutputDir, "meeting.md")
	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	requireContains(t, string(data), "~~um~~ ~~so~~ I think we should go")
	requireContains(t, string(data), "## Bob")
}

func TestCLICleanRaw(t *testing.T) {
	env := setupCLITestEnv(t)
	source := testsupport.WriteSampleTranscript(t, env.baseDir)

	out, _, err := runCLI(t, []string{"clean", "--raw", source}, env.configPath)
	if err != nil {
		t.Fatalf("clean --raw: %v", err)
	}
	requireContains(t, out, "Cleaned meeting.vtt")

	outputPath := filepath.Join(env.cfg.Paths.OutputDir, "meeting.raw.md")
	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	requireContains(t, string(data), "# Meeting Transcript")
	requireContains(t, string(data), "um so I think we should go")
}

func TestCLICleanOutputOverride(t *testing.T) {
	env := setupCLITestEnv(t)
	source := testsupport.WriteSampleTranscript(t, env.baseDir)
	override := filepath.Join(env.baseDir, "reports", "sync.md")

	_, _, err := runCLI(t, []string{"clean", "--raw", "--output", override, source}, env.configPath)
	if err != nil {
		t.Fatalf("clean --output: %v", err)
	}
	if _, err := os.Stat(override); err != nil {
		t.Fatalf("stat override: %v", err)
	}
}

func TestCLICleanFlagValidation(t *testing.T) {
	env := setupCLITestEnv(t)
	source := testsupport.WriteSampleTranscript(t, env.baseDir)

	if _, _, err := runCLI(t, []string{"clean", "--annotate", "--no-annotate", source}, env.configPath); err == nil {
		t.Fatal("expected error for conflicting annotation flags")
	}
	if _, _, err := runCLI(t, []string{"clean", "--format", "pdf", source}, env.configPath); err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if _, _, err := runCLI(t, []string{"clean", "--max-tokens", "-5", source}, env.configPath); err == nil {
		t.Fatal("expected error for negative max-tokens")
	}
	if _, _, err := runCLI(t, []string{"clean", filepath.Join(env.baseDir, "missing.vtt")}, env.configPath); err == nil {
		t.Fatal("expected error for missing file")
	}
}
