package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"scrub/internal/config"
)

func TestLoadDefaultConfigUsesEnvKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "scrub")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.WatchDir != filepath.Join(tempHome, "transcripts") {
		t.Fatalf("unexpected watch dir: %q", cfg.Paths.WatchDir)
	}
	if cfg.LLM.APIKey != "test-key" {
		t.Fatalf("expected LLM key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.BaseURL != config.Default().LLM.BaseURL {
		t.Fatalf("unexpected LLM base url: %q", cfg.LLM.BaseURL)
	}
	if cfg.Grouping.MaxGapSeconds != 5.0 {
		t.Fatalf("unexpected max gap default: %v", cfg.Grouping.MaxGapSeconds)
	}
	if cfg.Chunking.MaxTokens != 2000 || cfg.Chunking.CharsPerToken != 4 {
		t.Fatalf("unexpected chunking defaults: %+v", cfg.Chunking)
	}
	if cfg.Cleaning.Provider != "openai" {
		t.Fatalf("unexpected cleaning provider default: %q", cfg.Cleaning.Provider)
	}
	if cfg.Export.Format != "markdown" || !cfg.Export.AnnotateRemoved {
		t.Fatalf("unexpected export defaults: %+v", cfg.Export)
	}
	if got := cfg.Watch.Extensions; len(got) != 1 || got[0] != ".vtt" {
		t.Fatalf("unexpected watch extensions: %v", got)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.LogDir, cfg.Paths.DataDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if cfg.QueueDatabasePath() != filepath.Join(wantData, "queue.db") {
		t.Fatalf("unexpected queue db path: %q", cfg.QueueDatabasePath())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "scrub.toml")

	type payload struct {
		Grouping struct {
			MaxGapSeconds float64 `toml:"max_gap_seconds"`
		} `toml:"grouping"`
		Chunking struct {
			MaxTokens int `toml:"max_tokens"`
		} `toml:"chunking"`
		LLM struct {
			APIKey  string `toml:"api_key"`
			BaseURL string `toml:"base_url"`
		} `toml:"llm"`
	}
	custom := payload{}
	custom.Grouping.MaxGapSeconds = 2.5
	custom.Chunking.MaxTokens = 8000
	custom.LLM.APIKey = "abc123"
	custom.LLM.BaseURL = "https://example.com/v1/chat/completions"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Grouping.MaxGapSeconds != 2.5 {
		t.Fatalf("expected max gap 2.5, got %v", cfg.Grouping.MaxGapSeconds)
	}
	if cfg.Chunking.MaxTokens != 8000 {
		t.Fatalf("expected max tokens 8000, got %d", cfg.Chunking.MaxTokens)
	}
	if cfg.LLM.APIKey != "abc123" {
		t.Fatalf("expected LLM key from file, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.BaseURL != "https://example.com/v1/chat/completions" {
		t.Fatalf("expected LLM base url override, got %q", cfg.LLM.BaseURL)
	}
	if cfg.Chunking.CharsPerToken != 4 {
		t.Fatalf("expected chars per token default, got %d", cfg.Chunking.CharsPerToken)
	}
}

func TestEnvVarOverridesForAPIKeys(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "env-openrouter")
	t.Setenv("GEMINI_API_KEY", "env-gemini")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "env-openrouter" {
		t.Errorf("expected LLM key from env, got %q", cfg.LLM.APIKey)
	}
	if len(cfg.Gemini.APIKeys) != 1 || cfg.Gemini.APIKeys[0] != "env-gemini" {
		t.Errorf("expected gemini key from env, got %v", cfg.Gemini.APIKeys)
	}

	t.Setenv("SCRUB_LLM_API_KEY", "env-scrub")
	cfg, _, _, err = config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "env-scrub" {
		t.Errorf("expected SCRUB_LLM_API_KEY to win, got %q", cfg.LLM.APIKey)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "your_api_key_here") {
		t.Fatalf("sample config missing placeholder API key: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Chunking.MaxTokens != 2000 {
		t.Fatalf("expected sample max_tokens to match default, got %d", cfg.Chunking.MaxTokens)
	}
	if cfg.Cleaning.Provider != "openai" {
		t.Fatalf("expected sample provider openai, got %q", cfg.Cleaning.Provider)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Grouping.MaxGapSeconds = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative gap threshold")
	}

	cfg = config.Default()
	cfg.Chunking.MaxTokens = 0
	cfg.Chunking.StatementOverheadTokens = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive token budget")
	}

	cfg = config.Default()
	cfg.Cleaning.Provider = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown provider")
	}

	cfg = config.Default()
	cfg.Export.Format = "pdf"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown export format")
	}

	cfg = config.Default()
	cfg.Notifications.RequestTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive notification timeout")
	}
}

func TestValidateCleaningCredentials(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.APIKey = ""
	if err := cfg.ValidateCleaningCredentials(); err == nil {
		t.Fatal("expected error when openai provider has no key")
	}
	cfg.LLM.APIKey = "key"
	if err := cfg.ValidateCleaningCredentials(); err != nil {
		t.Fatalf("unexpected error with key set: %v", err)
	}

	cfg = config.Default()
	cfg.Cleaning.Provider = "gemini"
	cfg.Gemini.APIKeys = nil
	if err := cfg.ValidateCleaningCredentials(); err == nil {
		t.Fatal("expected error when gemini provider has no keys")
	}
	cfg.Gemini.APIKeys = []string{"key"}
	if err := cfg.ValidateCleaningCredentials(); err != nil {
		t.Fatalf("unexpected error with gemini key set: %v", err)
	}
}
