package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGrouping(); err != nil {
		return err
	}
	if err := c.validateChunking(); err != nil {
		return err
	}
	if err := c.validateCleaning(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGrouping() error {
	if c.Grouping.MaxGapSeconds < 0 {
		return errors.New("grouping.max_gap_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateChunking() error {
	if err := ensurePositiveMap(map[string]int{
		"chunking.max_tokens":      c.Chunking.MaxTokens,
		"chunking.chars_per_token": c.Chunking.CharsPerToken,
	}); err != nil {
		return err
	}
	if c.Chunking.StatementOverheadTokens < 0 {
		return errors.New("chunking.statement_overhead_tokens must be >= 0")
	}
	if c.Chunking.StatementOverheadTokens >= c.Chunking.MaxTokens {
		return errors.New("chunking.statement_overhead_tokens must be smaller than chunking.max_tokens")
	}
	return nil
}

func (c *Config) validateCleaning() error {
	switch c.Cleaning.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("cleaning.provider must be %q or %q, got %q", "openai", "gemini", c.Cleaning.Provider)
	}
	return nil
}

// ValidateCleaningCredentials checks that the selected cleaning backend has
// credentials. Kept separate from Validate so commands that never touch the
// external service (statements, chunks, --raw) load config without keys.
func (c *Config) ValidateCleaningCredentials() error {
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = "~/.config/scrub/config.toml"
	}
	switch c.Cleaning.Provider {
	case "openai":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm.api_key is required. Set OPENROUTER_API_KEY env var or edit %s (create with 'scrub config init')", defaultPath)
		}
	case "gemini":
		if len(c.Gemini.APIKeys) == 0 {
			return fmt.Errorf("gemini.api_keys is required. Set GEMINI_API_KEY env var or edit %s (create with 'scrub config init')", defaultPath)
		}
	}
	return nil
}

func (c *Config) validateExport() error {
	switch c.Export.Format {
	case "markdown", "docx", "both":
	default:
		return fmt.Errorf("export.format must be one of markdown, docx, both; got %q", c.Export.Format)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateWatch() error {
	if err := ensurePositiveMap(map[string]int{
		"watch.max_concurrent": c.Watch.MaxConcurrent,
	}); err != nil {
		return err
	}
	if c.Watch.SettleDelayMS < 0 {
		return errors.New("watch.settle_delay_ms must be >= 0")
	}
	if len(c.Watch.Extensions) == 0 {
		return errors.New("watch.extensions must include at least one extension")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0 (0 disables pruning)")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
