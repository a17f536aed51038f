package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// Config captures the runtime settings for the Gemini backend.
type Config struct {
	APIKeys []string
	Model   string
}

// Client calls the Gemini API, rotating across the configured keys when one
// runs out of quota. Safe for concurrent use.
type Client struct {
	model    string
	generate generateFunc

	mu      sync.Mutex
	keys    []string
	current int
}

// generateFunc performs one generation call with one key. Swapped in tests.
type generateFunc func(ctx context.Context, apiKey, model, prompt string) (string, error)

// NewClient constructs a client from the supplied configuration.
func NewClient(cfg Config) (*Client, error) {
	keys := make([]string, 0, len(cfg.APIKeys))
	for _, key := range cfg.APIKeys {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	if len(keys) == 0 {
		return nil, errors.New("gemini: at least one api key required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Client{
		model:    model,
		keys:     keys,
		generate: generateContent,
	}, nil
}

// Complete sends the prompts to Gemini and returns the response text. The
// Gemini API carries no separate system role here, so the system prompt is
// prepended to the user prompt. Quota and rate-limit failures rotate to the
// next key; the error surfaces only once every key is exhausted.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	prompt := strings.TrimSpace(strings.TrimSpace(systemPrompt) + "\n\n" + strings.TrimSpace(userPrompt))
	if prompt == "" {
		return "", errors.New("gemini complete: prompt required")
	}

	attempts := c.keyCount()
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		key := c.activeKey()
		text, err := c.generate(ctx, key, c.model, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if isQuotaError(err) {
				c.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("gemini complete: %w", err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return "", errors.New("gemini complete: empty response")
		}
		return text, nil
	}
	return "", fmt.Errorf("gemini complete: all %d api keys exhausted: %w", attempts, lastErr)
}

// HealthCheck verifies at least one key accepts a trivial request.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.Complete(ctx, "Respond with the single word OK.", "ping")
	return err
}

func (c *Client) keyCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keys)
}

func (c *Client) activeKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keys[c.current]
}

func (c *Client) rotateKey() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = (c.current + 1) % len(c.keys)
}

// isQuotaError matches the strings the Gemini API uses for rate and quota
// limits. The SDK error types are not stable enough to switch on.
func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func generateContent(ctx context.Context, apiKey, model, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}
	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", errors.New("empty candidates")
	}
	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return text.String(), nil
}
