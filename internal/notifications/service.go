package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"scrub/internal/config"
)

const userAgent = "Scrub/0.1.0"

// Event identifies a notification-worthy moment in a transcript run.
type Event string

const (
	EventTranscriptDetected Event = "transcript_detected"
	EventRunCompleted       Event = "run_completed"
	EventRunFailed          Event = "run_failed"
	EventError              Event = "error"
	EventTest               Event = "test"
)

// Payload carries event-specific fields consumed by the event renderer.
// Common keys: "title", "summary", "output", "error", "context".
type Payload map[string]string

func (p Payload) value(key, fallback string) string {
	if v := strings.TrimSpace(p[key]); v != "" {
		return v
	}
	return fallback
}

// Service publishes user-facing notifications for pipeline events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

var renderers = map[Event]func(Payload) message{
	EventTranscriptDetected: func(p Payload) message {
		return message{
			title: "Scrub - Transcript Detected",
			body:  fmt.Sprintf("📝 Queued for cleaning: %s", p.value("title", "transcript")),
			tags:  []string{"scrub", "watch", "detected"},
		}
	},
	EventRunCompleted: func(p Payload) message {
		var body strings.Builder
		body.WriteString(fmt.Sprintf("✅ Cleaned: %s", p.value("title", "transcript")))
		if summary := p.value("summary", ""); summary != "" {
			body.WriteString("\n")
			body.WriteString(summary)
		}
		if output := p.value("output", ""); output != "" {
			body.WriteString("\nOutput: ")
			body.WriteString(output)
		}
		return message{
			title:    "Scrub - Complete",
			body:     body.String(),
			tags:     []string{"scrub", "clean", "completed"},
			priority: "high",
		}
	},
	EventRunFailed: func(p Payload) message {
		return message{
			title:    "Scrub - Failed",
			body:     fmt.Sprintf("❌ Cleaning failed: %s: %s", p.value("title", "transcript"), p.value("error", "unknown")),
			tags:     []string{"scrub", "clean", "failed"},
			priority: "high",
		}
	},
	EventError: func(p Payload) message {
		body := "❌ Error"
		if label := p.value("context", ""); label != "" {
			body += " with " + label
		}
		return message{
			title:    "Scrub - Error",
			body:     body + ": " + p.value("error", "unknown"),
			tags:     []string{"scrub", "error", "alert"},
			priority: "high",
		}
	},
	EventTest: func(Payload) message {
		return message{
			title:    "Scrub - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"scrub", "test"},
			priority: "low",
		}
	},
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

// Publish renders the event and posts it to the configured topic. Events
// without a renderer are dropped without error.
func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	render, ok := renderers[event]
	if !ok {
		return nil
	}
	return n.send(ctx, render(payload))
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
