// Package llm provides the OpenAI-compatible chat client used by the
// cleaning stage.
//
// The client targets OpenRouter-style endpoints: bearer-key auth, optional
// HTTP-Referer/X-Title attribution headers, and a chat-completions request
// body. The response decoder tolerates provider quirks (streaming-schema
// delta payloads, legacy completion text fields, code-fenced content).
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: send system/user prompts, receive the model's text.
// Client.HealthCheck: verify API key and model availability.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors, network timeouts, and empty
// responses with exponential backoff (base 1s, max 10s, up to 5 attempts by
// default), honoring Retry-After when the server sends one. Context
// cancellation aborts retries immediately.
package llm
