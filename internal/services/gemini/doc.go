// Package gemini provides the Gemini API backend for the cleaning stage.
//
// Multiple API keys can be configured; when the active key reports a quota or
// rate-limit failure the client rotates to the next one and retries, so free
// tier keys can be pooled. Hard errors are returned immediately.
package gemini
