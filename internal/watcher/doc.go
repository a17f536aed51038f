// Package watcher dispatches transcript files that arrive in the inbox
// directory. It filters filesystem create events by extension, waits for
// files to settle, and hands each one to a handler under a concurrency
// bound. Files already present when the watcher starts are dispatched
// through the same path.
package watcher
