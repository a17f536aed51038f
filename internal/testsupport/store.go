package testsupport

import (
	"context"
	"testing"

	"scrub/internal/config"
	"scrub/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewTranscript creates a new transcript item for tests using the provided store.
func NewTranscript(t testing.TB, store *queue.Store, sourcePath string) *queue.Item {
	t.Helper()

	item, err := store.NewTranscript(context.Background(), sourcePath)
	if err != nil {
		t.Fatalf("store.NewTranscript: %v", err)
	}
	return item
}
