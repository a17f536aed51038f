package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"scrub/internal/config"
	"scrub/internal/testsupport"
)

func watchConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Watch.SettleDelayMS = 0
	if err := os.MkdirAll(cfg.Paths.WatchDir, 0o755); err != nil {
		t.Fatalf("mkdir watch dir: %v", err)
	}
	return cfg
}

func startWatcher(t *testing.T, cfg *config.Config, handler Handler) (cancel func()) {
	t.Helper()
	w, err := New(cfg, handler, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	return func() {
		stop()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
		}
		w.Close()
	}
}

func TestWatcherDispatchesCreatedFiles(t *testing.T) {
	cfg := watchConfig(t)
	got := make(chan string, 4)
	cancel := startWatcher(t, cfg, func(ctx context.Context, path string) error {
		got <- path
		return nil
	})
	defer cancel()

	testsupport.WriteTranscript(t, filepath.Join(cfg.Paths.WatchDir, "notes.txt"), "not a transcript")
	want := testsupport.WriteSampleTranscript(t, cfg.Paths.WatchDir)

	select {
	case path := <-got:
		if path != want {
			t.Fatalf("dispatched %q, want %q", path, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	select {
	case path := <-got:
		t.Fatalf("unexpected dispatch for %q", path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherScansExistingFiles(t *testing.T) {
	cfg := watchConfig(t)
	want := testsupport.WriteSampleTranscript(t, cfg.Paths.WatchDir)

	got := make(chan string, 1)
	cancel := startWatcher(t, cfg, func(ctx context.Context, path string) error {
		got <- path
		return nil
	})
	defer cancel()

	select {
	case path := <-got:
		if path != want {
			t.Fatalf("dispatched %q, want %q", path, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("existing file was not dispatched")
	}
}

func TestWatcherBoundsConcurrency(t *testing.T) {
	cfg := watchConfig(t)
	cfg.Watch.MaxConcurrent = 1

	started := make(chan string, 2)
	release := make(chan struct{})
	cancel := startWatcher(t, cfg, func(ctx context.Context, path string) error {
		started <- path
		<-release
		return nil
	})
	defer cancel()

	testsupport.WriteTranscript(t, filepath.Join(cfg.Paths.WatchDir, "a.vtt"), testsupport.SampleVTT)
	testsupport.WriteTranscript(t, filepath.Join(cfg.Paths.WatchDir, "b.vtt"), testsupport.SampleVTT)

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("first handler was not called")
	}
	select {
	case path := <-started:
		t.Fatalf("second handler started before release: %q", path)
	case <-time.After(300 * time.Millisecond):
	}

	close(release)
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("second handler was not called after release")
	}
}

func TestWatcherKeepsRunningAfterHandlerError(t *testing.T) {
	cfg := watchConfig(t)
	got := make(chan string, 2)
	cancel := startWatcher(t, cfg, func(ctx context.Context, path string) error {
		got <- path
		return context.DeadlineExceeded
	})
	defer cancel()

	testsupport.WriteTranscript(t, filepath.Join(cfg.Paths.WatchDir, "a.vtt"), testsupport.SampleVTT)
	select {
	case <-got:
	case <-time.After(5 * time.Second):
		t.Fatal("first handler was not called")
	}

	testsupport.WriteTranscript(t, filepath.Join(cfg.Paths.WatchDir, "b.vtt"), testsupport.SampleVTT)
	select {
	case <-got:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher stopped after handler error")
	}
}

func TestWatcherExtensionMatching(t *testing.T) {
	cfg := watchConfig(t)
	cfg.Watch.Extensions = []string{"vtt", ".SRT", ""}

	w, err := New(cfg, func(context.Context, string) error { return nil }, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	cases := []struct {
		path string
		want bool
	}{
		{"meeting.vtt", true},
		{"MEETING.VTT", true},
		{"captions.srt", true},
		{"notes.txt", false},
		{"archive.vtt.bak", false},
		{"vtt", false},
	}
	for _, tc := range cases {
		if got := w.matches(tc.path); got != tc.want {
			t.Errorf("matches(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestWatcherRequiresHandler(t *testing.T) {
	cfg := watchConfig(t)
	if _, err := New(cfg, nil, nil); err == nil {
		t.Fatal("expected error for nil handler")
	}
}

func TestWatcherRequiresExistingDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.WatchDir = filepath.Join(cfg.Paths.WatchDir, "missing")
	if _, err := New(cfg, func(context.Context, string) error { return nil }, nil); err == nil {
		t.Fatal("expected error for missing watch directory")
	}
}
