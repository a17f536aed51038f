package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTranscript writes transcript content to the target path, creating
// parent directories as needed, and returns the path.
func WriteTranscript(t testing.TB, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// SampleVTT is a small cue transcript used across tests.
const SampleVTT = `WEBVTT

00:00:00.000 --> 00:00:02.000
<v Alice>um so I think

00:00:02.000 --> 00:00:03.000
<v Alice>we should go

00:00:06.000 --> 00:00:07.000
<v Bob>I agree
`

// WriteSampleTranscript writes SampleVTT under dir and returns its path.
func WriteSampleTranscript(t testing.TB, dir string) string {
	t.Helper()
	return WriteTranscript(t, filepath.Join(dir, "meeting.vtt"), SampleVTT)
}
