package textutil

import (
	"math"
	"testing"
)

func TestTokenizeFiltersShortTokens(t *testing.T) {
	got := Tokenize("um so I think we should go")
	want := []string{"think", "should"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokenize()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNewFingerprintEmptyText(t *testing.T) {
	if fp := NewFingerprint(""); fp != nil {
		t.Fatalf("expected nil fingerprint for empty text, got %#v", fp)
	}
	if fp := NewFingerprint("a an to"); fp != nil {
		t.Fatalf("expected nil fingerprint for short-token text, got %#v", fp)
	}
}

func TestCosineSimilarityNil(t *testing.T) {
	tests := []struct {
		name string
		a    *Fingerprint
		b    *Fingerprint
	}{
		{"both nil", nil, nil},
		{"a nil", nil, NewFingerprint("hello world")},
		{"b nil", NewFingerprint("hello world"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); got != 0 {
				t.Errorf("CosineSimilarity() = %v, want 0", got)
			}
		})
	}
}

func TestCosineSimilarityFillerRemovalStaysHigh(t *testing.T) {
	original := NewFingerprint("um so I think basically we should launch the feature next week")
	cleaned := NewFingerprint("I think we should launch the feature next week")

	got := CosineSimilarity(original, cleaned)
	if got < 0.8 {
		t.Errorf("CosineSimilarity(filler removal) = %v, want >= 0.8", got)
	}
}

func TestCosineSimilarityRewriteDrops(t *testing.T) {
	original := NewFingerprint("the quarterly numbers look strong across every region")
	rewritten := NewFingerprint("unrelated content about weather patterns and migration")

	got := CosineSimilarity(original, rewritten)
	if got != 0 {
		t.Errorf("CosineSimilarity(rewrite) = %v, want 0", got)
	}
}

func TestCosineSimilarityIdentical(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	got := CosineSimilarity(NewFingerprint(text), NewFingerprint(text))
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("CosineSimilarity(identical) = %v, want 1.0", got)
	}
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := NewFingerprint("hello world program")
	b := NewFingerprint("world program test")

	if ab, ba := CosineSimilarity(a, b), CosineSimilarity(b, a); ab != ba {
		t.Errorf("CosineSimilarity not symmetric: (%v, %v)", ab, ba)
	}
}

