package logging

import "testing"

func TestNewProgressSampler(t *testing.T) {
	tests := []struct {
		name       string
		bucketSize float64
		wantSize   float64
	}{
		{"default bucket size for zero", 0, 10},
		{"default bucket size for negative", -1, 10},
		{"custom bucket size", 5, 5},
		{"small bucket size", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucketSize)
			if s.bucketSize != tt.wantSize {
				t.Errorf("bucketSize = %v, want %v", s.bucketSize, tt.wantSize)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSamplerNilSampler(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "stage") {
		t.Error("ShouldLog on nil sampler should always return true")
	}
	s.Reset() // should not panic
}

func TestProgressSamplerStageChange(t *testing.T) {
	s := NewProgressSampler(10)

	if !s.ShouldLog(0, "Parsing") {
		t.Error("first stage should log")
	}
	if s.ShouldLog(0, "Parsing") {
		t.Error("same stage and percent should not log again")
	}
	if !s.ShouldLog(0, "Cleaning") {
		t.Error("different stage should log")
	}
	if s.lastStage != "Cleaning" {
		t.Errorf("lastStage = %q, want Cleaning", s.lastStage)
	}
}

func TestProgressSamplerPercentBuckets(t *testing.T) {
	s := NewProgressSampler(10)

	if !s.ShouldLog(0, "Cleaning") {
		t.Error("0% should log")
	}
	if s.ShouldLog(6, "Cleaning") {
		t.Error("6% should not log (same bucket)")
	}
	if !s.ShouldLog(10, "Cleaning") {
		t.Error("10% should log (new bucket)")
	}
	if s.ShouldLog(14, "Cleaning") {
		t.Error("14% should not log (same bucket)")
	}
	if !s.ShouldLog(20, "Cleaning") {
		t.Error("20% should log (new bucket)")
	}
}

func TestProgressSamplerNegativePercent(t *testing.T) {
	s := NewProgressSampler(10)

	if !s.ShouldLog(-1, "Unknown") {
		t.Error("first call should log even with negative percent")
	}
	if s.ShouldLog(-1, "Unknown") {
		t.Error("negative percent should not trigger bucket logging")
	}
}

func TestProgressSamplerCaps100Percent(t *testing.T) {
	s := NewProgressSampler(10)

	s.ShouldLog(95, "Cleaning")
	if !s.ShouldLog(100, "Cleaning") {
		t.Error("100% should log")
	}
	if s.ShouldLog(105, "Cleaning") {
		t.Error("105% should not log again (same as 100% bucket)")
	}
}

func TestProgressSamplerBucketResetOnStageChange(t *testing.T) {
	s := NewProgressSampler(10)

	s.ShouldLog(50, "Cleaning")
	s.ShouldLog(0, "Exporting")

	if !s.ShouldLog(10, "Exporting") {
		t.Error("10% should log after stage change reset bucket")
	}
}

