package transcript

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  time.Duration
	}{
		{"full", "01:02:03.456", time.Hour + 2*time.Minute + 3*time.Second + 456*time.Millisecond},
		{"short", "02:03.456", 2*time.Minute + 3*time.Second + 456*time.Millisecond},
		{"comma millis", "00:00:01,500", time.Second + 500*time.Millisecond},
		{"surrounding space", "  00:00:02.000 ", 2 * time.Second},
		{"zero", "00:00:00.000", 0},
		{"large hours", "10:00:00.000", 10 * time.Hour},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTimestamp(tc.input)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) returned error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("ParseTimestamp(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseTimestampRejectsMalformed(t *testing.T) {
	inputs := []string{
		"",
		"1.500",
		"00:00:01",
		"00:00:01.5",
		"00:00:01.5000",
		"00:-1:01.000",
		"00:00:aa.000",
		"00:00:00:01.000",
		"1h30m",
	}
	for _, input := range inputs {
		if _, err := ParseTimestamp(input); err == nil {
			t.Errorf("ParseTimestamp(%q) accepted malformed input", input)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		input time.Duration
		want  string
	}{
		{0, "00:00:00.000"},
		{time.Second + 500*time.Millisecond, "00:00:01.500"},
		{time.Hour + 2*time.Minute + 3*time.Second + 456*time.Millisecond, "01:02:03.456"},
		{90 * time.Minute, "01:30:00.000"},
		{-time.Second, "00:00:00.000"},
	}
	for _, tc := range cases {
		if got := FormatTimestamp(tc.input); got != tc.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	want := 3*time.Hour + 25*time.Minute + 17*time.Second + 42*time.Millisecond
	got, err := ParseTimestamp(FormatTimestamp(want))
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if got != want {
		t.Fatalf("round trip = %v, want %v", got, want)
	}
}
