package transcript

import "time"

// UnknownSpeaker labels cues that carry no recognizable speaker tag.
const UnknownSpeaker = "Unknown"

// Segment is one parsed cue: a timed utterance attributed to a speaker.
// Segments are immutable once parsed and ordered by start time within a file.
type Segment struct {
	Start   time.Duration
	End     time.Duration
	Speaker string
	Text    string
}

// Statement is one or more consecutive same-speaker segments merged under the
// grouping gap threshold. FirstSegment and LastSegment record the inclusive
// segment index range, so statements partition the segment sequence.
type Statement struct {
	Speaker      string
	Start        time.Duration
	End          time.Duration
	Text         string
	FirstSegment int
	LastSegment  int
}

// SegmentCount returns the number of segments merged into the statement.
func (s Statement) SegmentCount() int {
	return s.LastSegment - s.FirstSegment + 1
}

// Batch groups consecutive statement indices under a token budget for one
// cleaning call. EstimatedTokens can exceed the budget only when the batch
// holds a single oversized statement.
type Batch struct {
	Statements      []int
	EstimatedTokens int
}

// ParseWarning records a recoverable problem found while parsing, tied to the
// source line where it was detected.
type ParseWarning struct {
	Line    int
	Message string
}

// Speakers returns the distinct speaker names across statements, in order of
// first appearance.
func Speakers(statements []Statement) []string {
	seen := make(map[string]struct{}, 4)
	var names []string
	for _, stmt := range statements {
		if _, ok := seen[stmt.Speaker]; ok {
			continue
		}
		seen[stmt.Speaker] = struct{}{}
		names = append(names, stmt.Speaker)
	}
	return names
}
