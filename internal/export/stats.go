package export

import (
	"fmt"

	"scrub/internal/diff"
	"scrub/internal/transcript"
)

// Stats summarizes a completed run for logs, tables, and notifications.
type Stats struct {
	Segments     int
	Statements   int
	Speakers     int
	Batches      int
	Warnings     int
	WordsRemoved int
	// AvgChars is the mean original statement length in characters.
	AvgChars   int
	PerSpeaker []SpeakerCount
}

// SpeakerCount reports how many statements one speaker contributed.
type SpeakerCount struct {
	Speaker    string
	Statements int
}

// RunInfo carries counts known to the caller but not derivable from the
// statement lists themselves.
type RunInfo struct {
	Segments int
	Batches  int
	Warnings int
}

// Collect computes run statistics by comparing original statements with
// their cleaned counterparts. Cleaned may equal originals for raw runs.
func Collect(originals, cleaned []transcript.Statement, info RunInfo) Stats {
	stats := Stats{
		Segments:   info.Segments,
		Statements: len(originals),
		Batches:    info.Batches,
		Warnings:   info.Warnings,
	}

	counts := make(map[string]int, 4)
	var chars int
	for _, stmt := range originals {
		counts[stmt.Speaker]++
		chars += len(stmt.Text)
	}
	if len(originals) > 0 {
		stats.AvgChars = chars / len(originals)
	}

	speakers := transcript.Speakers(originals)
	stats.Speakers = len(speakers)
	for _, speaker := range speakers {
		stats.PerSpeaker = append(stats.PerSpeaker, SpeakerCount{Speaker: speaker, Statements: counts[speaker]})
	}

	for i := range cleaned {
		if i >= len(originals) || cleaned[i].Text == originals[i].Text {
			continue
		}
		stats.WordsRemoved += diff.RemovedCount(diff.Words(originals[i].Text, cleaned[i].Text))
	}

	return stats
}

// Summary returns a one-line human summary for notifications and CLI output.
func (s Stats) Summary() string {
	return fmt.Sprintf("%d statements from %d speakers in %d batches, %d words removed, %d warnings",
		s.Statements, s.Speakers, s.Batches, s.WordsRemoved, s.Warnings)
}
