package transcript

import (
	"strings"
	"time"
)

// maxOverlapWords bounds the duplicate-word window collapsed when merging
// rolling captions. Longer repeats are kept as genuine repetition.
const maxOverlapWords = 8

// Group merges consecutive same-speaker segments into statements. Segments
// merge while the silence between them is at most maxGap; a longer gap or a
// speaker change starts a new statement. Segment order is preserved and every
// segment lands in exactly one statement.
func Group(segments []Segment, maxGap time.Duration) []Statement {
	if len(segments) == 0 {
		return nil
	}
	statements := make([]Statement, 0, len(segments))
	open := statementFrom(segments[0], 0)
	for i := 1; i < len(segments); i++ {
		seg := segments[i]
		if seg.Speaker == open.Speaker && seg.Start-open.End <= maxGap {
			open.Text = mergeStatementText(open.Text, seg.Text)
			if seg.End > open.End {
				open.End = seg.End
			}
			open.LastSegment = i
			continue
		}
		statements = append(statements, open)
		open = statementFrom(seg, i)
	}
	return append(statements, open)
}

func statementFrom(seg Segment, index int) Statement {
	return Statement{
		Speaker:      seg.Speaker,
		Start:        seg.Start,
		End:          seg.End,
		Text:         seg.Text,
		FirstSegment: index,
		LastSegment:  index,
	}
}

// mergeStatementText appends incoming cue text to the statement so far,
// collapsing words the rolling caption repeated across the cue boundary.
func mergeStatementText(accumulated, incoming string) string {
	incoming = strings.TrimSpace(incoming)
	if incoming == "" {
		return accumulated
	}
	if strings.TrimSpace(accumulated) == "" {
		return incoming
	}
	accWords := strings.Fields(accumulated)
	newWords := strings.Fields(incoming)
	overlap := overlapLength(accWords, newWords)
	if overlap >= len(newWords) {
		return accumulated
	}
	return accumulated + " " + strings.Join(newWords[overlap:], " ")
}

// overlapLength reports how many leading words of newWords repeat the tail of
// accWords. Comparison ignores case and edge punctuation so "go." still
// matches "go"; the longest match inside the window wins.
func overlapLength(accWords, newWords []string) int {
	window := maxOverlapWords
	if len(accWords) < window {
		window = len(accWords)
	}
	if len(newWords) < window {
		window = len(newWords)
	}
	for n := window; n > 0; n-- {
		if wordsMatch(accWords[len(accWords)-n:], newWords[:n]) {
			return n
		}
	}
	return 0
}

func wordsMatch(a, b []string) bool {
	for i := range a {
		if foldWord(a[i]) != foldWord(b[i]) {
			return false
		}
	}
	return true
}

func foldWord(word string) string {
	return strings.ToLower(strings.Trim(word, ".,!?;:"))
}
