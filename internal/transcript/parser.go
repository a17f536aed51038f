package transcript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineBytes caps a single transcript line. Caption exports occasionally
// emit very long lines; anything past this is a malformed file.
const maxLineBytes = 1 << 20

// Parse reads a WebVTT-style cue transcript and returns its segments in file
// order. Cues that cannot be parsed are skipped and reported as warnings; only
// read failures produce an error.
func Parse(r io.Reader) ([]Segment, []ParseWarning, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		segments []Segment
		warnings []ParseWarning
		block    []cueLine
		lineNum  int
	)
	flush := func() {
		if len(block) == 0 {
			return
		}
		seg, warning, ok := parseCueBlock(block)
		if warning != nil {
			warnings = append(warnings, *warning)
		}
		if ok {
			segments = appendSegment(segments, seg)
		}
		block = block[:0]
	}
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block = append(block, cueLine{num: lineNum, text: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read transcript: %w", err)
	}
	flush()
	return segments, warnings, nil
}

// ParseFile parses the transcript at path.
func ParseFile(path string) ([]Segment, []ParseWarning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

type cueLine struct {
	num  int
	text string
}

// parseCueBlock converts one blank-line-delimited block into a segment.
// Header and metadata blocks are skipped silently; malformed cue blocks
// produce a warning so a bad stretch of file never aborts the parse.
func parseCueBlock(block []cueLine) (Segment, *ParseWarning, bool) {
	first := strings.TrimSpace(block[0].text)
	switch {
	case strings.HasPrefix(first, "WEBVTT"):
		return Segment{}, nil, false
	case strings.HasPrefix(first, "NOTE"),
		strings.HasPrefix(first, "STYLE"),
		strings.HasPrefix(first, "REGION"):
		return Segment{}, nil, false
	}

	timingIdx := -1
	for i, line := range block {
		if strings.Contains(line.text, "-->") {
			timingIdx = i
			break
		}
	}
	if timingIdx == -1 {
		return Segment{}, warnf(block[0].num, "cue block has no timestamp range"), false
	}

	timing := block[timingIdx]
	parts := strings.SplitN(timing.text, "-->", 2)
	if len(parts) != 2 {
		return Segment{}, warnf(timing.num, "malformed timestamp range %q", timing.text), false
	}
	start, err := ParseTimestamp(parts[0])
	if err != nil {
		return Segment{}, warnf(timing.num, "bad start timestamp: %v", err), false
	}
	// Cue settings may trail the end timestamp; only the first field counts.
	endFields := strings.Fields(parts[1])
	if len(endFields) == 0 {
		return Segment{}, warnf(timing.num, "timestamp range %q has no end", timing.text), false
	}
	end, err := ParseTimestamp(endFields[0])
	if err != nil {
		return Segment{}, warnf(timing.num, "bad end timestamp: %v", err), false
	}
	if start > end {
		return Segment{}, warnf(timing.num, "cue starts after it ends (%s > %s)", FormatTimestamp(start), FormatTimestamp(end)), false
	}

	var textLines []string
	for _, line := range block[timingIdx+1:] {
		if trimmed := strings.TrimSpace(line.text); trimmed != "" {
			textLines = append(textLines, trimmed)
		}
	}
	speaker, text := ExtractSpeaker(strings.Join(textLines, " "))
	if text == "" {
		return Segment{}, nil, false
	}
	return Segment{Start: start, End: end, Speaker: speaker, Text: text}, nil, true
}

// appendSegment drops rolling-caption repeats: a cue whose text is
// byte-identical to the immediately preceding segment carries no new words.
func appendSegment(segments []Segment, seg Segment) []Segment {
	if n := len(segments); n > 0 && segments[n-1].Text == seg.Text {
		return segments
	}
	return append(segments, seg)
}

func warnf(line int, format string, args ...any) *ParseWarning {
	return &ParseWarning{Line: line, Message: fmt.Sprintf(format, args...)}
}
