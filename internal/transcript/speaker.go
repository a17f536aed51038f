package transcript

import (
	"regexp"
	"strings"
	"unicode"
)

// speakerStrategy attempts to pull a speaker name out of a cue's joined text.
// It returns the name, the text with the tagging removed, and whether it
// matched.
type speakerStrategy func(text string) (speaker, rest string, ok bool)

// speakerStrategies are tried in order; the first match wins. Keeping the
// recognized forms as a list means new tagging conventions slot in without
// touching the parser.
var speakerStrategies = []speakerStrategy{
	voiceTagSpeaker,
	prefixSpeaker,
}

// ExtractSpeaker resolves the speaker for a cue, returning the text with any
// tagging stripped. Cues with no recognizable tagging fall back to
// UnknownSpeaker.
func ExtractSpeaker(text string) (string, string) {
	for _, strategy := range speakerStrategies {
		if speaker, rest, ok := strategy(text); ok {
			return speaker, rest
		}
	}
	return UnknownSpeaker, strings.TrimSpace(text)
}

// voiceTagPattern matches WebVTT voice spans such as <v Alice> and
// <v.quiet Alice>, capturing the speaker name.
var voiceTagPattern = regexp.MustCompile(`<v(?:\.[^ \t>]+)*[ \t]+([^>]+)>`)

func voiceTagSpeaker(text string) (string, string, bool) {
	match := voiceTagPattern.FindStringSubmatch(text)
	if match == nil {
		return "", "", false
	}
	speaker := strings.TrimSpace(match[1])
	if speaker == "" {
		return "", "", false
	}
	rest := voiceTagPattern.ReplaceAllString(text, "")
	rest = strings.ReplaceAll(rest, "</v>", "")
	return speaker, strings.TrimSpace(rest), true
}

// maxSpeakerPrefixLen bounds how far into a cue a Name: prefix is considered.
// Anything longer is treated as sentence text that happens to contain a colon.
const maxSpeakerPrefixLen = 32

func prefixSpeaker(text string) (string, string, bool) {
	trimmed := strings.TrimSpace(text)
	idx := strings.Index(trimmed, ":")
	if idx <= 0 || idx > maxSpeakerPrefixLen {
		return "", "", false
	}
	rest := trimmed[idx+1:]
	if rest != "" && !strings.HasPrefix(rest, " ") {
		return "", "", false
	}
	name := strings.TrimSpace(trimmed[:idx])
	if !validSpeakerName(name) {
		return "", "", false
	}
	return name, strings.TrimSpace(rest), true
}

// validSpeakerName accepts short human-readable labels ("Alice", "Speaker 2",
// "J. Smith") and rejects prefixes like URLs or clock times.
func validSpeakerName(name string) bool {
	if name == "" {
		return false
	}
	hasLetter := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r) || unicode.IsSpace(r):
		case r == '.' || r == '-' || r == '\'' || r == '_':
		default:
			return false
		}
	}
	return hasLetter
}
