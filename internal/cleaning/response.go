package cleaning

import (
	"regexp"
	"strconv"
	"strings"
)

var markerPattern = regexp.MustCompile(`\[STATEMENT\s+(\d+)\]`)

// ParseResponse extracts cleaned text keyed by statement marker. Markers may
// arrive in any order and the set may be incomplete; anything before the
// first marker is ignored. Echoed Speaker lines and stray code-fence lines
// inside a block are dropped, remaining lines joined with single spaces. A
// marker whose block is empty after stripping is omitted, which downstream
// treats the same as a missing marker.
func ParseResponse(content string) map[int]string {
	matches := markerPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return nil
	}
	cleaned := make(map[int]string, len(matches))
	for i, match := range matches {
		marker, err := strconv.Atoi(content[match[2]:match[3]])
		if err != nil {
			continue
		}
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if text := cleanBlock(content[match[1]:end]); text != "" {
			cleaned[marker] = text
		}
	}
	return cleaned
}

func cleanBlock(block string) string {
	var parts []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		if strings.HasPrefix(line, "Speaker:") {
			continue
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, " ")
}
