// Package diff aligns original and cleaned statement text word by word so
// exports can show what the cleaning pass removed.
package diff

import "strings"

// Op classifies one word of an alignment.
type Op int

const (
	// Keep marks a word present in both texts.
	Keep Op = iota
	// Remove marks a word only the original had.
	Remove
	// Insert marks a word the cleaned text introduced.
	Insert
)

// Word is one aligned word. Text carries the cleaned spelling for Keep and
// Insert, and the original spelling for Remove.
type Word struct {
	Op   Op
	Text string
}

// maxAlignWords bounds the quadratic alignment table. Statements are batched
// far below this; anything larger skips annotation rather than ballooning
// memory.
const maxAlignWords = 3000

// Words aligns the two texts on their longest common word subsequence.
// Matching ignores case and edge punctuation so a cleanup that turns "go,"
// into "go" reads as a keep, not a removal. At a replacement site removed
// words come before inserted ones. Returns nil when either side exceeds the
// alignment bound.
func Words(original, cleaned string) []Word {
	orig := strings.Fields(original)
	clean := strings.Fields(cleaned)
	if len(orig) > maxAlignWords || len(clean) > maxAlignWords {
		return nil
	}
	cols := len(clean) + 1
	table := lcsTable(orig, clean)
	words := make([]Word, 0, len(orig)+len(clean))
	i, j := 0, 0
	for i < len(orig) && j < len(clean) {
		switch {
		case matchWord(orig[i], clean[j]):
			words = append(words, Word{Op: Keep, Text: clean[j]})
			i++
			j++
		case table[(i+1)*cols+j] >= table[i*cols+j+1]:
			words = append(words, Word{Op: Remove, Text: orig[i]})
			i++
		default:
			words = append(words, Word{Op: Insert, Text: clean[j]})
			j++
		}
	}
	for ; i < len(orig); i++ {
		words = append(words, Word{Op: Remove, Text: orig[i]})
	}
	for ; j < len(clean); j++ {
		words = append(words, Word{Op: Insert, Text: clean[j]})
	}
	return words
}

// Annotate renders the cleaned text with the words cleaning removed struck
// through at their original positions. Whitespace is normalized to single
// spaces. Past the alignment bound the cleaned text is returned unannotated.
func Annotate(original, cleaned string) string {
	words := Words(original, cleaned)
	if words == nil {
		return strings.Join(strings.Fields(cleaned), " ")
	}
	parts := make([]string, 0, len(words))
	for _, word := range words {
		if word.Op == Remove {
			parts = append(parts, "~~"+word.Text+"~~")
		} else {
			parts = append(parts, word.Text)
		}
	}
	return strings.Join(parts, " ")
}

// RemovedCount reports how many words of an alignment are removals.
func RemovedCount(words []Word) int {
	n := 0
	for _, word := range words {
		if word.Op == Remove {
			n++
		}
	}
	return n
}

// lcsTable fills table[i*cols+j] with the longest common subsequence length
// of orig[i:] and clean[j:], walked back to front.
func lcsTable(orig, clean []string) []int {
	cols := len(clean) + 1
	table := make([]int, (len(orig)+1)*cols)
	for i := len(orig) - 1; i >= 0; i-- {
		for j := len(clean) - 1; j >= 0; j-- {
			switch {
			case matchWord(orig[i], clean[j]):
				table[i*cols+j] = table[(i+1)*cols+j+1] + 1
			case table[(i+1)*cols+j] >= table[i*cols+j+1]:
				table[i*cols+j] = table[(i+1)*cols+j]
			default:
				table[i*cols+j] = table[i*cols+j+1]
			}
		}
	}
	return table
}

func matchWord(a, b string) bool {
	return foldWord(a) == foldWord(b)
}

func foldWord(word string) string {
	return strings.ToLower(strings.Trim(word, ".,!?;:"))
}
