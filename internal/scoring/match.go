package scoring

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// countMatches returns how many non-overlapping occurrences of term in text
// are whole words, and how many occurrences there are in total.
func countMatches(text, term string) (exact, total int) {
	if term == "" {
		return 0, 0
	}
	for offset := 0; offset <= len(text); {
		i := strings.Index(text[offset:], term)
		if i < 0 {
			break
		}
		start := offset + i
		end := start + len(term)
		total++
		if isBoundary(text, start, end) {
			exact++
		}
		offset = end
	}
	return exact, total
}

// isBoundary reports whether text[start:end] is delimited by non-word runes.
func isBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// proximity accumulates 1/distance for every pair of distinct query terms
// found within proximityWindow words of each other.
func proximity(words, terms []string) float64 {
	var score float64
	for i, w := range words {
		for ti, t := range terms {
			if !strings.Contains(w, t) {
				continue
			}
			last := min(i+proximityWindow, len(words)-1)
			for j := i + 1; j <= last; j++ {
				for tj, other := range terms {
					if tj != ti && strings.Contains(words[j], other) {
						score += 1 / float64(j-i)
					}
				}
			}
		}
	}
	return score
}
