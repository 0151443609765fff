// Package analysis turns raw text into the terms used for matching.
package analysis

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxKeywords bounds the keyword set extracted per document.
const MaxKeywords = 20

// Minimum token lengths (in runes) kept by each pipeline; shorter tokens are dropped.
const (
	minQueryTermLen = 3
	minKeywordLen   = 4
)

// Normalize lowercases text and replaces every non-word rune with a space.
// Word runes are letters, digits and underscore.
func Normalize(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)
}

// Words splits already-normalized text on whitespace.
func Words(text string) []string {
	return strings.Fields(text)
}

// QueryTerms normalizes a free-text query into its significant terms, in
// query order without duplicates. An empty or all-stopword query yields nil.
func QueryTerms(query string) []string {
	var terms []string
	seen := make(map[string]struct{})
	for _, w := range Words(Normalize(query)) {
		if utf8.RuneCountInString(w) < minQueryTermLen || IsStopword(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		terms = append(terms, w)
	}
	return terms
}

// Keywords returns up to MaxKeywords significant words of text ordered by
// descending frequency. Ties keep the order of first occurrence.
func Keywords(text string) []string {
	counts := make(map[string]int)
	var order []string
	for _, w := range Words(Normalize(text)) {
		if utf8.RuneCountInString(w) < minKeywordLen || IsStopword(w) {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > MaxKeywords {
		order = order[:MaxKeywords]
	}
	return order
}
