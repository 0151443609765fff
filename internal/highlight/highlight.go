// Package highlight extracts marked-up context snippets around query matches.
package highlight

import (
	"fmt"
	"regexp"
)

// Limits on extracted snippets.
const (
	ContextChars = 50
	MaxPerTerm   = 3
	MaxTotal     = 10
)

// Markers wrapped around every matched term.
const (
	OpenMark  = "<mark>"
	CloseMark = "</mark>"
)

// Highlighter holds the compiled patterns for one query.
type Highlighter struct {
	patterns []*regexp.Regexp
}

// New compiles a case-insensitive pattern per term. Empty terms are ignored.
func New(terms []string) *Highlighter {
	h := &Highlighter{patterns: make([]*regexp.Regexp, 0, len(terms))}
	for _, t := range terms {
		if t == "" {
			continue
		}
		h.patterns = append(h.patterns, regexp.MustCompile(fmt.Sprintf(
			`(?i)(.{0,%d})(%s)(.{0,%d})`, ContextChars, regexp.QuoteMeta(t), ContextChars,
		)))
	}
	return h
}

// Extract returns snippets of content around each term's occurrences, term by
// term and in order of occurrence: at most MaxPerTerm per term and MaxTotal
// overall. content is not modified.
func (h *Highlighter) Extract(content string) []string {
	if content == "" {
		return nil
	}

	var out []string
	for _, re := range h.patterns {
		for _, m := range re.FindAllStringSubmatch(content, MaxPerTerm) {
			out = append(out, m[1]+OpenMark+m[2]+CloseMark+m[3])
			if len(out) == MaxTotal {
				return out
			}
		}
	}
	return out
}
