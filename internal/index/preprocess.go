// Package index holds the in-memory document store and the preprocessor
// that derives searchable fields from raw records.
package index

import (
	"strings"
	"time"

	"github.com/kailas-cloud/docsearch/internal/analysis"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
)

// Preprocess derives the indexed form of a raw document.
// The result depends only on raw and now.
func Preprocess(raw domdoc.Raw, now time.Time) domdoc.Indexed {
	tags := strings.ToLower(strings.Join(raw.Tags, " "))

	parts := make([]string, 0, 5)
	for _, p := range []string{raw.Title, raw.Content, raw.Description, strings.Join(raw.Tags, " "), raw.Category} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	searchable := strings.ToLower(strings.Join(parts, " "))

	return domdoc.NewIndexed(raw, domdoc.Derived{
		Title:      strings.ToLower(raw.Title),
		Content:    strings.ToLower(raw.Content),
		Tags:       tags,
		Category:   strings.ToLower(raw.Category),
		Searchable: searchable,
		Keywords:   analysis.Keywords(searchable),
		WordCount:  len(analysis.Words(searchable)),
		IndexedAt:  now,
	})
}
