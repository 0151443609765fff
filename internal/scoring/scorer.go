// Package scoring computes the relevance of an indexed document to a query.
package scoring

import (
	"math"
	"strings"
	"time"

	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/domain/search/options"
)

// Field weights.
var weights = map[options.Field]float64{
	options.FieldTitle:    3.0,
	options.FieldContent:  1.0,
	options.FieldTags:     2.0,
	options.FieldKeywords: 1.5,
	options.FieldCategory: 1.2,
}

// Match tallies and proximity tuning.
const (
	exactMatchWeight   = 2.0
	partialMatchWeight = 0.5
	proximityWeight    = 0.3
	proximityWindow    = 10
	maxFieldScore      = 1.0
)

// Quality modifiers.
const (
	recentWindow    = 30 * 24 * time.Hour
	recentBoost     = 1.1
	keywordBoostMax = 0.2
	shortDocWords   = 50
	shortDocPenalty = 0.8
)

// Scorer scores documents against normalized query terms.
type Scorer struct {
	now func() time.Time
}

// New creates a scorer. now drives the recency boost; nil means time.Now.
func New(now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{now: now}
}

// weight returns the weight of a field, 0 for unknown fields.
func weight(f options.Field) float64 {
	return weights[f]
}

// Score returns the relevance of doc to terms in [0, 1], considering only
// the given fields. No terms or no recognized fields score 0.
func (s *Scorer) Score(doc *domdoc.Indexed, terms []string, fields []options.Field) float64 {
	if len(terms) == 0 {
		return 0
	}

	var weighted, totalWeight float64
	for _, f := range fields {
		w := weight(f)
		if w == 0 {
			continue
		}
		weighted += w * fieldScore(fieldText(doc, f), terms)
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}

	score := weighted / totalWeight
	score *= s.quality(doc, terms)
	return clamp(score)
}

func (s *Scorer) quality(doc *domdoc.Indexed, terms []string) float64 {
	m := 1.0

	if up := doc.Raw().UploadDate; !up.IsZero() && s.now().Sub(up) <= recentWindow {
		m *= recentBoost
	}

	if kw := doc.Keywords(); len(kw) > 0 {
		matched := 0
		for _, t := range terms {
			if partiallyMatchesAny(t, kw) {
				matched++
			}
		}
		m *= 1 + keywordBoostMax*float64(matched)/float64(len(terms))
	}

	if doc.WordCount() < shortDocWords {
		m *= shortDocPenalty
	}
	return m
}

func fieldText(doc *domdoc.Indexed, f options.Field) string {
	switch f {
	case options.FieldTitle:
		return doc.Title()
	case options.FieldContent:
		return doc.Content()
	case options.FieldTags:
		return doc.Tags()
	case options.FieldKeywords:
		return strings.Join(doc.Keywords(), " ")
	case options.FieldCategory:
		return doc.Category()
	}
	return ""
}

// fieldScore scores one lowercased field. Exact and partial matches are
// tallied separately, a proximity bonus applies to multi-term queries, and
// the raw score is length-normalized by 1/sqrt(words) and capped at 1.
func fieldScore(text string, terms []string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	var raw float64
	for _, t := range terms {
		exact, total := countMatches(text, t)
		raw += float64(exact) * exactMatchWeight
		raw += float64(total-exact) * partialMatchWeight
	}
	if len(terms) > 1 {
		raw += proximityWeight * proximity(words, terms)
	}

	return math.Min(raw/math.Sqrt(float64(len(words))), maxFieldScore)
}

func partiallyMatchesAny(term string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(k, term) || strings.Contains(term, k) {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
