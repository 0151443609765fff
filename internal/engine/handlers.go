package engine

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/analysis"
	"github.com/kailas-cloud/docsearch/internal/cache"
	"github.com/kailas-cloud/docsearch/internal/domain"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/domain/search/options"
	"github.com/kailas-cloud/docsearch/internal/domain/search/result"
	"github.com/kailas-cloud/docsearch/internal/highlight"
)

var epoch = time.Unix(0, 0).UTC()

func (e *Engine) initDocuments(req Request) Response {
	docs, err := e.decodeDocuments(req)
	if err != nil {
		return errorResponse(req.ID, ResponseError, err)
	}

	e.store.Initialize(docs)
	e.invalidate()

	n := e.store.Len()
	e.metrics.SetDocuments(n)
	return Response{Type: ResponseInitComplete, ID: req.ID, Count: &n}
}

func (e *Engine) updateDocuments(req Request) Response {
	docs, err := e.decodeDocuments(req)
	if err != nil {
		return errorResponse(req.ID, ResponseError, err)
	}

	e.store.Upsert(docs)
	e.invalidate()

	n := e.store.Len()
	e.metrics.SetDocuments(n)
	return Response{Type: ResponseUpdateComplete, ID: req.ID, Count: &n}
}

func (e *Engine) decodeDocuments(req Request) ([]domdoc.Raw, error) {
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: %s requires a document array", domain.ErrInvalidPayload, req.Type)
	}
	docs, skipped, err := domdoc.DecodeBatch(req.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidPayload, err)
	}
	if skipped > 0 {
		e.logger.Warn("skipped documents without id",
			zap.String("id", req.ID),
			zap.Int("skipped", skipped),
		)
	}
	return docs, nil
}

func (e *Engine) clearCache(req Request) Response {
	e.invalidate()
	return Response{Type: ResponseCacheCleared, ID: req.ID}
}

func (e *Engine) invalidate() {
	e.cache.Clear()
	e.metrics.SetCacheEntries(0)
}

func (e *Engine) search(req Request) Response {
	start := time.Now()

	q, opts, err := e.parseSearch(req)
	if err != nil {
		return errorResponse(req.ID, ResponseSearchError, err)
	}

	key := cache.Key(strings.ToLower(strings.TrimSpace(q.Query)), opts)
	if cached, ok := e.cache.Get(key); ok {
		hits := toHits(cached)
		// Entries are shared by queries that normalize alike; echo this one.
		for i := range hits {
			hits[i].Query = q.Query
		}
		return Response{
			Type: ResponseSearchResults,
			ID:   req.ID,
			SearchPayload: &SearchPayload{
				Results: hits,
				Cached:  true,
			},
		}
	}

	results, total := e.rank(q.Query, &opts)
	e.cache.Put(key, results)
	e.metrics.SetCacheEntries(e.cache.Len())

	elapsed := float64(time.Since(start).Microseconds()) / 1000
	return Response{
		Type: ResponseSearchResults,
		ID:   req.ID,
		SearchPayload: &SearchPayload{
			Results:      toHits(results),
			Cached:       false,
			SearchTime:   &elapsed,
			TotalMatches: &total,
		},
	}
}

func (e *Engine) parseSearch(req Request) (SearchQuery, options.Options, error) {
	var q SearchQuery
	if len(req.Data) == 0 {
		return q, options.Options{}, fmt.Errorf("%w: SEARCH requires a query", domain.ErrInvalidPayload)
	}
	if err := json.Unmarshal(req.Data, &q); err != nil {
		return q, options.Options{}, fmt.Errorf("%w: %w", domain.ErrInvalidPayload, err)
	}
	opts, err := e.defaults.Apply(q.Options)
	if err != nil {
		return q, options.Options{}, fmt.Errorf("%w: %w", domain.ErrInvalidOptions, err)
	}
	return q, opts, nil
}

type match struct {
	doc   *domdoc.Indexed
	score float64
}

// rank scores every stored document, keeps those with a positive score at or
// above the threshold, orders them and truncates to MaxResults. It returns
// the kept results and the match count before truncation.
func (e *Engine) rank(query string, opts *options.Options) ([]result.Result, int) {
	terms := analysis.QueryTerms(query)
	if len(terms) == 0 {
		return []result.Result{}, 0
	}

	var matches []match
	e.store.Each(func(doc *domdoc.Indexed) {
		score := e.scorer.Score(doc, terms, opts.SearchFields)
		if score > 0 && score >= opts.Threshold {
			matches = append(matches, match{doc: doc, score: score})
		}
	})

	sortMatches(matches, opts.SortBy)

	total := len(matches)
	if len(matches) > opts.MaxResults {
		matches = matches[:opts.MaxResults]
	}

	hl := highlight.New(terms)
	results := make([]result.Result, len(matches))
	for i, m := range matches {
		raw := m.doc.Raw()
		results[i] = result.New(
			raw.ID, raw.Title, raw.Content, m.score,
			raw.Type, raw.Source, hl.Extract(raw.Content), query,
		)
	}
	return results, total
}

// sortMatches orders matches in place. The sort is stable, so ties keep
// store insertion order.
func sortMatches(matches []match, by options.SortBy) {
	var less func(a, b *match) bool
	switch by {
	case options.SortDate:
		less = func(a, b *match) bool { return uploadDate(a.doc).After(uploadDate(b.doc)) }
	case options.SortTitle:
		less = func(a, b *match) bool { return a.doc.Raw().Title < b.doc.Raw().Title }
	case options.SortSize:
		less = func(a, b *match) bool { return a.doc.Raw().FileSize > b.doc.Raw().FileSize }
	default:
		less = func(a, b *match) bool { return a.score > b.score }
	}
	sort.SliceStable(matches, func(i, j int) bool { return less(&matches[i], &matches[j]) })
}

func uploadDate(doc *domdoc.Indexed) time.Time {
	if t := doc.Raw().UploadDate; !t.IsZero() {
		return t
	}
	return epoch
}
