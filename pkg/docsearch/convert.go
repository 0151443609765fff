package docsearch

import (
	"time"

	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/domain/search/options"
	"github.com/kailas-cloud/docsearch/internal/engine"
)

func toRaw(docs []Document) []domdoc.Raw {
	out := make([]domdoc.Raw, len(docs))
	for i, d := range docs {
		out[i] = domdoc.Raw{
			ID:          d.ID,
			Title:       d.Title,
			Content:     d.Content,
			Description: d.Description,
			Tags:        d.Tags,
			Category:    d.Category,
			Source:      d.Source,
			Type:        d.Type,
			FileSize:    d.FileSize,
			ChunkCount:  d.ChunkCount,
			UploadDate:  d.UploadDate,
		}
	}
	return out
}

func toParams(o *SearchOptions) *options.Params {
	if o == nil {
		return nil
	}
	p := &options.Params{
		MaxResults: o.MaxResults,
		Threshold:  o.Threshold,
		SortBy:     options.SortBy(o.SortBy),
	}
	if o.SearchFields != nil {
		p.SearchFields = make([]options.Field, len(o.SearchFields))
		for i, f := range o.SearchFields {
			p.SearchFields[i] = options.Field(f)
		}
	}
	return p
}

func fromPayload(p *engine.SearchPayload) SearchResponse {
	if p == nil {
		return SearchResponse{}
	}
	res := SearchResponse{
		Results: make([]SearchResult, len(p.Results)),
		Cached:  p.Cached,
	}
	for i, h := range p.Results {
		res.Results[i] = SearchResult(h)
	}
	if p.SearchTime != nil {
		res.SearchTime = time.Duration(*p.SearchTime * float64(time.Millisecond))
	}
	if p.TotalMatches != nil {
		res.TotalMatches = *p.TotalMatches
	}
	return res
}
