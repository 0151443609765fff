package docsearch

import "time"

// Field names a document attribute that contributes to the score.
type Field string

// Searchable fields.
const (
	FieldTitle    Field = "title"
	FieldContent  Field = "content"
	FieldTags     Field = "tags"
	FieldKeywords Field = "keywords"
	FieldCategory Field = "category"
)

// SortBy is the ordering applied to matched documents.
type SortBy string

// Sort orders.
const (
	SortRelevance SortBy = "relevance"
	SortDate      SortBy = "date"
	SortTitle     SortBy = "title"
	SortSize      SortBy = "size"
)

// Document is a record submitted for indexing. ID is required.
type Document struct {
	ID          string
	Title       string
	Content     string
	Description string
	Tags        []string
	Category    string
	Source      string
	Type        string
	FileSize    int64
	ChunkCount  int
	UploadDate  time.Time
}

// SearchOptions overrides the default search options.
// Nil fields keep the defaults. A non-nil empty SearchFields matches nothing.
type SearchOptions struct {
	MaxResults   *int
	Threshold    *float64
	SearchFields []Field
	SortBy       SortBy
}

// SearchResult is a single search hit.
type SearchResult struct {
	ID         string
	Title      string
	Content    string
	Score      float64
	Type       string
	Source     string
	Highlights []string
	Query      string
}

// SearchResponse is the outcome of a search.
// SearchTime and TotalMatches are zero when Cached is true.
type SearchResponse struct {
	Results      []SearchResult
	Cached       bool
	SearchTime   time.Duration
	TotalMatches int
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}
