package options

import (
	"fmt"
	"slices"
)

// Defaults applied when a caller leaves an option unset.
const (
	DefaultMaxResults = 20
	DefaultThreshold  = 0.1
)

// Field is a document attribute that can contribute to the relevance score.
type Field string

// Searchable fields.
const (
	FieldTitle    Field = "title"
	FieldContent  Field = "content"
	FieldTags     Field = "tags"
	FieldKeywords Field = "keywords"
	FieldCategory Field = "category"
)

// IsValid checks if the field is one of the searchable fields.
func (f Field) IsValid() bool {
	switch f {
	case FieldTitle, FieldContent, FieldTags, FieldKeywords, FieldCategory:
		return true
	}
	return false
}

// SortBy is the ordering applied to matched documents.
type SortBy string

// Sort orders.
const (
	SortRelevance SortBy = "relevance"
	SortDate      SortBy = "date"
	SortTitle     SortBy = "title"
	SortSize      SortBy = "size"
)

// IsValid checks if the sort order is supported.
func (s SortBy) IsValid() bool {
	return s == SortRelevance || s == SortDate || s == SortTitle || s == SortSize
}

// DefaultFields returns the fields searched when the caller names none.
func DefaultFields() []Field {
	return []Field{FieldTitle, FieldContent, FieldTags}
}

// Options is a fully resolved set of search options.
// Field order is part of the value: it feeds the cache key.
type Options struct {
	MaxResults   int     `json:"maxResults"`
	Threshold    float64 `json:"threshold"`
	SearchFields []Field `json:"searchFields"`
	SortBy       SortBy  `json:"sortBy"`
}

// Params is the caller-supplied, possibly partial, form of Options.
type Params struct {
	MaxResults   *int     `json:"maxResults,omitempty"`
	Threshold    *float64 `json:"threshold,omitempty"`
	SearchFields []Field  `json:"searchFields"`
	SortBy       SortBy   `json:"sortBy,omitempty"`
}

// Default returns the options used for a search without parameters.
func Default() Options {
	return Options{
		MaxResults:   DefaultMaxResults,
		Threshold:    DefaultThreshold,
		SearchFields: DefaultFields(),
		SortBy:       SortRelevance,
	}
}

// Resolve validates params and fills unset values with defaults.
// A nil SearchFields means the default fields; an empty non-nil slice means
// no field contributes, so every document scores zero.
func Resolve(p *Params) (Options, error) {
	return Default().Apply(p)
}

// Apply validates params and overlays them on o. o itself is not modified.
func (o Options) Apply(p *Params) (Options, error) {
	opts := o
	opts.SearchFields = slices.Clone(o.SearchFields)
	if p == nil {
		return opts, nil
	}

	if p.MaxResults != nil {
		if *p.MaxResults < 0 {
			return Options{}, fmt.Errorf("maxResults must be non-negative, got %d", *p.MaxResults)
		}
		if *p.MaxResults > 0 {
			opts.MaxResults = *p.MaxResults
		}
	}

	if p.Threshold != nil {
		if *p.Threshold < 0 || *p.Threshold > 1 {
			return Options{}, fmt.Errorf("threshold must be between 0 and 1, got %v", *p.Threshold)
		}
		opts.Threshold = *p.Threshold
	}

	if p.SearchFields != nil {
		for _, f := range p.SearchFields {
			if !f.IsValid() {
				return Options{}, fmt.Errorf("unknown search field %q", f)
			}
		}
		opts.SearchFields = slices.Clone(p.SearchFields)
	}

	if p.SortBy != "" {
		if !p.SortBy.IsValid() {
			return Options{}, fmt.Errorf("unknown sortBy %q", p.SortBy)
		}
		opts.SortBy = p.SortBy
	}

	return opts, nil
}

// Validate checks a fully resolved option set, such as configured defaults.
func (o *Options) Validate() error {
	if o.MaxResults <= 0 {
		return fmt.Errorf("maxResults must be positive, got %d", o.MaxResults)
	}
	if o.Threshold < 0 || o.Threshold > 1 {
		return fmt.Errorf("threshold must be between 0 and 1, got %v", o.Threshold)
	}
	for _, f := range o.SearchFields {
		if !f.IsValid() {
			return fmt.Errorf("unknown search field %q", f)
		}
	}
	if !o.SortBy.IsValid() {
		return fmt.Errorf("unknown sortBy %q", o.SortBy)
	}
	return nil
}
