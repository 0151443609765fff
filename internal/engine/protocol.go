package engine

import (
	"bytes"
	"encoding/json"
	"fmt"

	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/domain/search/options"
	"github.com/kailas-cloud/docsearch/internal/domain/search/result"
)

// RequestType identifies an inbound message.
type RequestType string

// Request types.
const (
	RequestInit       RequestType = "INIT_DOCUMENTS"
	RequestUpdate     RequestType = "UPDATE_DOCUMENTS"
	RequestSearch     RequestType = "SEARCH"
	RequestClearCache RequestType = "CLEAR_CACHE"
)

// ResponseType identifies an outbound message.
type ResponseType string

// Response types.
const (
	ResponseInitComplete   ResponseType = "INIT_COMPLETE"
	ResponseUpdateComplete ResponseType = "UPDATE_COMPLETE"
	ResponseSearchResults  ResponseType = "SEARCH_RESULTS"
	ResponseSearchError    ResponseType = "SEARCH_ERROR"
	ResponseCacheCleared   ResponseType = "CACHE_CLEARED"
	ResponseError          ResponseType = "ERROR"
)

// IsError reports whether the response carries an error message.
func (t ResponseType) IsError() bool {
	return t == ResponseError || t == ResponseSearchError
}

// Request is one message to the engine.
type Request struct {
	Type RequestType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
	ID   string          `json:"id"`
}

// UnmarshalJSON accepts a string or numeric correlation id.
// Numeric ids keep their literal text.
func (r *Request) UnmarshalJSON(data []byte) error {
	var wire struct {
		Type RequestType     `json:"type"`
		Data json.RawMessage `json:"data"`
		ID   json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err //nolint:wrapcheck // surfaced as a decode error by the caller
	}

	r.Type = wire.Type
	r.Data = wire.Data
	r.ID = ""

	id := bytes.TrimSpace(wire.ID)
	switch {
	case len(id) == 0, bytes.Equal(id, []byte("null")):
	case id[0] == '"':
		if err := json.Unmarshal(id, &r.ID); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
	default:
		var n json.Number
		if err := json.Unmarshal(id, &n); err != nil {
			return fmt.Errorf("id must be a string or number: %w", err)
		}
		r.ID = n.String()
	}
	return nil
}

// SearchQuery is the payload of a SEARCH request.
type SearchQuery struct {
	Query   string          `json:"query"`
	Options *options.Params `json:"options,omitempty"`
}

// Response is the engine's answer to exactly one Request.
// SearchPayload is set only for SEARCH_RESULTS, Count only for
// INIT_COMPLETE and UPDATE_COMPLETE, Error only for error responses.
type Response struct {
	Type ResponseType `json:"type"`
	ID   string       `json:"id"`
	*SearchPayload
	Count *int   `json:"count,omitempty"`
	Error string `json:"error,omitempty"`
}

// SearchPayload is the body of a SEARCH_RESULTS response.
// SearchTime (milliseconds) and TotalMatches are omitted on cache hits.
type SearchPayload struct {
	Results      []Hit    `json:"results"`
	Cached       bool     `json:"cached"`
	SearchTime   *float64 `json:"searchTime,omitempty"`
	TotalMatches *int     `json:"totalMatches,omitempty"`
}

// Hit is the wire form of a search result.
type Hit struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Score      float64  `json:"score"`
	Type       string   `json:"type"`
	Source     string   `json:"source"`
	Highlights []string `json:"highlights"`
	Query      string   `json:"query"`
}

func toHits(results []result.Result) []Hit {
	hits := make([]Hit, len(results))
	for i := range results {
		r := &results[i]
		highlights := r.Highlights()
		if highlights == nil {
			highlights = []string{}
		}
		hits[i] = Hit{
			ID:         r.ID(),
			Title:      r.Title(),
			Content:    r.Content(),
			Score:      r.Score(),
			Type:       r.Type(),
			Source:     r.Source(),
			Highlights: highlights,
			Query:      r.Query(),
		}
	}
	return hits
}

// NewInitRequest builds an INIT_DOCUMENTS request.
func NewInitRequest(id string, docs []domdoc.Raw) (Request, error) {
	return newDocumentsRequest(RequestInit, id, docs)
}

// NewUpdateRequest builds an UPDATE_DOCUMENTS request.
func NewUpdateRequest(id string, docs []domdoc.Raw) (Request, error) {
	return newDocumentsRequest(RequestUpdate, id, docs)
}

func newDocumentsRequest(t RequestType, id string, docs []domdoc.Raw) (Request, error) {
	if docs == nil {
		docs = []domdoc.Raw{}
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return Request{}, fmt.Errorf("encode documents: %w", err)
	}
	return Request{Type: t, Data: data, ID: id}, nil
}

// NewSearchRequest builds a SEARCH request. params may be nil.
func NewSearchRequest(id, query string, params *options.Params) (Request, error) {
	data, err := json.Marshal(SearchQuery{Query: query, Options: params})
	if err != nil {
		return Request{}, fmt.Errorf("encode search query: %w", err)
	}
	return Request{Type: RequestSearch, Data: data, ID: id}, nil
}

// NewClearCacheRequest builds a CLEAR_CACHE request.
func NewClearCacheRequest(id string) Request {
	return Request{Type: RequestClearCache, ID: id}
}
