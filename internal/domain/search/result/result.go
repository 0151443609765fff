package result

// MaxHighlights caps the snippets attached to one result.
const MaxHighlights = 10

// Result is a single ranked search hit.
type Result struct {
	id         string
	title      string
	content    string
	score      float64
	docType    string
	source     string
	highlights []string
	query      string
}

// New creates a search result. Highlights beyond MaxHighlights are dropped.
func New(
	id, title, content string, score float64,
	docType, source string, highlights []string, query string,
) Result {
	if len(highlights) > MaxHighlights {
		highlights = highlights[:MaxHighlights]
	}
	return Result{
		id: id, title: title, content: content, score: score,
		docType: docType, source: source, highlights: highlights, query: query,
	}
}

// ID returns the document identifier.
func (r *Result) ID() string { return r.id }

// Title returns the document title.
func (r *Result) Title() string { return r.title }

// Content returns the document content.
func (r *Result) Content() string { return r.content }

// Score returns the relevance score in [0, 1].
func (r *Result) Score() float64 { return r.score }

// Type returns the document type.
func (r *Result) Type() string { return r.docType }

// Source returns the document source.
func (r *Result) Source() string { return r.source }

// Highlights returns the marked-up context snippets.
func (r *Result) Highlights() []string { return r.highlights }

// Query returns the query that produced this result.
func (r *Result) Query() string { return r.query }
