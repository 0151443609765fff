package document

import "time"

// Raw is a caller-supplied document record. It is never mutated after
// submission; a later upsert with the same ID supersedes it.
type Raw struct {
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

// Indexed is the preprocessed form of a Raw document held by the store.
type Indexed struct {
	raw Raw

	title      string
	content    string
	tags       string
	category   string
	searchable string
	keywords   []string
	wordCount  int
	indexedAt  time.Time
}

// Derived holds the fields the preprocessor computes from a Raw document.
type Derived struct {
	Title      string
	Content    string
	Tags       string
	Category   string
	Searchable string
	Keywords   []string
	WordCount  int
	IndexedAt  time.Time
}

// NewIndexed assembles an indexed document from its raw record and derived fields.
func NewIndexed(raw Raw, d Derived) Indexed {
	return Indexed{
		raw:        cloneRaw(raw),
		title:      d.Title,
		content:    d.Content,
		tags:       d.Tags,
		category:   d.Category,
		searchable: d.Searchable,
		keywords:   d.Keywords,
		wordCount:  d.WordCount,
		indexedAt:  d.IndexedAt,
	}
}

// ID returns the document identifier.
func (d *Indexed) ID() string { return d.raw.ID }

// Raw returns the record the document was built from.
func (d *Indexed) Raw() Raw { return d.raw }

// Title returns the lowercased title.
func (d *Indexed) Title() string { return d.title }

// Content returns the lowercased content.
func (d *Indexed) Content() string { return d.content }

// Tags returns the lowercased tags joined by spaces.
func (d *Indexed) Tags() string { return d.tags }

// Category returns the lowercased category.
func (d *Indexed) Category() string { return d.category }

// Searchable returns the combined lowercased text of all text fields.
func (d *Indexed) Searchable() string { return d.searchable }

// Keywords returns the most frequent significant words, most frequent first.
func (d *Indexed) Keywords() []string { return d.keywords }

// WordCount returns the number of words in the searchable text.
func (d *Indexed) WordCount() int { return d.wordCount }

// IndexedAt returns when the document was last preprocessed.
func (d *Indexed) IndexedAt() time.Time { return d.indexedAt }

func cloneRaw(r Raw) Raw {
	if r.Tags != nil {
		tags := make([]string, len(r.Tags))
		copy(tags, r.Tags)
		r.Tags = tags
	}
	return r
}
