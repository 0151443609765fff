package index

import (
	"time"

	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
)

// Store maps document IDs to their indexed form and remembers insertion order
// so that iteration, and therefore tie-breaking during ranking, is stable.
// It is not safe for concurrent use; the engine owns it from one goroutine.
type Store struct {
	docs  map[string]domdoc.Indexed
	order []string
	now   func() time.Time
}

// NewStore creates an empty store. now stamps IndexedAt; nil means time.Now.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{docs: make(map[string]domdoc.Indexed), now: now}
}

// Initialize replaces the whole store with docs.
// Later duplicates of an ID within docs supersede earlier ones.
func (s *Store) Initialize(docs []domdoc.Raw) {
	indexed := s.preprocessAll(docs)

	s.docs = make(map[string]domdoc.Indexed, len(indexed))
	s.order = make([]string, 0, len(indexed))
	s.apply(indexed)
}

// Upsert inserts or replaces docs by ID, leaving other entries untouched.
func (s *Store) Upsert(docs []domdoc.Raw) {
	s.apply(s.preprocessAll(docs))
}

// Len returns the number of stored documents.
func (s *Store) Len() int { return len(s.docs) }

// Get returns the indexed document by ID.
func (s *Store) Get(id string) (domdoc.Indexed, bool) {
	d, ok := s.docs[id]
	return d, ok
}

// Each calls fn for every document in insertion order.
func (s *Store) Each(fn func(doc *domdoc.Indexed)) {
	for _, id := range s.order {
		d := s.docs[id]
		fn(&d)
	}
}

// preprocessAll runs before any mutation so a batch is applied whole or not at all.
func (s *Store) preprocessAll(docs []domdoc.Raw) []domdoc.Indexed {
	now := s.now()
	out := make([]domdoc.Indexed, len(docs))
	for i, raw := range docs {
		out[i] = Preprocess(raw, now)
	}
	return out
}

func (s *Store) apply(indexed []domdoc.Indexed) {
	for _, d := range indexed {
		if _, exists := s.docs[d.ID()]; !exists {
			s.order = append(s.order, d.ID())
		}
		s.docs[d.ID()] = d
	}
}
