package document

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/docsearch/internal/db"
	"github.com/kailas-cloud/docsearch/internal/domain"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
)

// batchSize bounds the keys fetched per MGET.
const batchSize = 100

// store is the consumer interface for the document source (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// LoadStats summarizes one LoadAll pass.
type LoadStats struct {
	Keys    int
	Loaded  int
	Skipped int
}

// Repo reads raw documents stored as JSON strings under a key prefix.
type Repo struct {
	store  store
	prefix string
}

// New creates a document repository over keys starting with prefix.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// LoadAll reads every document under the prefix, ordered by key.
// Values that vanish between SCAN and MGET, or that do not decode to a
// document with an id, are skipped and counted.
func (r *Repo) LoadAll(ctx context.Context) ([]domdoc.Raw, LoadStats, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"*")
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("scan %s*: %w", r.prefix, err)
	}
	sort.Strings(keys)

	stats := LoadStats{Keys: len(keys)}
	docs := make([]domdoc.Raw, 0, len(keys))

	for start := 0; start < len(keys); start += batchSize {
		end := min(start+batchSize, len(keys))
		values, err := r.store.MGet(ctx, keys[start:end])
		if err != nil {
			return nil, LoadStats{}, fmt.Errorf("mget batch %d-%d: %w", start, end, err)
		}
		for _, v := range values {
			if v == nil {
				stats.Skipped++
				continue
			}
			doc, err := domdoc.Decode(v)
			if err != nil {
				stats.Skipped++
				continue
			}
			docs = append(docs, doc)
		}
	}

	stats.Loaded = len(docs)
	return docs, stats, nil
}

// Get reads a single document by id.
func (r *Repo) Get(ctx context.Context, id string) (domdoc.Raw, error) {
	key := r.prefix + id
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domdoc.Raw{}, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return domdoc.Raw{}, fmt.Errorf("get %s: %w", key, err)
	}

	doc, err := domdoc.Decode(data)
	if err != nil {
		return domdoc.Raw{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return doc, nil
}
