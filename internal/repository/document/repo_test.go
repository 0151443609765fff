package document

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kailas-cloud/docsearch/internal/db"
	"github.com/kailas-cloud/docsearch/internal/domain"
)

// --- LoadAll ---

func TestLoadAll_DecodesAndSkips(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "docsearch:doc:*" {
			t.Errorf("unexpected pattern: %s", pattern)
		}
		return []string{"docsearch:doc:b", "docsearch:doc:a", "docsearch:doc:c", "docsearch:doc:d"}, nil
	}
	ms.mgetFn = func(_ context.Context, keys []string) ([][]byte, error) {
		if keys[0] != "docsearch:doc:a" {
			t.Errorf("keys not sorted: %v", keys)
		}
		return [][]byte{
			[]byte(`{"id":"a","title":"Alpha","tags":["x"]}`),
			[]byte(`{"id":2,"title":"Beta","file_size":"big"}`),
			nil,
			[]byte(`{"title":"no id"}`),
		}, nil
	}

	docs, stats, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Keys != 4 || stats.Loaded != 2 || stats.Skipped != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if len(docs) != 2 || docs[0].ID != "a" || docs[1].ID != "2" {
		t.Fatalf("docs = %+v", docs)
	}
	if docs[1].FileSize != 0 {
		t.Errorf("malformed file_size should default to 0, got %d", docs[1].FileSize)
	}
}

func TestLoadAll_Batches(t *testing.T) {
	repo, ms := newTestRepo(t)

	keys := make([]string, 250)
	for i := range keys {
		keys[i] = fmt.Sprintf("docsearch:doc:%03d", i)
	}
	ms.scanFn = func(_ context.Context, _ string) ([]string, error) { return keys, nil }

	var sizes []int
	ms.mgetFn = func(_ context.Context, batch []string) ([][]byte, error) {
		sizes = append(sizes, len(batch))
		out := make([][]byte, len(batch))
		for i, k := range batch {
			out[i] = []byte(fmt.Sprintf(`{"id":%q}`, k))
		}
		return out, nil
	}

	docs, stats, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fmt.Sprint(sizes) != "[100 100 50]" {
		t.Errorf("batch sizes = %v", sizes)
	}
	if len(docs) != 250 || stats.Loaded != 250 {
		t.Errorf("loaded %d docs, stats %+v", len(docs), stats)
	}
}

func TestLoadAll_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.mgetFn = func(_ context.Context, _ []string) ([][]byte, error) {
		t.Error("MGET should not be called without keys")
		return nil, nil
	}

	docs, stats, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 0 || stats.Keys != 0 {
		t.Errorf("docs = %v, stats = %+v", docs, stats)
	}
}

func TestLoadAll_ScanError(t *testing.T) {
	repo, ms := newTestRepo(t)
	cause := &db.Error{Op: db.OpScan, Err: context.DeadlineExceeded}
	ms.scanFn = func(_ context.Context, _ string) ([]string, error) { return nil, cause }

	_, _, err := repo.LoadAll(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped deadline error, got %v", err)
	}
}

func TestLoadAll_MGetError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(_ context.Context, _ string) ([]string, error) { return []string{"docsearch:doc:a"}, nil }
	ms.mgetFn = func(_ context.Context, _ []string) ([][]byte, error) {
		return nil, &db.Error{Op: db.OpMGet, Err: errors.New("conn reset")}
	}

	if _, _, err := repo.LoadAll(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

// --- Get ---

func TestGet_Success(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		if key != "docsearch:doc:42" {
			t.Errorf("unexpected key: %s", key)
		}
		return []byte(`{"id":"42","title":"Answer"}`), nil
	}

	doc, err := repo.Get(context.Background(), "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Answer" {
		t.Errorf("title = %q", doc.Title)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) { return nil, db.ErrKeyNotFound }

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_Undecodable(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) { return []byte(`not json`), nil }

	if _, err := repo.Get(context.Background(), "bad"); err == nil {
		t.Fatal("expected decode error")
	}
}
