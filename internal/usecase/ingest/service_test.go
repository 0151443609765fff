package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/docsearch/internal/domain"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/engine"
	docrepo "github.com/kailas-cloud/docsearch/internal/repository/document"
)

// --- Mocks ---

type mockLoader struct {
	docs  []domdoc.Raw
	stats docrepo.LoadStats
	err   error
	calls int
}

func (m *mockLoader) LoadAll(_ context.Context) ([]domdoc.Raw, docrepo.LoadStats, error) {
	m.calls++
	return m.docs, m.stats, m.err
}

func startEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng, err := engine.New(engine.Config{}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = eng.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return eng
}

// --- Tests ---

func TestInitialize_LoadsIntoEngine(t *testing.T) {
	eng := startEngine(t)
	loader := &mockLoader{docs: []domdoc.Raw{
		{ID: "1", Title: "Mountain Sunset"},
		{ID: "2", Title: "Recipe"},
	}}

	n, err := New(loader, eng, nil).Initialize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("documents = %d, want 2", n)
	}

	req, _ := engine.NewSearchRequest("s", "mountain", nil)
	resp, err := eng.Do(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != "1" {
		t.Errorf("results = %+v", resp.Results)
	}
}

func TestRefresh_Upserts(t *testing.T) {
	eng := startEngine(t)
	loader := &mockLoader{docs: []domdoc.Raw{{ID: "1", Title: "A"}}}
	svc := New(loader, eng, nil)

	if _, err := svc.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	loader.docs = []domdoc.Raw{{ID: "2", Title: "B"}}

	n, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("documents after refresh = %d, want 2", n)
	}
}

func TestInitialize_SourceError(t *testing.T) {
	eng := startEngine(t)
	cause := errors.New("conn refused")
	svc := New(&mockLoader{err: cause}, eng, nil)

	if _, err := svc.Initialize(context.Background()); !errors.Is(err, cause) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
}

func TestInitialize_EngineStopped(t *testing.T) {
	eng, err := engine.New(engine.Config{}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = eng.Run(ctx)

	svc := New(&mockLoader{}, eng, nil)
	if _, err := svc.Initialize(context.Background()); !errors.Is(err, domain.ErrEngineStopped) {
		t.Fatalf("expected ErrEngineStopped, got %v", err)
	}
}

type rejectingDispatcher struct{}

func (rejectingDispatcher) Do(_ context.Context, req engine.Request) (engine.Response, error) {
	return engine.Response{Type: engine.ResponseError, ID: req.ID, Error: "nope"}, nil
}

func TestInitialize_EngineRejects(t *testing.T) {
	svc := New(&mockLoader{}, rejectingDispatcher{}, nil)

	_, err := svc.Initialize(context.Background())
	var reqErr *domain.RequestError
	if !errors.As(err, &reqErr) || reqErr.Message != "nope" {
		t.Fatalf("expected RequestError, got %v", err)
	}
}

func TestRunRefresh_StopsOnCancel(t *testing.T) {
	eng := startEngine(t)
	loader := &mockLoader{docs: []domdoc.Raw{{ID: "1"}}}
	svc := New(loader, eng, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunRefresh(ctx, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(55 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunRefresh did not stop")
	}
	if loader.calls == 0 {
		t.Error("expected at least one refresh")
	}
}
