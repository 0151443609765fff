package docsearch

import (
	"context"

	"github.com/kailas-cloud/docsearch/internal/engine"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
)

// --- engineDispatcher mock ---

type mockDispatcher struct {
	fn func(req engine.Request) engine.Response
}

func (m *mockDispatcher) Do(_ context.Context, req engine.Request) (engine.Response, error) {
	return m.fn(req), nil
}

// --- ingestUseCase mock ---

type mockIngest struct {
	n   int
	err error
}

func (m *mockIngest) Initialize(_ context.Context) (int, error) {
	return m.n, m.err
}

// --- healthUseCase mock ---

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report {
	return m.report
}
