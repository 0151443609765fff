package ingest

import (
	"context"

	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/engine"
	docrepo "github.com/kailas-cloud/docsearch/internal/repository/document"
)

// Loader reads the full document corpus from the source.
type Loader interface {
	LoadAll(ctx context.Context) ([]domdoc.Raw, docrepo.LoadStats, error)
}

// Dispatcher delivers protocol messages to the search engine.
type Dispatcher interface {
	Do(ctx context.Context, req engine.Request) (engine.Response, error)
}
