package health

import (
	"context"

	"github.com/kailas-cloud/docsearch/internal/engine"
)

// SourcePinger checks document source availability.
type SourcePinger interface {
	Ping(ctx context.Context) error
}

// EngineStater reports the search engine worker state.
type EngineStater interface {
	State() engine.State
}
