package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/engine"
)

// Service feeds documents from the source into the engine.
type Service struct {
	source Loader
	engine Dispatcher
	logger *zap.Logger
}

// New creates an ingest service.
func New(source Loader, eng Dispatcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, engine: eng, logger: logger}
}

// Initialize replaces the engine corpus with the source contents.
// It returns the number of documents the engine holds afterwards.
func (s *Service) Initialize(ctx context.Context) (int, error) {
	return s.load(ctx, engine.NewInitRequest)
}

// Refresh upserts the source contents into the engine.
// Documents removed from the source stay indexed until the next Initialize.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	return s.load(ctx, engine.NewUpdateRequest)
}

// RunRefresh calls Refresh every interval until ctx is cancelled.
// Failed refreshes are logged and retried on the next tick.
func (s *Service) RunRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.Refresh(ctx); err != nil {
				s.logger.Warn("document refresh failed", zap.Error(err))
			} else {
				s.logger.Debug("documents refreshed", zap.Int("documents", n))
			}
		}
	}
}

type requestBuilder func(id string, docs []domdoc.Raw) (engine.Request, error)

func (s *Service) load(ctx context.Context, build requestBuilder) (int, error) {
	docs, stats, err := s.source.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load documents: %w", err)
	}
	if stats.Skipped > 0 {
		s.logger.Warn("skipped undecodable documents",
			zap.Int("keys", stats.Keys),
			zap.Int("skipped", stats.Skipped),
		)
	}

	req, err := build(uuid.NewString(), docs)
	if err != nil {
		return 0, err
	}
	resp, err := s.engine.Do(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("dispatch %s: %w", req.Type, err)
	}
	if resp.Type.IsError() {
		return 0, &domain.RequestError{
			ResponseType: string(resp.Type),
			Message:      resp.Error,
			Kind:         domain.ErrInvalidPayload,
		}
	}

	n := 0
	if resp.Count != nil {
		n = *resp.Count
	}
	s.logger.Info("documents loaded",
		zap.String("request", string(req.Type)),
		zap.Int("loaded", stats.Loaded),
		zap.Int("documents", n),
	)
	return n, nil
}
