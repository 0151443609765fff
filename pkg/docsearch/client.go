package docsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/db"
	dbRedis "github.com/kailas-cloud/docsearch/internal/db/redis"
	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/domain/search/options"
	"github.com/kailas-cloud/docsearch/internal/engine"
	"github.com/kailas-cloud/docsearch/internal/metrics"
	documentrepo "github.com/kailas-cloud/docsearch/internal/repository/document"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/docsearch/internal/usecase/ingest"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces for substitution in tests.
type engineDispatcher interface {
	Do(ctx context.Context, req engine.Request) (engine.Response, error)
}

type ingestUseCase interface {
	Initialize(ctx context.Context) (int, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the docsearch entry point.
type Client struct {
	engine engineDispatcher
	stop   context.CancelFunc
	done   <-chan struct{}
	store  db.Store
	ingest ingestUseCase
	health healthUseCase
	obs    *observer
}

// New starts an engine and returns a client bound to it.
// When a source is configured, ctx bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: defaultKeyPrefix}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var engineMetrics *metrics.Engine
	if cfg.metricsReg != nil {
		if engineMetrics, err = metrics.NewEngine(cfg.metricsReg); err != nil {
			return nil, fmt.Errorf("docsearch: %w", err)
		}
	}

	engCfg := engine.Config{
		CacheSize: cfg.cacheSize,
		QueueSize: cfg.queueSize,
		Now:       cfg.now,
	}
	if cfg.defaults != nil {
		defaults, err := options.Default().Apply(toParams(cfg.defaults))
		if err != nil {
			return nil, fmt.Errorf("docsearch: %w: %w", domain.ErrInvalidOptions, err)
		}
		engCfg.Defaults = &defaults
	}
	eng, err := engine.New(engCfg, zap.NewNop(), engineMetrics)
	if err != nil {
		return nil, fmt.Errorf("docsearch: %w", err)
	}

	var store db.Store
	if cfg.driver != "" {
		if store, err = createStore(ctx, cfg); err != nil {
			return nil, err
		}
	}

	runCtx, stop := context.WithCancel(context.Background())
	go func() { _ = eng.Run(runCtx) }()

	return wireClient(eng, stop, store, cfg, obs), nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("docsearch: create %s store: %w", cfg.driver, err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("docsearch: %s not ready: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("docsearch: unknown driver %q", cfg.driver)
	}
}

func wireClient(
	eng *engine.Engine, stop context.CancelFunc, store db.Store, cfg *clientConfig, obs *observer,
) *Client {
	c := &Client{
		engine: eng,
		stop:   stop,
		done:   eng.Done(),
		store:  store,
		obs:    obs,
	}
	// Pass a nil interface, not a typed nil pointer, when there is no store.
	var pinger healthuc.SourcePinger
	if store != nil {
		pinger = store
		c.ingest = ingestuc.New(documentrepo.New(store, cfg.keyPrefix), eng, zap.NewNop())
	}
	c.health = healthuc.New(eng, pinger)
	return c
}

// Close stops the engine and releases the source connection.
// Calls made after Close fail with ErrEngineStopped.
func (c *Client) Close() {
	if c.stop != nil {
		c.stop()
		<-c.done
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Init replaces every indexed document with docs and clears the cache.
// It returns the number of documents indexed afterwards.
func (c *Client) Init(ctx context.Context, docs []Document) (n int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("init", start, err) }()

	req, err := engine.NewInitRequest(uuid.NewString(), toRaw(docs))
	if err != nil {
		return 0, fmt.Errorf("init: %w", err)
	}
	return c.count(ctx, "init", req)
}

// Update upserts docs by ID and clears the cache.
// It returns the number of documents indexed afterwards.
func (c *Client) Update(ctx context.Context, docs []Document) (n int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("update", start, err) }()

	req, err := engine.NewUpdateRequest(uuid.NewString(), toRaw(docs))
	if err != nil {
		return 0, fmt.Errorf("update: %w", err)
	}
	return c.count(ctx, "update", req)
}

// Search ranks indexed documents against query. opts may be nil.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) (res SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	req, err := engine.NewSearchRequest(uuid.NewString(), query, toParams(opts))
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search: %w", err)
	}
	resp, err := c.do(ctx, req)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search: %w", err)
	}
	return fromPayload(resp.SearchPayload), nil
}

// ClearCache drops every cached search result.
func (c *Client) ClearCache(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("clear_cache", start, err) }()

	if _, err = c.do(ctx, engine.NewClearCacheRequest(uuid.NewString())); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Sync replaces the indexed documents with the contents of the configured
// source. It returns ErrNoSource when the client has no source.
func (c *Client) Sync(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("sync", start, err) }()

	if c.ingest == nil {
		return 0, ErrNoSource
	}
	if n, err = c.ingest.Initialize(ctx); err != nil {
		return 0, fmt.Errorf("sync: %w", err)
	}
	return n, nil
}

// Health checks the engine and, when configured, the document source.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.health.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

func (c *Client) count(ctx context.Context, op string, req engine.Request) (int, error) {
	resp, err := c.do(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if resp.Count == nil {
		return 0, nil
	}
	return *resp.Count, nil
}

// do dispatches req and turns error responses into *RequestError.
func (c *Client) do(ctx context.Context, req engine.Request) (engine.Response, error) {
	resp, err := c.engine.Do(ctx, req)
	if err != nil {
		return engine.Response{}, err
	}
	switch resp.Type {
	case engine.ResponseSearchError:
		return resp, &domain.RequestError{
			ResponseType: string(resp.Type), Message: resp.Error, Kind: domain.ErrInvalidOptions,
		}
	case engine.ResponseError:
		return resp, &domain.RequestError{
			ResponseType: string(resp.Type), Message: resp.Error, Kind: domain.ErrInvalidPayload,
		}
	}
	return resp, nil
}
