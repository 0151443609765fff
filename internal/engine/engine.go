// Package engine runs the search engine as a single worker goroutine that
// owns the document store and the result cache and serves protocol requests
// one at a time.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/cache"
	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/domain/search/options"
	"github.com/kailas-cloud/docsearch/internal/index"
	"github.com/kailas-cloud/docsearch/internal/metrics"
	"github.com/kailas-cloud/docsearch/internal/scoring"
)

// DefaultQueueSize is the inbound buffer used when none is configured.
const DefaultQueueSize = 64

// Config tunes an Engine. Zero values fall back to defaults.
type Config struct {
	CacheSize int
	QueueSize int
	// Defaults are the search options that SEARCH params are overlaid on.
	Defaults *options.Options
	// Now drives indexing timestamps and the recency boost.
	Now func() time.Time
}

// Phase is the coarse state of the worker.
type Phase string

// Worker phases.
const (
	PhaseIdle       Phase = "idle"
	PhaseProcessing Phase = "processing"
	PhaseStopped    Phase = "stopped"
)

// State is a snapshot of the worker. RequestID is set while processing.
type State struct {
	Phase     Phase  `json:"phase"`
	RequestID string `json:"request_id,omitempty"`
}

type envelope struct {
	req   Request
	reply chan Response
}

// Engine is the request dispatcher. Store, cache and scorer are touched only
// from the Run goroutine.
type Engine struct {
	store    *index.Store
	cache    *cache.Cache
	scorer   *scoring.Scorer
	defaults options.Options
	now      func() time.Time

	logger  *zap.Logger
	metrics *metrics.Engine

	inbox    chan envelope
	done     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
	state    atomic.Pointer[State]
}

// New creates an engine. logger and m may be nil. Call Run to start serving.
func New(cfg Config, logger *zap.Logger, m *metrics.Engine) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}

	defaults := options.Default()
	if cfg.Defaults != nil {
		if err := cfg.Defaults.Validate(); err != nil {
			return nil, fmt.Errorf("%w: default options: %w", domain.ErrInvalidOptions, err)
		}
		defaults = *cfg.Defaults
	}

	e := &Engine{
		store:    index.NewStore(cfg.Now),
		cache:    cache.New(cfg.CacheSize, m.CacheTotal()),
		scorer:   scoring.New(cfg.Now),
		defaults: defaults,
		now:      cfg.Now,
		logger:   logger,
		metrics:  m,
		inbox:    make(chan envelope, cfg.QueueSize),
		done:     make(chan struct{}),
	}
	e.setState(State{Phase: PhaseIdle})
	return e, nil
}

// Run processes requests until ctx is cancelled. It may be called once.
// Requests still queued at shutdown are answered with ErrEngineStopped by Do.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return errors.New("engine already running")
	}
	defer e.stop()

	e.logger.Info("engine started")
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine stopped")
			return nil
		case env := <-e.inbox:
			env.reply <- e.handle(env.req)
		}
	}
}

func (e *Engine) stop() {
	e.stopOnce.Do(func() {
		e.setState(State{Phase: PhaseStopped})
		close(e.done)
	})
}

// Do submits req and waits for its response. If ctx ends first, Do returns
// the context error; the request, if already accepted, still runs and its
// response is discarded.
func (e *Engine) Do(ctx context.Context, req Request) (Response, error) {
	env := envelope{req: req, reply: make(chan Response, 1)}

	select {
	case <-e.done:
		return Response{}, domain.ErrEngineStopped
	default:
	}

	select {
	case e.inbox <- env:
	case <-e.done:
		return Response{}, domain.ErrEngineStopped
	case <-ctx.Done():
		return Response{}, fmt.Errorf("submit %s: %w", req.Type, ctx.Err())
	}

	select {
	case resp := <-env.reply:
		return resp, nil
	case <-ctx.Done():
		return Response{}, fmt.Errorf("await %s: %w", req.Type, ctx.Err())
	case <-e.done:
		// The worker may have answered just before stopping.
		select {
		case resp := <-env.reply:
			return resp, nil
		default:
			return Response{}, domain.ErrEngineStopped
		}
	}
}

// State returns the current worker state.
func (e *Engine) State() State {
	return *e.state.Load()
}

// Done is closed once the worker has stopped.
func (e *Engine) Done() <-chan struct{} { return e.done }

func (e *Engine) setState(s State) {
	e.state.Store(&s)
}

// handle runs one request to completion. It never panics.
func (e *Engine) handle(req Request) (resp Response) {
	start := time.Now()
	e.setState(State{Phase: PhaseProcessing, RequestID: req.ID})

	defer func() {
		e.setState(State{Phase: PhaseIdle})
		e.metrics.ObserveRequest(string(req.Type), string(resp.Type), time.Since(start))
		e.logger.Debug("request handled",
			zap.String("type", string(req.Type)),
			zap.String("id", req.ID),
			zap.String("response", string(resp.Type)),
			zap.Duration("duration", time.Since(start)),
		)
	}()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("request panicked",
				zap.String("type", string(req.Type)),
				zap.String("id", req.ID),
				zap.Any("panic", r),
			)
			respType := ResponseError
			if req.Type == RequestSearch {
				respType = ResponseSearchError
			}
			resp = errorResponse(req.ID, respType, fmt.Errorf("internal error: %v", r))
		}
	}()

	switch req.Type {
	case RequestInit:
		return e.initDocuments(req)
	case RequestUpdate:
		return e.updateDocuments(req)
	case RequestSearch:
		return e.search(req)
	case RequestClearCache:
		return e.clearCache(req)
	default:
		return errorResponse(req.ID, ResponseError,
			fmt.Errorf("%w: %q", domain.ErrUnknownRequestType, req.Type))
	}
}

func errorResponse(id string, t ResponseType, err error) Response {
	return Response{Type: t, ID: id, Error: err.Error()}
}
