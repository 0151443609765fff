package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain"
	"github.com/kailas-cloud/docsearch/internal/domain/search/options"
	"github.com/kailas-cloud/docsearch/internal/engine"
	logpkg "github.com/kailas-cloud/docsearch/internal/logger"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	"github.com/kailas-cloud/docsearch/internal/version"
)

// maxBodyBytes caps a protocol message body.
const maxBodyBytes = 32 << 20

// Error codes of transport-level error bodies.
const (
	CodeBadRequest    = "bad_request"
	CodeUnauthorized  = "unauthorized"
	CodeUnavailable   = "engine_unavailable"
	CodeTimeout       = "timeout"
	CodeInternalError = "internal_error"
)

// ErrorResponse is the body of a transport-level failure. Engine errors are
// returned as protocol responses instead.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Engine  engine.State      `json:"engine"`
	Version string            `json:"version"`
}

// Dispatcher delivers protocol messages to the search engine.
type Dispatcher interface {
	Do(ctx context.Context, req engine.Request) (engine.Response, error)
}

// HealthChecker reports service health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a dispatch error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server exposes the message protocol over HTTP.
type Server struct {
	engine         Dispatcher
	health         HealthChecker
	logger         *zap.Logger
	requestTimeout time.Duration
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server. requestTimeout bounds the wait for
// each engine response; zero disables it.
func NewServer(eng Dispatcher, health HealthChecker, logger *zap.Logger, requestTimeout time.Duration) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		engine:         eng,
		health:         health,
		logger:         logger,
		requestTimeout: requestTimeout,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEngineStopped, http.StatusServiceUnavailable, CodeUnavailable),
		sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, CodeTimeout),
		sentinelHandler(context.Canceled, http.StatusRequestTimeout, CodeTimeout),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/messages", s.PostMessage)
	r.Get("/v1/search", s.Search)
	r.Delete("/v1/cache", s.ClearCache)
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
}

// PostMessage handles POST /v1/messages.
func (s *Server) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req engine.Request
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Message type is required")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	s.dispatch(w, r, req)
}

// Search handles GET /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params, err := searchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	req, err := engine.NewSearchRequest(uuid.NewString(), r.URL.Query().Get("q"), params)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.dispatch(w, r, req)
}

// ClearCache handles DELETE /v1/cache.
func (s *Server) ClearCache(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, engine.NewClearCacheRequest(uuid.NewString()))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Engine:  report.Engine,
		Version: version.Version,
	})
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, req engine.Request) {
	ctx := r.Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	resp, err := s.engine.Do(ctx, req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	if resp.Type.IsError() {
		logpkg.FromContext(r.Context()).Info("engine rejected message",
			zap.String("type", string(req.Type)),
			zap.String("id", req.ID),
			zap.String("response", string(resp.Type)),
			zap.String("error", resp.Error),
		)
	}
	writeJSON(w, responseStatus(resp.Type), resp)
}

// responseStatus maps a protocol response type to an HTTP status.
func responseStatus(t engine.ResponseType) int {
	switch t {
	case engine.ResponseError:
		return http.StatusBadRequest
	case engine.ResponseSearchError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusOK
	}
}

// searchParams builds search options from query parameters. Absent
// parameters stay unset so the engine defaults apply.
func searchParams(r *http.Request) (*options.Params, error) {
	q := r.URL.Query()
	p := &options.Params{SortBy: options.SortBy(q.Get("sort_by"))}

	if v := q.Get("max_results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("max_results must be an integer: %q", v)
		}
		p.MaxResults = &n
	}
	if v := q.Get("threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("threshold must be a number: %q", v)
		}
		p.Threshold = &f
	}
	if v, ok := q["fields"]; ok {
		p.SearchFields = []options.Field{}
		for _, part := range strings.Split(strings.Join(v, ","), ",") {
			if part = strings.TrimSpace(part); part != "" {
				p.SearchFields = append(p.SearchFields, options.Field(part))
			}
		}
	}
	return p, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	log.Warn("dispatch failed", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
