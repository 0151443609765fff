package health

import (
	"context"

	"github.com/kailas-cloud/docsearch/internal/engine"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the engine serves requests but the source is unreachable.
	Degraded Status = "degraded"
	// Unhealthy indicates the engine no longer serves requests.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
	Engine engine.State
}

// Service coordinates health checks.
type Service struct {
	engine EngineStater
	source SourcePinger
}

// New creates a Service. source can be nil when no document source is configured.
func New(eng EngineStater, source SourcePinger) *Service {
	return &Service{engine: eng, source: source}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	state := s.engine.State()
	if state.Phase == engine.PhaseStopped {
		checks["engine"] = CheckError
		status = Unhealthy
	} else {
		checks["engine"] = CheckOK
	}

	if s.source != nil {
		if err := s.source.Ping(ctx); err != nil {
			checks["source"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["source"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks, Engine: state}
}
