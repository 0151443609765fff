package docsearch

import (
	"errors"

	"github.com/kailas-cloud/docsearch/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidOptions     = domain.ErrInvalidOptions
	ErrInvalidPayload     = domain.ErrInvalidPayload
	ErrUnknownRequestType = domain.ErrUnknownRequestType
	ErrEngineStopped      = domain.ErrEngineStopped
	ErrNoSource           = errors.New("docsearch: no document source configured")
)

// RequestError is returned when the engine answers with an error response.
// It unwraps to ErrInvalidOptions for searches and ErrInvalidPayload otherwise.
type RequestError = domain.RequestError
