package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidOptions signals search options that cannot be resolved.
	ErrInvalidOptions = errors.New("invalid search options")
	// ErrInvalidPayload signals a request payload of the wrong shape.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrUnknownRequestType signals a request type the engine does not handle.
	ErrUnknownRequestType = errors.New("unknown request type")
	// ErrEngineStopped signals that the engine no longer accepts requests.
	ErrEngineStopped = errors.New("engine stopped")
)

// RequestError carries the error text of an ERROR or SEARCH_ERROR response
// back to Go callers, keeping the sentinel the engine classified it under.
type RequestError struct {
	ResponseType string
	Message      string
	Kind         error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.ResponseType, e.Message)
}

func (e *RequestError) Unwrap() error { return e.Kind }
