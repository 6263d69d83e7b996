package sefaria

import (
	"errors"
	"fmt"
)

// ErrResolution indicates a required name-to-filter-path lookup returned
// nothing usable.
var ErrResolution = errors.New("name did not resolve to a filter path")

// TransportError wraps a network-level failure (unreachable host, timeout).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx upstream HTTP status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Code, e.Body)
}

// ParseError wraps a body that could not be decoded as JSON when JSON was
// expected.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("upstream response parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
