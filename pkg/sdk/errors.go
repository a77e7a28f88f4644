package sdk

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyRoom is returned before dispatch when a room number or a search
	// bound is empty.
	ErrEmptyRoom = errors.New("room must not be empty")
	// ErrSchemaMismatch matches every *SchemaError via errors.Is.
	ErrSchemaMismatch = errors.New("response does not match schema")
)

// TransportError is a failed call: a non-2xx status, a network failure,
// a timeout, or a body that is not JSON at all.
// StatusCode is 0 when no HTTP response was received.
type TransportError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: backend returned status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SchemaError is a well-formed JSON response whose shape does not match
// the documented payload.
type SchemaError struct {
	Op     string
	Field  string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: schema mismatch: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s: schema mismatch at %s: %s", e.Op, e.Field, e.Reason)
}

func (e *SchemaError) Unwrap() error { return e.Err }

func (e *SchemaError) Is(target error) bool { return target == ErrSchemaMismatch }
