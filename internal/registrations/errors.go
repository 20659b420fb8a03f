package registrations

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a registration ID does not exist.
var ErrNotFound = errors.New("registration not found")

// ValidationError carries every violation found in a submission so the caller
// can report them together.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}

// UpstreamError wraps a database or object-store failure. The vendor cause is
// preserved for logs; handlers show callers a generic message.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
