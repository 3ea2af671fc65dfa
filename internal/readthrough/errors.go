package readthrough

import (
	"fmt"

	"github.com/rohmanhakim/parks-explorer/pkg/failure"
)

type ReadThroughErrorCause string

const (
	ErrCauseEncodeFailure ReadThroughErrorCause = "payload encode failed"
)

type ReadThroughError struct {
	Message  string
	Cause    ReadThroughErrorCause
	Identity string
}

func (e *ReadThroughError) Error() string {
	return fmt.Sprintf("readthrough error: %s: %s", e.Cause, e.Message)
}

// Severity is always fatal: a value that cannot be encoded will never be cacheable.
func (e *ReadThroughError) Severity() failure.Severity {
	return failure.SeverityFatal
}
