package lookup

import (
	"fmt"

	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
)

type LookupErrorCause string

const (
	ErrCauseMissingOrigin     LookupErrorCause = "missing origin"
	ErrCauseMissingCredential LookupErrorCause = "missing credential"
	ErrCauseAPIStatus         LookupErrorCause = "api status"
	ErrCauseDecodeFailure     LookupErrorCause = "decode failure"
)

type LookupError struct {
	Message   string
	Retryable bool
	Cause     LookupErrorCause
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup error: %s: %s", e.Cause, e.Message)
}

func (e *LookupError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapLookupErrorToMetadataCause maps lookup-local error semantics
// to the canonical metadata.ErrorCause table.
func mapLookupErrorToMetadataCause(err *LookupError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseMissingOrigin, ErrCauseMissingCredential:
		return metadata.CauseInvariantViolation
	case ErrCauseAPIStatus:
		return metadata.CausePolicyDisallow
	case ErrCauseDecodeFailure:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
