package cache

import (
	"fmt"

	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
)

type CacheErrorCause string

const (
	ErrCauseEncodeFailure CacheErrorCause = "encode failed"
	ErrCauseWriteFailure  CacheErrorCause = "write failed"
	ErrCauseLockFailure   CacheErrorCause = "lock failed"
)

type CacheError struct {
	Message   string
	Retryable bool
	Cause     CacheErrorCause
	Path      string
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache error: %s: %s", e.Cause, e.Message)
}

func (e *CacheError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapCacheErrorToMetadataCause maps cache-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapCacheErrorToMetadataCause(err *CacheError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseWriteFailure, ErrCauseLockFailure:
		return metadata.CauseStorageFailure
	case ErrCauseEncodeFailure:
		return metadata.CauseInvariantViolation
	default:
		return metadata.CauseUnknown
	}
}
