package catalog

import (
	"fmt"

	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
)

type CatalogErrorCause string

const (
	ErrCauseInvalidURL CatalogErrorCause = "invalid url"
)

type CatalogError struct {
	Message   string
	Retryable bool
	Cause     CatalogErrorCause
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog error: %s: %s", e.Cause, e.Message)
}

func (e *CatalogError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func mapCatalogErrorToMetadataCause(err *CatalogError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseInvalidURL:
		return metadata.CauseInvariantViolation
	default:
		return metadata.CauseUnknown
	}
}
