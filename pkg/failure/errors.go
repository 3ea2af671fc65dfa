package failure

type Severity int

// session control flow
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

type ClassifiedError interface {
	error
	Severity() Severity
}

// IsRecoverable reports whether err may be shown to the user and the
// session continued. A nil error is not recoverable.
func IsRecoverable(err ClassifiedError) bool {
	return err != nil && err.Severity() == SeverityRecoverable
}
