package metadata

import (
	"time"

	"go.uber.org/zap"
)

/*
Metadata Collected
- Fetch durations and HTTP status codes
- Cache hits and misses per identity
- Cache store writes
- Classified errors

Metadata is write-only.
No component may read metadata to influence control flow.
Identities are logged as-is; they never carry credentials.
*/

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		contentType string,
		sizeByte uint64,
	)

	RecordCacheLookup(identity string, hit bool)

	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

// Recorder writes metadata events as structured zap log entries.
type Recorder struct {
	logger *zap.Logger
}

func NewRecorder(logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		logger: logger.Named("metadata"),
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	fields := []zap.Field{
		zap.Time("observed_at", observedAt),
		zap.String("package", packageName),
		zap.String("action", action),
		zap.Stringer("cause", cause),
		zap.String("error", errorString),
	}
	r.logger.Warn("error recorded", append(fields, attrFields(attrs)...)...)
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	sizeByte uint64,
) {
	r.logger.Info("fetch",
		zap.String(string(AttrURL), fetchUrl),
		zap.Int(string(AttrHTTPStatus), httpStatus),
		zap.Duration("duration", duration),
		zap.String("content_type", contentType),
		zap.Uint64(string(AttrSizeByte), sizeByte),
	)
}

func (r *Recorder) RecordCacheLookup(identity string, hit bool) {
	if hit {
		r.logger.Debug("using cache", zap.String(string(AttrIdentity), identity))
		return
	}
	r.logger.Debug("cache miss, fetching", zap.String(string(AttrIdentity), identity))
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	fields := []zap.Field{
		zap.String("kind", string(kind)),
		zap.String(string(AttrWritePath), path),
	}
	r.logger.Debug("artifact written", append(fields, attrFields(attrs)...)...)
}

func attrFields(attrs []Attribute) []zap.Field {
	fields := make([]zap.Field, 0, len(attrs))
	for _, attr := range attrs {
		fields = append(fields, zap.String(string(attr.Key), attr.Value))
	}
	return fields
}

// NoopSink implements MetadataSink but does nothing.
// Tests and dry runs can inject it to keep metadata orthogonal.
type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	sizeByte uint64,
) {
}

func (n *NoopSink) RecordCacheLookup(identity string, hit bool) {}

func (n *NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}
