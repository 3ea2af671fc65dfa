// Package readthrough puts the cache in front of every outbound fetch.
//
// A request is addressed by its identity. On a hit the stored payload is
// decoded and returned without any network I/O. On a miss the loader runs,
// its typed result is stored under the identity and then returned, so the
// caller receives the same shape whichever path produced it.
package readthrough

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rohmanhakim/parks-explorer/internal/cache"
	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
)

// Loader performs the network request and parsing for a cache miss.
type Loader[T any] func(ctx context.Context) (T, failure.ClassifiedError)

type Reader struct {
	cache        cache.Cache
	metadataSink metadata.MetadataSink
}

func NewReader(c cache.Cache, metadataSink metadata.MetadataSink) *Reader {
	return &Reader{
		cache:        c,
		metadataSink: metadataSink,
	}
}

// Fetch returns the value stored under identity, or loads, stores and returns it.
//
// Loader errors are returned unchanged and nothing is stored. A stored payload
// that is null or no longer decodes into T is treated as a miss and replaced.
func Fetch[T any](
	ctx context.Context,
	r *Reader,
	identity string,
	load Loader[T],
) (T, failure.ClassifiedError) {
	var zero T

	if payload, ok := r.cache.Get(identity); ok {
		var value T
		err := decodePayload(payload, &value)
		if err == nil {
			r.metadataSink.RecordCacheLookup(identity, true)
			return value, nil
		}
		r.metadataSink.RecordError(
			time.Now(),
			"readthrough",
			"Fetch",
			metadata.CauseContentInvalid,
			fmt.Sprintf("stale cache payload: %v", err),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrIdentity, identity),
			},
		)
	}

	r.metadataSink.RecordCacheLookup(identity, false)

	value, loadErr := load(ctx)
	if loadErr != nil {
		return zero, loadErr
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return zero, &ReadThroughError{
			Message:  err.Error(),
			Cause:    ErrCauseEncodeFailure,
			Identity: identity,
		}
	}

	if putErr := r.cache.Put(identity, payload); putErr != nil {
		return zero, putErr
	}

	return value, nil
}

var nullPayload = []byte("null")

// decodePayload rejects a JSON null, which would otherwise decode into the
// zero value of T without error.
func decodePayload(payload []byte, value any) error {
	if bytes.Equal(bytes.TrimSpace(payload), nullPayload) {
		return errors.New("null payload")
	}
	return json.Unmarshal(payload, value)
}
