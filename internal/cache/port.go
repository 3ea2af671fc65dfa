package cache

import (
	"encoding/json"

	"github.com/rohmanhakim/parks-explorer/pkg/failure"
)

// Cache is the port every outbound fetch goes through.
// Keys are request identities (a URL, or a canonical query string);
// values are JSON payloads holding the parsed, normalized result.
//
// Implementations are responsible for durability. A failed Put must leave
// the caller able to tell that the entry may not survive the process.
type Cache interface {
	// Get returns the payload stored under identity and true if present.
	// It performs no I/O.
	Get(identity string) (json.RawMessage, bool)

	// Put stores payload under identity, replacing any previous entry.
	Put(identity string, payload json.RawMessage) failure.ClassifiedError

	// Len returns the number of entries.
	Len() int

	// Identities returns every stored identity in sorted order.
	Identities() []string
}
