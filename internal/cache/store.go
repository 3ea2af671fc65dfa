package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/rohmanhakim/parks-explorer/pkg/failure"
	"github.com/rohmanhakim/parks-explorer/pkg/fileutil"
)

// Store maps a request identity to its JSON payload.
// Identities are unique; a later Put for the same identity replaces the earlier one.
type Store map[string]json.RawMessage

// Get is a pure lookup.
func (s Store) Get(identity string) (json.RawMessage, bool) {
	payload, ok := s[identity]
	return payload, ok
}

// Put inserts or replaces the payload stored under identity.
func (s Store) Put(identity string, payload json.RawMessage) {
	s[identity] = payload
}

// Identities returns the stored identities in sorted order.
func (s Store) Identities() []string {
	identities := make([]string, 0, len(s))
	for identity := range s {
		identities = append(identities, identity)
	}
	sort.Strings(identities)
	return identities
}

// Load reads the store at path.
// A missing, unreadable or corrupt file yields an empty store; callers never
// see a read error. The returned error only reports why the store is empty, so
// it can be logged.
func Load(path string) (Store, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Store{}, err
	}

	store := Store{}
	if err := json.Unmarshal(content, &store); err != nil {
		return Store{}, fmt.Errorf("decode cache store: %w", err)
	}
	if store == nil {
		// the file held a JSON null
		return Store{}, nil
	}
	return store, nil
}

// Save serializes the whole store and atomically replaces the file at path.
// Every call rewrites the entire file, so the cost of a single write grows with
// the total size of the store.
func Save(path string, store Store) failure.ClassifiedError {
	content, err := json.Marshal(store)
	if err != nil {
		return &CacheError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseEncodeFailure,
			Path:      path,
		}
	}

	if err := fileutil.WriteFileAtomic(path, content, 0600); err != nil {
		return &CacheError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseWriteFailure,
			Path:      path,
		}
	}
	return nil
}
