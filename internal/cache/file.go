package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
	"github.com/rohmanhakim/parks-explorer/pkg/fileutil"
)

/*
FileCache is the durable Cache.

  - The store is loaded once, when the cache is opened.
  - Every Put mutates the in-memory store and synchronously rewrites the file.
    There is no batching and no write-ahead log: a crash after Put returns
    cannot lose that entry, a crash before it loses nothing that was written.
  - Saves hold an advisory lock on "<path>.lock" so two overlapping rewrites
    never interleave. The store itself assumes a single writer; two processes
    sharing one file still overwrite each other's entries (last save wins).
*/
type FileCache struct {
	path         string
	store        Store
	lock         *flock.Flock
	metadataSink metadata.MetadataSink
}

// OpenFileCache loads the store at path. It never fails: an unreadable or
// corrupt file is reported to the metadata sink and treated as empty.
func OpenFileCache(path string, metadataSink metadata.MetadataSink) *FileCache {
	store, err := Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		metadataSink.RecordError(
			time.Now(),
			"cache",
			"OpenFileCache",
			metadata.CauseStorageFailure,
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrWritePath, path),
			},
		)
	}

	return &FileCache{
		path:         path,
		store:        store,
		lock:         flock.New(path + ".lock"),
		metadataSink: metadataSink,
	}
}

func (c *FileCache) Path() string {
	return c.path
}

func (c *FileCache) Get(identity string) (json.RawMessage, bool) {
	return c.store.Get(identity)
}

// Put stores the entry and flushes the whole store to disk before returning.
// A failed flush leaves the entry in memory and returns a fatal CacheError.
func (c *FileCache) Put(identity string, payload json.RawMessage) failure.ClassifiedError {
	c.store.Put(identity, payload)
	return c.flush("FileCache.Put", identity)
}

func (c *FileCache) Len() int {
	return len(c.store)
}

func (c *FileCache) Identities() []string {
	return c.store.Identities()
}

// Clear empties the store and rewrites the file.
func (c *FileCache) Clear() failure.ClassifiedError {
	c.store = Store{}
	return c.flush("FileCache.Clear", "")
}

func (c *FileCache) flush(callerMethod string, identity string) failure.ClassifiedError {
	err := c.save()
	if err != nil {
		cause := metadata.CauseStorageFailure
		var cacheErr *CacheError
		if errors.As(err, &cacheErr) {
			cause = mapCacheErrorToMetadataCause(cacheErr)
		}
		c.metadataSink.RecordError(
			time.Now(),
			"cache",
			callerMethod,
			cause,
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrIdentity, identity),
				metadata.NewAttr(metadata.AttrWritePath, c.path),
			},
		)
		return err
	}

	c.metadataSink.RecordArtifact(
		metadata.ArtifactCacheStore,
		c.path,
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrIdentity, identity),
			metadata.NewAttr(metadata.AttrEntries, strconv.Itoa(len(c.store))),
		},
	)
	return nil
}

func (c *FileCache) save() failure.ClassifiedError {
	if err := fileutil.EnsureDir(filepath.Dir(c.path)); err != nil {
		return &CacheError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseWriteFailure,
			Path:      c.path,
		}
	}

	if err := c.lock.Lock(); err != nil {
		return &CacheError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseLockFailure,
			Path:      c.path,
		}
	}
	defer c.lock.Unlock()

	return Save(c.path, c.store)
}
