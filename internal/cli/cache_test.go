package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rohmanhakim/parks-explorer/internal/cache"
	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCache(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.json")
	store := cache.Store{}
	for identity, payload := range entries {
		store.Put(identity, json.RawMessage(payload))
	}
	require.Nil(t, cache.Save(path, store))
	return path
}

func TestListCache(t *testing.T) {
	path := seedCache(t, map[string]string{
		"https://www.nps.gov":                   `{"michigan":"https://www.nps.gov/state/mi/index.htm"}`,
		"https://www.nps.gov/state/mi/index.htm": `["https://www.nps.gov/isro/"]`,
	})

	var out bytes.Buffer
	require.NoError(t, listCache(&out, path))

	assert.Contains(t, out.String(), "https://www.nps.gov/state/mi/index.htm")
	assert.Contains(t, out.String(), "2 entries")
	assert.NotContains(t, out.String(), "2 ENTRIES")
}

func TestListCache_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.json")

	var out bytes.Buffer
	require.NoError(t, listCache(&out, path))

	assert.Contains(t, out.String(), "is empty")
}

func TestClearCache(t *testing.T) {
	path := seedCache(t, map[string]string{
		"a": `1`,
		"b": `2`,
	})

	var out bytes.Buffer
	require.NoError(t, clearCache(&out, path, &metadata.NoopSink{}))
	assert.Contains(t, out.String(), "removed 2 entries from "+path)

	store, err := cache.Load(path)
	require.NoError(t, err)
	assert.Empty(t, store)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, out.String(), "parks-explorer ")
}
