package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const directionsKey = "https://maps.googleapis.com/maps/api/directions/json?destination=B&mode=driving&origin=A"

// newTestCache returns a cache whose clock is controlled by the returned pointer
func newTestCache(t *testing.T, ttl time.Duration) (*FileCache, *time.Time) {
	t.Helper()
	c, err := NewFileCache(t.TempDir(), ttl)
	require.NoError(t, err)

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestFileCache_SetAndGet(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	value := []byte(`{"status": "OK"}`)
	require.NoError(t, c.Set(directionsKey, value))

	got, ok := c.Get(directionsKey)
	require.True(t, ok)
	assert.Equal(t, value, got)
}

func TestFileCache_GetMissing(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	_, ok := c.Get("non-existent-key")
	assert.False(t, ok)
}

func TestFileCache_Expiration(t *testing.T) {
	c, now := newTestCache(t, 90*time.Second)

	require.NoError(t, c.Set(directionsKey, []byte("route")))
	_, ok := c.Get(directionsKey)
	assert.True(t, ok)

	*now = now.Add(91 * time.Second)
	_, ok = c.Get(directionsKey)
	assert.False(t, ok)

	// expired entries are removed from disk on read
	entries, err := os.ReadDir(c.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileCache_CorruptEntry(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	require.NoError(t, os.WriteFile(c.keyToFilename(directionsKey), []byte("not json"), 0600))

	_, ok := c.Get(directionsKey)
	assert.False(t, ok)
	_, err := os.Stat(c.keyToFilename(directionsKey))
	assert.True(t, os.IsNotExist(err))
}

func TestFileCache_DistinctKeys(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	require.NoError(t, c.Set("origin=A", []byte("one")))
	require.NoError(t, c.Set("origin=B", []byte("two")))

	one, ok1 := c.Get("origin=A")
	two, ok2 := c.Get("origin=B")
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, "one", string(one))
	assert.Equal(t, "two", string(two))
}

func TestFileCache_Delete(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	require.NoError(t, c.Set(directionsKey, []byte("route")))
	require.NoError(t, c.Delete(directionsKey))
	_, ok := c.Get(directionsKey)
	assert.False(t, ok)

	// deleting twice is fine
	assert.NoError(t, c.Delete(directionsKey))
}

func TestFileCache_CreateDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "cache", "dir")

	c, err := NewFileCache(nested, time.Minute)
	require.NoError(t, err)

	_, err = os.Stat(nested)
	require.NoError(t, err)
	assert.NoError(t, c.Set("test", []byte("data")))
}

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "navi"), DefaultCacheDir())

	t.Setenv("XDG_CACHE_HOME", "")
	assert.NotEmpty(t, DefaultCacheDir())
}

func TestFileCache_Clear(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	keys := []string{"origin=A", "origin=B", "origin=C"}
	for _, key := range keys {
		require.NoError(t, c.Set(key, []byte("data")))
	}
	// unrelated files are left alone
	require.NoError(t, os.WriteFile(filepath.Join(c.Dir(), "README"), []byte("keep"), 0600))

	removed, err := c.Clear()
	require.NoError(t, err)
	assert.Equal(t, len(keys), removed)

	for _, key := range keys {
		_, ok := c.Get(key)
		assert.False(t, ok, key)
	}
	_, err = os.Stat(filepath.Join(c.Dir(), "README"))
	assert.NoError(t, err)
}

func TestFileCache_ClearEmptyCache(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	removed, err := c.Clear()
	assert.NoError(t, err)
	assert.Zero(t, removed)
}

func TestFileCache_Cleanup(t *testing.T) {
	c, now := newTestCache(t, time.Minute)

	oldKeys := []string{"origin=old1", "origin=old2"}
	for _, key := range oldKeys {
		require.NoError(t, c.Set(key, []byte("old")))
	}

	*now = now.Add(2 * time.Minute)
	require.NoError(t, c.Set("origin=fresh", []byte("fresh")))

	removed, err := c.Cleanup()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	for _, key := range oldKeys {
		_, ok := c.Get(key)
		assert.False(t, ok, key)
	}
	_, ok := c.Get("origin=fresh")
	assert.True(t, ok)
}

func TestFileCache_CleanupEmptyCache(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	removed, err := c.Cleanup()
	assert.NoError(t, err)
	assert.Zero(t, removed)
}
