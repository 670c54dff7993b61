package cache

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestDocumentCache_HitRequiresSameModTime(t *testing.T) {
	c := NewDocumentCache(DefaultCapacity)
	mtime := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	c.Set("/styles.json", mtime, []byte(`[]`))

	data, ok := c.Get("/styles.json", mtime)
	require.True(t, ok)
	require.Equal(t, []byte(`[]`), data)

	_, ok = c.Get("/styles.json", mtime.Add(time.Second))
	require.False(t, ok, "a newer modification time invalidates the entry")

	_, ok = c.Get("/styles.json", mtime)
	require.False(t, ok, "stale entries are dropped, not kept for later")

	require.Equal(t, float64(1), testutil.ToFloat64(c.hits))
	require.Equal(t, float64(2), testutil.ToFloat64(c.misses))
}

func TestDocumentCache_ReturnsCopies(t *testing.T) {
	c := NewDocumentCache(DefaultCapacity)
	mtime := time.Now()
	c.Set("/a.json", mtime, []byte(`{}`))

	data, ok := c.Get("/a.json", mtime)
	require.True(t, ok)
	data[0] = 'X'

	again, _ := c.Get("/a.json", mtime)
	require.Equal(t, []byte(`{}`), again)
}

func TestDocumentCache_EvictsOldestWhenFull(t *testing.T) {
	c := NewDocumentCache(2)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}
	mtime := time.Now()

	c.Set("/a.json", mtime, []byte("a"))
	c.Set("/b.json", mtime, []byte("b"))
	c.Set("/b.json", mtime, []byte("b2"))
	require.Equal(t, 2, c.Len(), "refreshing an existing key does not evict")

	c.Set("/c.json", mtime, []byte("c"))
	require.Equal(t, 2, c.Len())

	_, ok := c.Get("/a.json", mtime)
	require.False(t, ok, "oldest entry was evicted")
	data, ok := c.Get("/b.json", mtime)
	require.True(t, ok)
	require.Equal(t, []byte("b2"), data)
	require.Equal(t, float64(1), testutil.ToFloat64(c.evictions))
}

func TestDocumentCache_Flush(t *testing.T) {
	c := NewDocumentCache(0)
	require.Equal(t, DefaultCapacity, c.capacity)

	mtime := time.Now()
	c.Set("/a.json", mtime, []byte("a"))
	c.Flush()

	_, ok := c.Get("/a.json", mtime)
	require.False(t, ok)
	require.Len(t, c.Collectors(), 3)
}
