package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/hoard/pkg/archive"
	"github.com/yourusername/hoard/pkg/eviction"
	"github.com/yourusername/hoard/pkg/herrors"
)

func TestPutGetRoundTrip(t *testing.T) {
	c := New(Config{Capacity: 10})
	require.NoError(t, c.Put("a", 1))

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
}

func TestGetMissIncrementsMisses(t *testing.T) {
	c := New(Config{Capacity: 10})
	_, ok := c.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Stats().Misses)
}

func TestPutEvictsAndDemotesToArchive(t *testing.T) {
	arc := archive.NewMemory()
	c := New(Config{Capacity: 1, Policy: eviction.NewLRU(), Archive: arc})

	require.NoError(t, c.Put("a", "va"))
	require.NoError(t, c.Put("b", "vb")) // evicts "a"

	assert.Equal(t, 1, c.Len())
	assert.False(t, c.Contains("a"))
	assert.True(t, c.Contains("b"))

	v, ok, err := arc.Load("a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "va", v)

	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestLoadPromotesFromArchive(t *testing.T) {
	arc := archive.NewMemory()
	require.NoError(t, arc.Dump("a", "archived-value"))

	c := New(Config{Capacity: 10, Archive: arc})
	v, ok, err := c.Load("a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "archived-value", v)
	assert.True(t, c.Contains("a"))
	assert.Equal(t, int64(1), c.Stats().Loads)
}

func TestSyncReconcilesBothDirections(t *testing.T) {
	arc := archive.NewMemory()
	require.NoError(t, arc.Dump("archived-only", "x"))

	c := New(Config{Capacity: 10, Archive: arc})
	require.NoError(t, c.Put("memory-only", "y"))

	require.NoError(t, c.Sync())

	assert.True(t, c.Contains("archived-only"))
	v, ok, err := arc.Load("memory-only")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "y", v)
}

func TestDropDiscardsMemoryOnly(t *testing.T) {
	arc := archive.NewMemory()
	c := New(Config{Capacity: 10, Archive: arc})
	require.NoError(t, c.Put("a", 1))
	require.NoError(t, c.Dump("a"))

	c.Drop()
	assert.Equal(t, 0, c.Len())

	_, ok, err := arc.Load("a")
	require.NoError(t, err)
	assert.True(t, ok, "Drop must not touch the archive")
}

func TestUnboundedNeverEvicts(t *testing.T) {
	c := New(Config{Unbounded: true, Policy: eviction.NewUnbounded()})
	for i := 0; i < 100; i++ {
		require.NoError(t, c.Put(i, i))
	}
	assert.Equal(t, 100, c.Len())
	assert.Equal(t, int64(0), c.Stats().Evictions)
}

func TestClearPreservesStatsResetsPolicy(t *testing.T) {
	c := New(Config{Capacity: 10})
	require.NoError(t, c.Put("a", 1))
	c.Get("a")
	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(1), c.Stats().Hits, "Clear must not reset counters")
}

func TestSyncLoadDoesNotTouchPolicy(t *testing.T) {
	arc := archive.NewMemory()
	require.NoError(t, arc.Dump("archived-only", "x"))

	c := New(Config{Capacity: 2, Policy: eviction.NewLRU(), Archive: arc})
	require.NoError(t, c.Put("memory-only", "y"))

	require.NoError(t, c.Sync())
	assert.True(t, c.Contains("archived-only"))
	assert.True(t, c.Contains("memory-only"))

	// A third Put must evict the archive-loaded entry first: Sync's load
	// phase must not have touched it, so it sits at the bottom of LRU
	// order behind the already-present, explicitly-Put entry.
	require.NoError(t, c.Put("third", "z"))
	assert.False(t, c.Contains("archived-only"), "an untouched, freshly loaded entry must be the first evicted")
	assert.True(t, c.Contains("memory-only"))
	assert.True(t, c.Contains("third"))
}

func TestCloseRejectsFurtherOperations(t *testing.T) {
	arc := archive.NewMemory()
	c := New(Config{Capacity: 10, Archive: arc})
	require.NoError(t, c.Put("a", 1))

	require.NoError(t, c.Close())

	_, ok := c.Get("a")
	assert.False(t, ok)

	err := c.Put("b", 2)
	require.ErrorIs(t, err, herrors.ErrClosed)

	require.NoError(t, c.Close(), "Close must be idempotent")
}
