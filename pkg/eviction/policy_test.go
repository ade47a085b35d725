package eviction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUEvictsLeastRecentlyTouched(t *testing.T) {
	p := NewLRU()
	p.Touch("a")
	p.Touch("b")
	p.Touch("c")
	p.Touch("a") // a is now most recent

	key, ok := p.Evict()
	require.True(t, ok)
	assert.Equal(t, "b", key)

	key, ok = p.Evict()
	require.True(t, ok)
	assert.Equal(t, "c", key)
}

func TestMRUEvictsMostRecentlyTouched(t *testing.T) {
	p := NewMRU()
	p.Touch("a")
	p.Touch("b")
	p.Touch("c")

	key, ok := p.Evict()
	require.True(t, ok)
	assert.Equal(t, "c", key)
}

func TestLFUEvictsLeastFrequentTieBrokenByOldestAccess(t *testing.T) {
	p := NewLFU()
	p.Touch("a")
	p.Touch("b")
	p.Touch("a") // a freq=2, b freq=1

	key, ok := p.Evict()
	require.True(t, ok)
	assert.Equal(t, "b", key, "lowest frequency evicted first")

	p2 := NewLFU()
	p2.Touch("x")
	p2.Touch("y") // both freq=1, x touched first -> older access time

	key, ok = p2.Evict()
	require.True(t, ok)
	assert.Equal(t, "x", key, "ties broken by oldest access time")
}

func TestRREvictsFromTrackedSet(t *testing.T) {
	p := NewRR(42)
	p.Touch("a")
	p.Touch("b")
	p.Touch("c")

	seen := map[any]bool{}
	for i := 0; i < 3; i++ {
		key, ok := p.Evict()
		require.True(t, ok)
		seen[key] = true
	}
	assert.Len(t, seen, 3)

	_, ok := p.Evict()
	assert.False(t, ok)
}

func TestUnboundedNeverEvicts(t *testing.T) {
	p := NewUnbounded()
	p.Touch("a")
	p.Touch("b")
	_, ok := p.Evict()
	assert.False(t, ok)
	assert.Equal(t, 2, p.Len())
}

func TestRemoveDropsTrackedKey(t *testing.T) {
	p := NewLRU()
	p.Touch("a")
	p.Touch("b")
	p.Remove("a")
	assert.Equal(t, 1, p.Len())

	key, ok := p.Evict()
	require.True(t, ok)
	assert.Equal(t, "b", key)
}

func TestNewUnknownPolicyErrors(t *testing.T) {
	_, err := New(Name("bogus"), 0)
	assert.Error(t, err)
}
