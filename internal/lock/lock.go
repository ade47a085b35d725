// Package lock provides the named and sharded locking primitives the
// archive and registry layers build on.
package lock

import (
	"sync"
)

// Named is a registry of mutexes keyed by an arbitrary string name,
// created on first use and released once no caller holds a reference.
// It backs pkg/registry's per-cache-name registration lock; the
// archive backends use Sharded instead.
type Named struct {
	mu    sync.Mutex
	locks map[string]*namedEntry
}

type namedEntry struct {
	mu       sync.Mutex
	refcount int
}

// NewNamed returns an empty Named lock registry.
func NewNamed() *Named {
	return &Named{locks: make(map[string]*namedEntry)}
}

// Lock acquires the mutex associated with name, creating it if
// necessary, and returns an Unlock function the caller must invoke
// exactly once to release it.
func (n *Named) Lock(name string) func() {
	n.mu.Lock()
	e, ok := n.locks[name]
	if !ok {
		e = &namedEntry{}
		n.locks[name] = e
	}
	e.refcount++
	n.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		n.mu.Lock()
		e.refcount--
		if e.refcount == 0 {
			delete(n.locks, name)
		}
		n.mu.Unlock()
	}
}

// Sharded spreads lock contention for a large, dynamic key space across
// a fixed number of mutexes selected by hashing the key, so that two
// unrelated keys rarely contend while still allowing per-key
// serialization of archive writes without one mutex per key.
type Sharded struct {
	shards []sync.Mutex
	mask   uint64
}

// NewSharded returns a Sharded lock with the given shard count, rounded
// up to the next power of two (so that hash&mask is a valid shard
// index).
func NewSharded(shardCount int) *Sharded {
	n := nextPowerOfTwo(shardCount)
	if n == 0 {
		n = 1
	}
	return &Sharded{shards: make([]sync.Mutex, n), mask: uint64(n - 1)}
}

// Lock acquires the shard mutex for key (an FNV-1a hash of the key's
// bytes) and returns an Unlock function.
func (s *Sharded) Lock(key string) func() {
	idx := fnv64a(key) & s.mask
	s.shards[idx].Lock()
	return s.shards[idx].Unlock
}

// ShardCount returns the number of shards backing s.
func (s *Sharded) ShardCount() int { return len(s.shards) }

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 0
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func fnv64a(s string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}
