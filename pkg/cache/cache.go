// Package cache implements the bounded, optionally-archive-backed Key
// -> Value store the decorator layer wraps around a memoized function.
// A single mutex guards the whole structure, since Get mutates
// recency/frequency metadata on every hit, leaving no useful
// reader/writer split.
package cache

import (
	"sync"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/atomic"

	"github.com/yourusername/hoard/pkg/archive"
	"github.com/yourusername/hoard/pkg/eviction"
	"github.com/yourusername/hoard/pkg/herrors"
)

// Stats are the counters the decorator layer (and any caller) can
// inspect: hits and misses on the in-memory map, entries loaded back
// from the archive on a miss, and entries evicted to make room.
type Stats struct {
	Hits      int64
	Misses    int64
	Loads     int64
	Evictions int64
}

// Cache is a bounded Key -> Value mapping with a pluggable eviction
// Policy and an optional durable Archive. Capacity 0 with policy NO
// means every Put is immediately demoted to the archive (or discarded,
// with no archive); Config.Unbounded (the INF sentinel) means unlimited
// retention whatever the capacity. Otherwise entries are evicted via
// Policy once Len would exceed Capacity; a policy that yields no victim
// then makes Put return a CapacityError.
type Cache struct {
	mu       sync.Mutex
	capacity int
	unbound  bool // true for the INF sentinel: capacity is advisory only
	policy   eviction.Policy
	arch     archive.Archive
	data     map[any]any
	closed   bool

	hits, misses, loads, evictions atomic.Int64
}

// Config assembles a Cache.
type Config struct {
	Capacity int
	Policy   eviction.Policy
	// Unbounded marks the INF sentinel: Capacity is ignored and no
	// eviction ever occurs.
	Unbounded bool
	// Archive, if non-nil, receives entries evicted from the in-memory
	// map and backs Load/Dump/Sync/Drop.
	Archive archive.Archive
}

// New constructs a Cache from cfg. A nil cfg.Policy defaults to LRU.
func New(cfg Config) *Cache {
	p := cfg.Policy
	if p == nil {
		p = eviction.NewLRU()
	}
	return &Cache{
		capacity: cfg.Capacity,
		unbound:  cfg.Unbounded,
		policy:   p,
		arch:     cfg.Archive,
		data:     make(map[any]any),
	}
}

// Get returns the value stored for key without consulting the archive.
// It updates the policy's recency/frequency metadata on a hit, which is
// why Cache uses a plain Mutex rather than an RWMutex: Get mutates
// state.
func (c *Cache) Get(key any) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, false
	}
	v, ok := c.data[key]
	if ok {
		c.policy.Touch(key)
		c.hits.Inc()
	} else {
		c.misses.Inc()
	}
	return v, ok
}

// Put inserts or overwrites key's value, evicting via the policy if
// this insertion would exceed capacity. If an Archive is bound, the
// evicted entry is demoted to it; a demotion failure is returned to
// the caller even though the eviction itself has already taken effect
// (the entry is gone from the in-memory map either way — see DESIGN.md
// for the rationale).
func (c *Cache) Put(key any, value any) error {
	return c.insert(key, value, true)
}

// insert is Put's implementation, parameterized on whether the policy's
// recency/frequency metadata is touched. Sync's archive-load phase
// wants touch=false (a freshly loaded entry lands at the bottom of LRU
// order rather than jumping to the top); Put and the decorator's own
// promote-on-access path want touch=true.
func (c *Cache) insert(key any, value any, touch bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return herrors.ErrClosed
	}
	_, existed := c.data[key]
	c.data[key] = value
	if touch {
		c.policy.Touch(key)
	} else if !existed {
		c.policy.Add(key)
	}

	var victimKey, victimVal any
	var evicted, overCapacity bool
	if !c.unbound && !existed && c.capacity >= 0 && len(c.data) > c.capacity {
		if vk, ok := c.policy.Evict(); ok {
			victimKey = vk
			victimVal = c.data[vk]
			delete(c.data, vk)
			evicted = true
			c.evictions.Inc()
		} else {
			overCapacity = true
		}
	}
	length := len(c.data)
	c.mu.Unlock()

	if evicted && c.arch != nil {
		if err := c.arch.Dump(victimKey, victimVal); err != nil {
			return &herrors.ArchiveError{Backend: "cache-evict", Op: "dump", Err: err}
		}
	}
	if overCapacity {
		return &herrors.CapacityError{Capacity: c.capacity, Len: length}
	}
	return nil
}

// Delete removes key from the in-memory map only, leaving any archived
// copy untouched (use Drop/Sync to coordinate the archive explicitly).
func (c *Cache) Delete(key any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.policy.Remove(key)
}

// Contains reports whether key is present without affecting recency.
func (c *Cache) Contains(key any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// Len returns the number of entries currently held in memory.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Capacity returns the configured capacity (meaningless if Unbounded).
func (c *Cache) Capacity() int { return c.capacity }

// Keys returns a snapshot of the in-memory keys, in no particular
// order.
func (c *Cache) Keys() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]any, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	return keys
}

// Clear discards every in-memory entry, leaving any bound archive
// untouched, and resets the eviction policy's bookkeeping. Stats
// counters are preserved.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[any]any)
	c.policy.Clear()
}

// Stats returns a snapshot of the hit/miss/load/eviction counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Loads:     c.loads.Load(),
		Evictions: c.evictions.Load(),
	}
}

// Archive returns the bound Archive, or nil if none is configured.
func (c *Cache) Archive() archive.Archive { return c.arch }

// Close discards the in-memory map and closes the bound Archive, if
// any. Every subsequent Put/Load returns herrors.ErrClosed and every
// subsequent Get reports a miss; Close itself is idempotent.
func (c *Cache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.data = nil
	c.mu.Unlock()

	if c.arch != nil {
		return c.arch.Close()
	}
	return nil
}

// Load fetches key from the bound Archive and, if found, promotes it
// into the in-memory map (subject to the same eviction rule as Put),
// touching the policy's recency/frequency metadata as if it had just
// been accessed — the decorator layer's own promote-on-miss path goes
// through Load and expects a freshly loaded entry to behave like any
// other fresh insert. Load reports ok=false with no error if no
// Archive is bound or the key is absent from it; a non-nil error
// indicates an Archive I/O failure rather than a plain miss.
func (c *Cache) Load(key any) (any, bool, error) {
	v, ok, err := c.load(key, true)
	return v, ok, err
}

// load is Load's implementation, parameterized on touch so Sync's
// reconciliation pass can promote archive-only entries without
// advancing their recency, landing them at the bottom of LRU order
// instead of the top.
func (c *Cache) load(key any, touch bool) (any, bool, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, false, herrors.ErrClosed
	}
	if c.arch == nil {
		return nil, false, nil
	}
	v, ok, err := c.arch.Load(key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	c.loads.Inc()
	if err := c.insert(key, v, touch); err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// Dump demotes key's current in-memory value to the bound Archive
// without removing it from memory. It is a no-op if no Archive is
// bound or key is absent.
func (c *Cache) Dump(key any) error {
	if c.arch == nil {
		return nil
	}
	c.mu.Lock()
	v, ok := c.data[key]
	c.mu.Unlock()
	if !ok {
		return nil
	}
	return c.arch.Dump(key, v)
}

// Sync reconciles every in-memory entry with the bound Archive: for
// each key, Load(*) runs first so archive-only entries are pulled in,
// then Dump(*) runs so every in-memory entry (including freshly loaded
// ones) is written back, so dump wins any tie. Concurrent per-key work
// is fanned out via a conc pool since each key's archive I/O is
// independent.
func (c *Cache) Sync() error {
	if c.arch == nil {
		return nil
	}
	archKeys, err := c.arch.Keys()
	if err != nil {
		return err
	}

	loadPool := pool.NewWithResults[error]()
	for _, k := range archKeys {
		k := k
		loadPool.Go(func() error {
			_, _, err := c.load(k, false)
			return err
		})
	}
	for _, err := range loadPool.Wait() {
		if err != nil {
			return err
		}
	}

	dumpPool := pool.NewWithResults[error]()
	for _, k := range c.Keys() {
		k := k
		dumpPool.Go(func() error {
			return c.Dump(k)
		})
	}
	for _, err := range dumpPool.Wait() {
		if err != nil {
			return err
		}
	}
	return nil
}

// Drop discards every in-memory entry without touching the archive,
// the opposite of Sync: whatever was only in memory is simply gone.
func (c *Cache) Drop() {
	c.Clear()
}
