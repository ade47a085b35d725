// Package eviction implements the bounded-cache eviction policies named
// here: LRU, LFU, MRU, RR, an unbounded sentinel (INF) and a
// zero-capacity pass-through sentinel (NO), generalized from byte-size
// to key-count capacity.
package eviction

// Policy tracks the recency/frequency metadata a bounded Cache needs to
// pick an eviction victim. It does not own the cached values
// themselves — Cache is the source of truth for Key -> Value; a Policy
// only orders and selects keys. Implementations are not safe for
// concurrent use; callers serialize access (the owning Cache's mutex).
type Policy interface {
	// Touch records that key was just accessed or inserted, updating
	// whatever recency/frequency bookkeeping the policy tracks. It must
	// be called on every Cache hit and every successful insert that
	// should count as "freshly used" for eviction-ordering purposes.
	Touch(key any)
	// Add registers key as tracked without marking it freshly used: it
	// lands at the least-recently-used end of the policy's ordering
	// (next in line for eviction under LRU, last under MRU) or at
	// frequency 0 under LFU, rather than at the most-recently-used end
	// Touch would place it. It is a no-op if key is already
	// tracked, leaving its existing position untouched. This backs a
	// no-touch insert, e.g. promoting an archive-only entry into memory
	// during a reconciliation pass without it jumping to the front of
	// LRU order.
	Add(key any)
	// Remove drops key's bookkeeping, e.g. because the Cache deleted it
	// directly rather than through eviction.
	Remove(key any)
	// Evict selects and removes the next victim according to the
	// policy's rule, returning ok=false if there is nothing tracked.
	Evict() (key any, ok bool)
	// Len reports how many keys the policy is currently tracking.
	Len() int
	// Clear discards all tracked keys.
	Clear()
}

// Name enumerates the policy kinds the configuration layer and
// decorator facade accept.
type Name string

const (
	LRUName       Name = "lru"
	LFUName       Name = "lfu"
	MRUName       Name = "mru"
	RRName        Name = "rr"
	UnboundedName Name = "inf"
	NoCacheName   Name = "no"
)

// New constructs the Policy for the given name. seed is used only by RR;
// 0 is a fixed seed like any other, so RR's victim sequence repeats
// across runs unless the caller passes a seed of its own.
func New(name Name, seed int64) (Policy, error) {
	switch name {
	case LRUName:
		return NewLRU(), nil
	case LFUName:
		return NewLFU(), nil
	case MRUName:
		return NewMRU(), nil
	case RRName:
		return NewRR(seed), nil
	case UnboundedName:
		return NewUnbounded(), nil
	case NoCacheName:
		// NO forces capacity 0 and must still evict the one entry a Put
		// just inserted (immediate pass-through to the archive); LRU
		// with capacity 0 gives exactly that, since the single tracked
		// key is always both newest and least-recently-used.
		return NewLRU(), nil
	default:
		return nil, errUnknownPolicy(name)
	}
}

type errUnknownPolicy Name

func (e errUnknownPolicy) Error() string { return "eviction: unknown policy " + string(e) }
