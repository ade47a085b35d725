// Package herrors defines the error taxonomy shared across the cache,
// keymap, archive and decorator layers.
package herrors

import (
	"errors"
	"fmt"
)

// ErrNotFound is a sentinel "key absent" error for callers and Archive
// implementations that want one. Cache.Get, Cache.Load and the Archive
// backends in this module never return it: they report absence with an
// ok=false result.
var ErrNotFound = errors.New("hoard: key not found")

// ErrClosed is returned by Cache.Put and Cache.Load once the Cache has
// been closed.
var ErrClosed = errors.New("hoard: use of closed resource")

// KeyEncodingError wraps a failure to canonicalize a call's arguments
// into a cache key: unhashable/non-comparable values for the Raw
// variant, or a codec failure for Hash/String/Pickle.
type KeyEncodingError struct {
	Variant string
	Err     error
}

func (e *KeyEncodingError) Error() string {
	return fmt.Sprintf("hoard: key encoding (%s): %v", e.Variant, e.Err)
}

func (e *KeyEncodingError) Unwrap() error { return e.Err }

// ValueEncodingError wraps a failure to serialize or deserialize a
// cached value, as opposed to a key.
type ValueEncodingError struct {
	Op  string // e.g. "encode", "decode", "resolve-codec"
	Err error
}

func (e *ValueEncodingError) Error() string {
	return fmt.Sprintf("hoard: value %s: %v", e.Op, e.Err)
}

func (e *ValueEncodingError) Unwrap() error { return e.Err }

// ArchiveError wraps a failure from a durable Archive backend: disk I/O,
// a SQL driver error, or a bbolt transaction failure. Backend is the
// archive's kind (e.g. "file", "dir", "sql", "dataset").
type ArchiveError struct {
	Backend string
	Op      string
	Err     error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("hoard: archive(%s) %s: %v", e.Backend, e.Op, e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// CapacityError is returned when a bounded Cache cannot make room for a
// new entry because its eviction policy selects no victim: e.g. an
// Unbounded policy paired with a finite capacity on a Cache whose
// Config.Unbounded is not set.
type CapacityError struct {
	Capacity int
	Len      int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("hoard: capacity exceeded (capacity=%d len=%d)", e.Capacity, e.Len)
}

// InvariantViolation indicates the library detected its own internal
// state has diverged from what an invariant elsewhere in this module
// guarantees. It should never be observed in normal operation; seeing
// one is a bug report, not a recoverable condition.
type InvariantViolation struct {
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("hoard: invariant violation: %s", e.Detail)
}

// Is reports whether err is (or wraps) target, delegating to errors.Is.
// Provided so call sites need only import herrors.
func Is(err, target error) bool { return errors.Is(err, target) }

// As reports whether err is (or wraps) a value assignable to target,
// delegating to errors.As.
func As(err error, target any) bool { return errors.As(err, target) }
