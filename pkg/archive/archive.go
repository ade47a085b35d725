// Package archive implements the durable backends a Cache can sync
// against: in-memory, discard, single-file, directory-of-files, SQL
// (single and multi-table) and hierarchical-dataset (single-file and
// directory) stores.
package archive

import (
	"encoding/hex"

	"github.com/yourusername/hoard/pkg/codec"
)

// Archive is a durable Key -> Value mapping a Cache can load from and
// dump to. Keys passed to Archive methods are the same canonical Key
// values a Keymap produces; backends that need a filesystem- or
// SQL-safe representation derive one internally (see keyToString).
type Archive interface {
	// Load fetches the value stored for key. ok is false if absent.
	Load(key any) (value any, ok bool, err error)
	// Dump stores value under key, overwriting any existing entry.
	Dump(key any, value any) error
	// Delete removes key's entry, if present. It is not an error to
	// delete an absent key.
	Delete(key any) error
	// Keys lists every key currently stored. Backends that cannot
	// enumerate cheaply (e.g. a remote SQL table scanned on demand)
	// may still return a full list; Non-goals exclude the backend
	// needing to support partial/streaming enumeration.
	Keys() ([]any, error)
	// Close releases any resources (file handles, DB connections,
	// bbolt database handles) the backend holds open.
	Close() error
}

// defaultCodec returns the serialization strategy a byte-oriented
// backend (file, dir, SQL, dataset) uses to turn values into bytes: c
// itself, or codec.DefaultCodec() when a backend's constructor
// receives nil.
func defaultCodec(c codec.Codec) codec.Codec {
	if c == nil {
		return codec.DefaultCodec()
	}
	return c
}

// keyToString renders any canonical Key as a stable string, used by the
// byte-oriented backends (dir, sql, dataset) as the on-disk/on-row
// identifier. Raw-variant keys (not already strings) fall back to
// codec.Stringify; Hash/String/Pickle variant keys already arrive as
// strings or fixed byte arrays and stringify trivially.
func keyToString(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case [8]byte:
		return hex.EncodeToString(k[:])
	default:
		return codec.Stringify(key)
	}
}
