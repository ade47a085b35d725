// Package keymap implements the canonical argument-to-key encoding
// a canonical key encoder performs: typed/flat canonicalization of a call's
// arguments with an optional ignore list, in four variants (Raw, Hash,
// String, Pickle), composable left-to-right.
package keymap

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/yourusername/hoard/pkg/codec"
	"github.com/yourusername/hoard/pkg/herrors"
)

// Keymap canonicalizes a call's positional and named arguments into a
// cache Key. Implementations must be safe for concurrent use.
type Keymap interface {
	// Encode produces the canonical key for the given positional args
	// and named args (named may be nil).
	Encode(args []any, named map[string]any) (any, error)
	// Variant names the concrete encoding for error reporting.
	Variant() string
}

// Options configures the canonicalization pipeline shared by all four
// variants.
type Options struct {
	// Typed appends a type-tag suffix to the canonical form so that
	// e.g. f(1) and f(1.0) produce distinct keys.
	Typed bool
	// Flat, when true, merges positional and named arguments into one
	// ordered sequence before encoding. When false, positional and
	// (sorted) named arguments are kept apart as a structured pair
	// instead of merged. All four variants observe this, since
	// flattening is a canonicalization step that runs before the
	// variant-specific encode, not a Raw-only concern.
	Flat bool
	// Ignore lists named arguments to exclude from canonicalization.
	Ignore []string
}

func (o Options) ignoreSet() map[string]struct{} {
	set := make(map[string]struct{}, len(o.Ignore))
	for _, n := range o.Ignore {
		set[n] = struct{}{}
	}
	return set
}

// sentinel separates flattened positional values from the trailing
// type-tag suffix in the flat encoding, using a
// unique singleton object as a list separator.
type sentinelType struct{}

var sentinel = sentinelType{}

// pair is the non-flat canonical form produced when Options.Flat is
// false: positional and named arguments are kept apart as a
// (pos_seq, named_seq_sorted) tuple rather than merged into one
// sequence.
type pair struct {
	Pos   []any
	Named []any
	Types []string // type tag per Pos value then per Named value; empty unless Typed
}

// canonicalize applies the ignore list, the typing policy and the
// flattening policy (in that order, per the canonicalization pipeline
// each variant shares) and returns either a flat []any sequence
// (positional args followed by named args sorted by name, optionally
// followed by a type-tag suffix) or, when opt.Flat is false, a
// structured pair keeping positional and named arguments apart.
func canonicalize(args []any, named map[string]any, opt Options) any {
	ignore := opt.ignoreSet()

	pos := make([]any, 0, len(args))
	pos = append(pos, args...)

	var namedSeq []any
	if len(named) > 0 {
		keys := make([]string, 0, len(named))
		for k := range named {
			if _, skip := ignore[k]; skip {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			namedSeq = append(namedSeq, named[k])
		}
	}

	var types []string
	if opt.Typed {
		types = make([]string, 0, len(pos)+len(namedSeq))
		for _, v := range pos {
			types = append(types, typeName(v))
		}
		for _, v := range namedSeq {
			types = append(types, typeName(v))
		}
	}

	if !opt.Flat {
		return pair{Pos: pos, Named: namedSeq, Types: types}
	}

	out := make([]any, 0, len(pos)+len(namedSeq)+len(types)+1)
	out = append(out, pos...)
	out = append(out, namedSeq...)
	if opt.Typed {
		out = append(out, sentinel)
		for _, t := range types {
			out = append(out, t)
		}
	}
	return out
}

func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}

// structuredKey is the comparable Go value the Raw variant produces for
// a non-flat pair: Pos and Named are each independently collapsed the
// same way a flat sequence would be.
type structuredKey struct {
	Pos   any
	Named any
	Types string
}

// rawKey converts a canonical form (either a flat []any sequence or a
// structured pair) into a single comparable Go value suitable for use
// as a map key. flatKey's map-insertion probe lets Go's runtime raise
// its own panic for a non-comparable element — Raw.Encode recovers it
// and turns it into a KeyEncodingError, which is what lets a
// Safe-wrapped keymap or Decorator.SafeCall's own recovery trigger.
func rawKey(canon any) any {
	switch c := canon.(type) {
	case pair:
		return structuredKey{
			Pos:   flatKey(c.Pos),
			Named: flatKey(c.Named),
			Types: strings.Join(c.Types, ","),
		}
	default:
		return flatKey(canon.([]any))
	}
}

// flatKey collapses a flattened sequence into a single comparable Go
// value: the lone element itself if the sequence has exactly one
// (comparable) element, otherwise the stringified sequence — a
// deterministic, comparable proxy for the original tuple. A
// non-comparable element (slice, map, func) is never silently
// stringified away: it is handed to a throwaway map literal, which
// panics with Go's native "unhashable type" error.
func flatKey(flat []any) any {
	if len(flat) == 1 {
		probeComparable(flat[0])
		return flat[0]
	}
	for _, v := range flat {
		probeComparable(v)
	}
	return codec.Stringify(flat)
}

// probeComparable panics (Go's native "hash of unhashable type" runtime
// error) if v cannot be used as a map key. It does not recover: the
// panic is meant to propagate to Raw.Encode's own recover, which
// converts it into a KeyEncodingError.
func probeComparable(v any) {
	m := map[any]struct{}{v: {}}
	_ = m
}

// Raw keys directly on the canonicalized argument tuple: fast, but
// requires the arguments to be comparable (Go's map/struct equality
// rules — a "hashable" requirement). Non-comparable arguments
// surface as a KeyEncodingError; Safe-wrapped decorators recover from
// the runtime panic a non-comparable map key assignment would
// otherwise raise.
type Raw struct{ Opt Options }

func (r Raw) Variant() string { return "raw" }

func (r Raw) Encode(args []any, named map[string]any) (key any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			key = nil
			err = &herrors.KeyEncodingError{Variant: r.Variant(), Err: fmt.Errorf("%v", rec)}
		}
	}()
	return rawKey(canonicalize(args, named, r.Opt)), nil
}

// Hash keys on a fixed-width fingerprint of the canonicalized tuple.
// Collisions are possible in principle but the digest width (64 bits
// via codec.Fingerprint) uses a non-cryptographic
// hash usage.
type Hash struct{ Opt Options }

func (h Hash) Variant() string { return "hash" }

func (h Hash) Encode(args []any, named map[string]any) (any, error) {
	canon := canonicalize(args, named, h.Opt)
	fp, err := codec.Fingerprint(canon)
	if err != nil {
		return nil, &herrors.KeyEncodingError{Variant: h.Variant(), Err: err}
	}
	return fp, nil
}

// String keys on the stable textual rendering of the canonicalized
// tuple, via codec.Stringify.
type String struct{ Opt Options }

func (s String) Variant() string { return "string" }

func (s String) Encode(args []any, named map[string]any) (any, error) {
	canon := canonicalize(args, named, s.Opt)
	return codec.Stringify(canon), nil
}

// Pickle keys on a serialized encoding of the canonicalized tuple via a
// configurable Codec (default JSON). The
// resulting byte string is itself used as the key (as a Go string,
// which is comparable).
type Pickle struct {
	Opt   Options
	Codec codec.Codec
}

func (p Pickle) Variant() string { return "pickle" }

func (p Pickle) Encode(args []any, named map[string]any) (any, error) {
	canon := canonicalize(args, named, p.Opt)
	c := p.Codec
	if c == nil {
		c = codec.DefaultCodec()
	}
	data, err := c.Marshal(canon)
	if err != nil {
		return nil, &herrors.KeyEncodingError{Variant: p.Variant(), Err: err}
	}
	return string(data), nil
}

// chained composes two keymaps left-to-right: the outer keymap's output
// is fed as the sole positional argument to the inner keymap, mirroring
// the composition rule "A then B": apply A, then feed its result
// through B.
type chained struct {
	outer Keymap
	inner Keymap
}

// Then composes m with next: Then produces a Keymap equivalent to
// applying m first and then using the result as the sole input to next.
// This lets a fast Raw pre-pass feed a Hash or String variant, matching
// "A -> B then B -> C" composability.
func Then(m, next Keymap) Keymap {
	return chained{outer: m, inner: next}
}

func (c chained) Variant() string {
	return fmt.Sprintf("%s+%s", c.outer.Variant(), c.inner.Variant())
}

func (c chained) Encode(args []any, named map[string]any) (any, error) {
	mid, err := c.outer.Encode(args, named)
	if err != nil {
		return nil, err
	}
	return c.inner.Encode([]any{mid}, nil)
}
