// Package signature uses Go's reflect package to bind an arbitrary
// wrapped function's argument list: given a concrete call, produce the
// canonical flat argument sequence a keymap should encode, after
// applying an ignore list of argument names or positions that must not
// participate in the cache key.
package signature

import (
	"fmt"
	"reflect"
)

// Binder binds calls to a specific function's signature and applies an
// ignore list, producing the arguments a Keymap should see.
type Binder struct {
	fn       reflect.Value
	fnType   reflect.Type
	names    []string // best-effort parameter names, empty if unknown
	ignore   map[string]struct{}
	ignorePos map[int]struct{}
}

// New builds a Binder for fn, a Go function value, ignoring any
// parameter whose name or positional index (0-based) appears in ignore.
// A name is recognized only when paramNames supplies it — Go's reflect
// cannot recover parameter names from a function value, so callers that
// want name-based ignores must supply paramNames explicitly, one name
// per parameter position. Fields inside a struct argument are not
// inspected.
func New(fn any, paramNames []string, ignore []string) (*Binder, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return nil, fmt.Errorf("signature: New requires a func, got %T", fn)
	}
	b := &Binder{
		fn:        v,
		fnType:    v.Type(),
		names:     paramNames,
		ignore:    map[string]struct{}{},
		ignorePos: map[int]struct{}{},
	}
	nameIndex := map[string]int{}
	for i, n := range paramNames {
		nameIndex[n] = i
	}
	for _, tok := range ignore {
		if idx, ok := nameIndex[tok]; ok {
			b.ignore[tok] = struct{}{}
			b.ignorePos[idx] = struct{}{}
			continue
		}
		var idx int
		if _, err := fmt.Sscanf(tok, "%d", &idx); err == nil {
			b.ignorePos[idx] = struct{}{}
			continue
		}
		// Name with no known positional slot: remembered for exact-name
		// matching only, harmless if it never appears.
		b.ignore[tok] = struct{}{}
	}
	return b, nil
}

// NumIn returns the arity of the bound function, counting a trailing
// variadic parameter as one slot (mirroring reflect.Type.NumIn).
func (b *Binder) NumIn() int { return b.fnType.NumIn() }

// IsVariadic reports whether the bound function's final parameter is
// variadic.
func (b *Binder) IsVariadic() bool { return b.fnType.IsVariadic() }

// Bind validates args against the function's arity (respecting
// variadic functions) and returns the subsequence of args that survive
// the ignore list, in call order. It does not invoke the function.
func (b *Binder) Bind(args []any) ([]any, error) {
	n := b.fnType.NumIn()
	if b.fnType.IsVariadic() {
		if len(args) < n-1 {
			return nil, fmt.Errorf("signature: %d args passed to variadic func expecting at least %d", len(args), n-1)
		}
	} else if len(args) != n {
		return nil, fmt.Errorf("signature: %d args passed to func expecting %d", len(args), n)
	}

	kept := make([]any, 0, len(args))
	for i, a := range args {
		if _, skip := b.ignorePos[i]; skip {
			continue
		}
		if i < len(b.names) {
			if _, skip := b.ignore[b.names[i]]; skip {
				continue
			}
		}
		kept = append(kept, a)
	}
	return kept, nil
}

// Call invokes the bound function with args (the full, un-ignored
// argument list — the ignore list affects only the cache key via Bind,
// never the actual call) and returns its results as a slice, mirroring
// the wrapped function's return value.
func (b *Binder) Call(args []any) ([]any, error) {
	n := b.fnType.NumIn()
	if !b.fnType.IsVariadic() && len(args) != n {
		return nil, fmt.Errorf("signature: %d args passed to func expecting %d", len(args), n)
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		if a == nil {
			var want reflect.Type
			if b.fnType.IsVariadic() && i >= n-1 {
				want = b.fnType.In(n - 1).Elem()
			} else {
				want = b.fnType.In(i)
			}
			in[i] = reflect.Zero(want)
			continue
		}
		in[i] = reflect.ValueOf(a)
	}
	out := b.fn.Call(in)
	results := make([]any, len(out))
	for i, o := range out {
		results[i] = o.Interface()
	}
	return results, nil
}
