// Package decorator binds a plain Go function to a Cache and Keymap,
// giving it a memoized call wrapper backed by a bounded, policy-driven
// cache. It uses Go's reflect package to bind an arbitrary function's
// argument list, since Go has no native variadic-by-name call protocol.
package decorator

import (
	"reflect"

	"github.com/yourusername/hoard/pkg/cache"
	"github.com/yourusername/hoard/pkg/herrors"
	"github.com/yourusername/hoard/pkg/keymap"
	"github.com/yourusername/hoard/pkg/signature"
)

// Decorator wraps a function with keymap -> cache hit -> archive
// promotion -> compute-on-miss semantics (specification §4.5). Call
// invokes the wrapped function with f's own signature; Decorator itself
// never assumes a particular arity, since the wrapped value is a
// reflect.Value under the hood.
type Decorator struct {
	fn      reflect.Value
	fnType  reflect.Type
	binder  *signature.Binder
	keymap  keymap.Keymap
	cache   *cache.Cache

	hits, misses, loads, errors int64
}

// New wraps fn (a Go function value) with km for key canonicalization
// and c as the backing Cache. paramNames and ignore are forwarded to
// signature.New to build the argument binder the ignore list needs.
func New(fn any, km keymap.Keymap, c *cache.Cache, paramNames []string, ignore []string) (*Decorator, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return nil, &herrors.InvariantViolation{Detail: "decorator.New requires a func value"}
	}
	binder, err := signature.New(fn, paramNames, ignore)
	if err != nil {
		return nil, err
	}
	return &Decorator{fn: v, fnType: v.Type(), binder: binder, keymap: km, cache: c}, nil
}

// Call runs the four-step protocol: canonicalize args into a key,
// check the in-memory Cache, fall back to the bound Archive via
// Cache.Load, and on a double miss invoke the wrapped function and
// insert its result.
func (d *Decorator) Call(args ...any) ([]any, error) {
	keyArgs, err := d.binder.Bind(args)
	if err != nil {
		return nil, err
	}
	key, err := d.keymap.Encode(keyArgs, nil)
	if err != nil {
		d.errors++
		return nil, err
	}

	if v, ok := d.cache.Get(key); ok {
		d.hits++
		return v.([]any), nil
	}

	if v, ok, err := d.cache.Load(key); err != nil {
		return nil, err
	} else if ok {
		d.loads++
		return v.([]any), nil
	}

	d.misses++
	result, err := d.binder.Call(args)
	if err != nil {
		return nil, err
	}
	if err := d.cache.Put(key, result); err != nil {
		return result, err
	}
	return result, nil
}

// Cache returns the bound Cache, for direct inspection or Sync/Drop.
func (d *Decorator) Cache() *cache.Cache { return d.cache }

// Key computes (without invoking the function or touching the cache)
// the canonical key args would produce, useful for inspection/tests.
func (d *Decorator) Key(args ...any) (any, error) {
	keyArgs, err := d.binder.Bind(args)
	if err != nil {
		return nil, err
	}
	return d.keymap.Encode(keyArgs, nil)
}

// Stats returns the decorator's own hit/miss/load/error counters,
// kept apart from the bound Cache's counters: a call served by an
// archive promotion counts here as a Load only (the Cache counts it as
// both a miss and a load), and Errors counts key-encoding failures,
// which never reach the Cache.
type Stats struct {
	Hits, Misses, Loads, Errors int64
}

func (d *Decorator) Stats() Stats {
	return Stats{Hits: d.hits, Misses: d.misses, Loads: d.loads, Errors: d.errors}
}
