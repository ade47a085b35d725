package decorator

import (
	"errors"
	"fmt"

	"github.com/yourusername/hoard/pkg/herrors"
)

// SafeCall wraps Call so that any failure to encode a key — either a
// panic raised while canonicalizing it or inserting it into the
// underlying Cache's map (the runtime panic Go raises when a
// non-comparable value is used as a map key, the Raw keymap variant's
// failure mode), or a KeyEncodingError Call returns normally — bypasses
// the cache entirely: the decorator's error counter is incremented and
// the wrapped function is invoked directly, so the caller still gets a
// correct result even though nothing was cached. This never attempts
// the keymap's own string-variant fallback (that is keymap.Safe's
// concern, one layer down); SafeCall's contract is simply that an
// encoding failure at this layer never prevents the call itself from
// completing.
func (d *Decorator) SafeCall(args ...any) (result []any, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.errors++
			result, err = d.fallbackCall(args, fmt.Errorf("panic: %v", r))
		}
	}()

	result, err = d.Call(args...)
	var keyErr *herrors.KeyEncodingError
	if errors.As(err, &keyErr) {
		// d.Call already counted this encoding failure in d.errors.
		return d.fallbackCall(args, err)
	}
	return result, err
}

// fallbackCall invokes the wrapped function directly, bypassing the
// cache entirely: no cache entry is read or written, so this counts
// neither as a hit nor as a miss — only the encoding failure itself
// (already counted in d.errors by the caller) marks the call. causeErr
// is folded into the returned error only if the fallback invocation
// itself also fails; a successful fallback returns a nil error,
// matching the decorator's ordinary success contract.
func (d *Decorator) fallbackCall(args []any, causeErr error) ([]any, error) {
	result, callErr := d.binder.Call(args)
	if callErr != nil {
		return nil, &herrors.KeyEncodingError{Variant: d.keymap.Variant(), Err: fmt.Errorf("%v (then: %w)", causeErr, callErr)}
	}
	return result, nil
}
