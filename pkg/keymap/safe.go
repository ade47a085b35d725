package keymap

import (
	"fmt"

	"github.com/yourusername/hoard/pkg/herrors"
)

// Safe wraps a Keymap so that a failure to encode a key — either a
// panic (most commonly Go's runtime panic on assigning a non-comparable
// value as a map key, the Raw variant's failure mode) or a returned
// error — is first retried against the String variant before being
// surfaced. String's encoding only requires fmt.Sprintf-ability, so it
// succeeds in the common case where Raw fails on a non-comparable
// argument. Only when the String retry also fails is the call treated
// as genuinely uncacheable and an error returned to the caller.
type Safe struct {
	Keymap Keymap
}

func (s Safe) Variant() string { return "safe(" + s.Keymap.Variant() + ")" }

func (s Safe) Encode(args []any, named map[string]any) (key any, err error) {
	key, err = s.encodeWrapped(args, named)
	if err == nil {
		return key, nil
	}
	fallback, fbErr := String{}.Encode(args, named)
	if fbErr != nil {
		return nil, &herrors.KeyEncodingError{Variant: s.Variant(), Err: fmt.Errorf("%v (string fallback: %w)", err, fbErr)}
	}
	return fallback, nil
}

// encodeWrapped invokes the wrapped Keymap, converting any panic (the
// Raw variant's native failure mode for non-comparable arguments) into
// a returned error so Encode can uniformly decide whether to retry.
func (s Safe) encodeWrapped(args []any, named map[string]any) (key any, err error) {
	defer func() {
		if r := recover(); r != nil {
			key = nil
			err = &herrors.KeyEncodingError{Variant: s.Keymap.Variant(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return s.Keymap.Encode(args, named)
}
