package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawEncodeSingleton(t *testing.T) {
	r := Raw{}
	k1, err := r.Encode([]any{1}, nil)
	require.NoError(t, err)
	k2, err := r.Encode([]any{1}, nil)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	k3, err := r.Encode([]any{2}, nil)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)
}

func TestRawEncodeTypedDistinguishesIntFromFloat(t *testing.T) {
	r := Raw{Opt: Options{Typed: true}}
	kInt, err := r.Encode([]any{1}, nil)
	require.NoError(t, err)
	kFloat, err := r.Encode([]any{1.0}, nil)
	require.NoError(t, err)
	assert.NotEqual(t, kInt, kFloat)
}

func TestRawEncodeIgnoresNamedArg(t *testing.T) {
	r := Raw{Opt: Options{Ignore: []string{"debug"}}}
	k1, err := r.Encode([]any{1}, map[string]any{"debug": true})
	require.NoError(t, err)
	k2, err := r.Encode([]any{1}, map[string]any{"debug": false})
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}

func TestHashEncodeStableAndDistinct(t *testing.T) {
	h := Hash{}
	k1, err := h.Encode([]any{"a", "b"}, nil)
	require.NoError(t, err)
	k2, err := h.Encode([]any{"a", "b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	k3, err := h.Encode([]any{"a", "c"}, nil)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)
}

func TestStringEncodeNamedArgsSortedByName(t *testing.T) {
	s := String{}
	k1, err := s.Encode(nil, map[string]any{"b": 1, "a": 2})
	require.NoError(t, err)
	k2, err := s.Encode(nil, map[string]any{"a": 2, "b": 1})
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}

func TestPickleEncodeProducesString(t *testing.T) {
	p := Pickle{}
	k, err := p.Encode([]any{1, "x"}, nil)
	require.NoError(t, err)
	_, ok := k.(string)
	assert.True(t, ok)
}

func TestThenComposesLeftToRight(t *testing.T) {
	// Flat: true makes Raw produce a bare scalar for a single argument,
	// which is what lets the composed chain's intermediate key line up
	// with the inner keymap applied directly — the default (Flat:
	// false) would feed Hash a structuredKey instead of the scalar 42.
	composed := Then(Raw{Opt: Options{Flat: true}}, Hash{})
	k, err := composed.Encode([]any{42}, nil)
	require.NoError(t, err)

	direct, err := Hash{}.Encode([]any{42}, nil)
	require.NoError(t, err)
	assert.Equal(t, direct, k)
	assert.Contains(t, composed.Variant(), "raw+hash")
}

func TestCanonicalizeStructuredPairByDefault(t *testing.T) {
	r := Raw{}
	k1, err := r.Encode([]any{1, 2}, map[string]any{"a": "x"})
	require.NoError(t, err)
	k2, err := r.Encode([]any{1, 2}, map[string]any{"a": "x"})
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
	_, ok := k1.(structuredKey)
	assert.True(t, ok, "zero-value Options should produce a structured pair, not a flat scalar/sequence")
}

func TestSafeRecoversFromPanicViaStringFallback(t *testing.T) {
	// panickyKeymap always panics, but String{}.Encode never fails, so
	// Safe's retry succeeds and the call is not treated as uncacheable.
	s := Safe{Keymap: panickyKeymap{}}
	k, err := s.Encode(nil, nil)
	require.NoError(t, err)
	_, ok := k.(string)
	assert.True(t, ok)
}

func TestSafeFallsBackToStringOnRawPanic(t *testing.T) {
	// A non-comparable positional argument makes Raw panic on map-key
	// insertion; Safe should recover and retry via the String variant
	// instead of surfacing an error, since a slice stringifies fine.
	s := Safe{Keymap: Raw{}}
	k, err := s.Encode([]any{[]int{1, 2}}, nil)
	require.NoError(t, err)
	_, ok := k.(string)
	assert.True(t, ok)

	want, err := String{}.Encode([]any{[]int{1, 2}}, nil)
	require.NoError(t, err)
	assert.Equal(t, want, k)
}

type panickyKeymap struct{}

func (panickyKeymap) Variant() string { return "panicky" }
func (panickyKeymap) Encode([]any, map[string]any) (any, error) {
	panic("boom")
}
