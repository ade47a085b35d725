package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCodecRoundTrip(t *testing.T) {
	c := JSONCodec{}
	data, err := c.Marshal(map[string]any{"a": 1.0, "b": "x"})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, 1.0, out["a"])
	assert.Equal(t, "x", out["b"])
	assert.Equal(t, "json", c.Name())
}

func TestGobCodecRoundTrip(t *testing.T) {
	c := GobCodec{}
	data, err := c.Marshal([]int{1, 2, 3})
	require.NoError(t, err)

	var out []int
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, []int{1, 2, 3}, out)
}

func TestStringCodecRequiresStringPointer(t *testing.T) {
	c := StringCodec{}
	data, err := c.Marshal(42)
	require.NoError(t, err)
	assert.Equal(t, "42", string(data))

	var i int
	err = c.Unmarshal(data, &i)
	assert.Error(t, err)

	var s string
	require.NoError(t, c.Unmarshal(data, &s))
	assert.Equal(t, "42", s)
}

func TestByNameUnknown(t *testing.T) {
	_, err := ByName("does-not-exist")
	assert.Error(t, err)
}

func TestFingerprintStableAcrossNaNBitPatterns(t *testing.T) {
	nan1 := math.Float64frombits(0x7ff8000000000001)
	nan2 := math.Float64frombits(0x7ff80000000f0000)

	f1, err := Fingerprint(nan1)
	require.NoError(t, err)
	f2, err := Fingerprint(nan2)
	require.NoError(t, err)

	assert.Equal(t, f1, f2, "distinct NaN bit patterns must fingerprint identically")
}

func TestFingerprintStableForEqualMaps(t *testing.T) {
	a := map[string]any{"x": 1.0, "y": 2.0}
	b := map[string]any{"y": 2.0, "x": 1.0}

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)

	assert.Equal(t, fa, fb)
}

func TestStringifySortsMapKeys(t *testing.T) {
	a := Stringify(map[string]any{"b": 1.0, "a": 2.0})
	b := Stringify(map[string]any{"a": 2.0, "b": 1.0})
	assert.Equal(t, a, b)
}
