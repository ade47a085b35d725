package decorator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/hoard/pkg/cache"
	"github.com/yourusername/hoard/pkg/keymap"
)

func TestCallCachesResultOnSecondInvocation(t *testing.T) {
	calls := 0
	square := func(n int) int {
		calls++
		return n * n
	}

	d, err := New(square, keymap.Raw{}, cache.New(cache.Config{Capacity: 10}), []string{"n"}, nil)
	require.NoError(t, err)

	out1, err := d.Call(4)
	require.NoError(t, err)
	assert.Equal(t, []any{16}, out1)

	out2, err := d.Call(4)
	require.NoError(t, err)
	assert.Equal(t, []any{16}, out2)

	assert.Equal(t, 1, calls, "second call must be served from cache")
	assert.Equal(t, int64(1), d.Stats().Hits)
	assert.Equal(t, int64(1), d.Stats().Misses)
}

func TestCallRespectsIgnoreList(t *testing.T) {
	calls := 0
	f := func(n int, debug bool) int {
		calls++
		return n
	}

	d, err := New(f, keymap.Raw{Opt: keymap.Options{Ignore: []string{"debug"}}},
		cache.New(cache.Config{Capacity: 10}), []string{"n", "debug"}, []string{"debug"})
	require.NoError(t, err)

	_, err = d.Call(1, true)
	require.NoError(t, err)
	_, err = d.Call(1, false)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "debug flag must not affect the cache key")
}

func TestKeyComputesWithoutInvoking(t *testing.T) {
	calls := 0
	f := func(n int) int {
		calls++
		return n
	}
	d, err := New(f, keymap.Raw{}, cache.New(cache.Config{Capacity: 10}), []string{"n"}, nil)
	require.NoError(t, err)

	_, err = d.Key(5)
	require.NoError(t, err)
	assert.Equal(t, 0, calls)
}

func TestSafeCallRecoversFromNonComparableKey(t *testing.T) {
	calls := 0
	sumSlice := func(xs []int) int {
		calls++
		total := 0
		for _, x := range xs {
			total += x
		}
		return total
	}

	d, err := New(sumSlice, panickyKeymap{}, cache.New(cache.Config{Capacity: 10}), []string{"xs"}, nil)
	require.NoError(t, err)

	out, err := d.SafeCall([]int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []any{6}, out)
	assert.Equal(t, 1, calls)
	assert.Equal(t, int64(1), d.Stats().Errors)
}

func TestSafeCallBypassesCacheForRealNonComparableArgument(t *testing.T) {
	calls := 0
	sumSlice := func(xs []int) int {
		calls++
		total := 0
		for _, x := range xs {
			total += x
		}
		return total
	}

	d, err := New(sumSlice, keymap.Raw{}, cache.New(cache.Config{Capacity: 10}), []string{"xs"}, nil)
	require.NoError(t, err)

	xs := []int{1, 2}
	out1, err := d.SafeCall(xs)
	require.NoError(t, err)
	assert.Equal(t, []any{3}, out1)

	out2, err := d.SafeCall(xs)
	require.NoError(t, err)
	assert.Equal(t, []any{3}, out2)

	assert.Equal(t, 2, calls, "a non-comparable argument must bypass the cache, invoking the function on every call")
	assert.Equal(t, int64(2), d.Stats().Errors)
	assert.Equal(t, int64(0), d.Stats().Misses)
	assert.Equal(t, int64(0), d.Stats().Hits)
	assert.Equal(t, 0, d.Cache().Len(), "no entry should ever be cached for an unencodable key")
}

type panickyKeymap struct{}

func (panickyKeymap) Variant() string { return "panicky" }
func (panickyKeymap) Encode([]any, map[string]any) (any, error) {
	panic("non-comparable key")
}
