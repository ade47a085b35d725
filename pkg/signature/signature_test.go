package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func add(a, b int) int { return a + b }

func sum(prefix string, nums ...int) int {
	total := 0
	for _, n := range nums {
		total += n
	}
	return total
}

func TestBindDropsIgnoredPositions(t *testing.T) {
	b, err := New(add, []string{"a", "b"}, []string{"1"})
	require.NoError(t, err)

	kept, err := b.Bind([]any{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []any{1}, kept)
}

func TestBindDropsIgnoredNames(t *testing.T) {
	b, err := New(add, []string{"a", "b"}, []string{"a"})
	require.NoError(t, err)

	kept, err := b.Bind([]any{10, 20})
	require.NoError(t, err)
	assert.Equal(t, []any{20}, kept)
}

func TestBindArityMismatch(t *testing.T) {
	b, err := New(add, []string{"a", "b"}, nil)
	require.NoError(t, err)

	_, err = b.Bind([]any{1})
	assert.Error(t, err)
}

func TestBindVariadicMinArity(t *testing.T) {
	b, err := New(sum, []string{"prefix"}, nil)
	require.NoError(t, err)

	_, err = b.Bind([]any{})
	assert.Error(t, err)

	kept, err := b.Bind([]any{"p", 1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []any{"p", 1, 2, 3}, kept)
}

func TestCallInvokesFunction(t *testing.T) {
	b, err := New(add, []string{"a", "b"}, nil)
	require.NoError(t, err)

	out, err := b.Call([]any{3, 4})
	require.NoError(t, err)
	assert.Equal(t, []any{7}, out)
}
