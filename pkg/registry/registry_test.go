package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/hoard/pkg/cache"
	"github.com/yourusername/hoard/pkg/decorator"
	"github.com/yourusername/hoard/pkg/keymap"
)

func newTestDecorator(t *testing.T) *decorator.Decorator {
	t.Helper()
	f := func(n int) int { return n }
	d, err := decorator.New(f, keymap.Raw{}, cache.New(cache.Config{Capacity: 10}), []string{"n"}, nil)
	require.NoError(t, err)
	return d
}

func TestRegisterAndGet(t *testing.T) {
	r := New()
	d := newTestDecorator(t)
	require.NoError(t, r.Register("square", d))

	got, ok := r.Get("square")
	require.True(t, ok)
	assert.Same(t, d, got)
}

func TestRegisterDuplicateNameErrors(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("a", newTestDecorator(t)))
	err := r.Register("a", newTestDecorator(t))
	assert.Error(t, err)
}

func TestReplaceOverwrites(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("a", newTestDecorator(t)))
	d2 := newTestDecorator(t)
	r.Replace("a", d2)

	got, ok := r.Get("a")
	require.True(t, ok)
	assert.Same(t, d2, got)
}

func TestRegisterAnonymousAssignsUniqueName(t *testing.T) {
	r := New()
	n1 := r.RegisterAnonymous(newTestDecorator(t))
	n2 := r.RegisterAnonymous(newTestDecorator(t))
	assert.NotEqual(t, n1, n2)
	assert.Len(t, r.Names(), 2)
}

func TestUnregisterRemovesEntry(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("a", newTestDecorator(t)))
	r.Unregister("a")
	_, ok := r.Get("a")
	assert.False(t, ok)
}
