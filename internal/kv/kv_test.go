package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetMissing(t *testing.T) {
	_, err := NewMemoryStore().Get(context.Background(), "cart")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "a", []byte("1")))
	require.NoError(t, s.Set(ctx, "b", []byte("2")))

	v, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	require.NoError(t, s.Delete(ctx, "a", "b", "missing"))

	_, err = s.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	in := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", in))
	in[0] = 'x'

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(v))
}

func TestNamespace_IsolatesKeys(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryStore()
	first := Namespace(base, "s1")
	second := Namespace(base, "s2")

	require.NoError(t, first.Set(ctx, "cart", []byte("one")))
	require.NoError(t, second.Set(ctx, "cart", []byte("two")))

	v, err := first.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, "one", string(v))

	raw, err := base.Get(ctx, "s2:cart")
	require.NoError(t, err)
	assert.Equal(t, "two", string(raw))

	require.NoError(t, first.Delete(ctx, "cart"))
	_, err = first.Get(ctx, "cart")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = second.Get(ctx, "cart")
	assert.NoError(t, err)
}
