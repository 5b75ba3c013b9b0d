package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := New[int]()
	require.NoError(t, r.Register("a", 1))
	require.NoError(t, r.Register("b", 2))

	v, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistryReplaceKeepsPosition(t *testing.T) {
	r := New[int]()
	require.NoError(t, r.Register("a", 1))
	require.NoError(t, r.Register("b", 2))
	require.NoError(t, r.Register("a", 99))

	assert.Equal(t, []string{"a", "b"}, r.Names())
	v, _ := r.Get("a")
	assert.Equal(t, 99, v)
	assert.Equal(t, 2, r.Count())
}

func TestRegistryEmptyNameRejected(t *testing.T) {
	r := New[int]()
	err := r.Register("", 1)
	assert.Error(t, err)
}

func TestRegistryRemove(t *testing.T) {
	r := New[int]()
	require.NoError(t, r.Register("a", 1))
	require.NoError(t, r.Remove("a"))
	_, ok := r.Get("a")
	assert.False(t, ok)
	assert.Error(t, r.Remove("a"))
}

func TestRegistryInsertionOrder(t *testing.T) {
	r := New[int]()
	for i, name := range []string{"z", "a", "m"} {
		require.NoError(t, r.Register(name, i))
	}
	assert.Equal(t, []string{"z", "a", "m"}, r.Names())
}
