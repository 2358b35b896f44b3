package taunt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomIDRoundTrip(t *testing.T) {
	id, ok := MenuID(CustomID("abc"))
	require.True(t, ok)
	assert.Equal(t, "abc", id)

	for _, bad := range []string{"", "taunt:", "task_complete_yes", "abc"} {
		_, ok := MenuID(bad)
		assert.False(t, ok, bad)
	}
}

func TestRegistryAddGetRemove(t *testing.T) {
	reg := NewRegistry()
	m := NewMenu(MenuConfig{ID: "x", Question: Question{A: 2, B: 3}}, Deps{})

	reg.Add(m)
	assert.Equal(t, 1, reg.Len())

	got, err := reg.Get("x")
	require.NoError(t, err)
	assert.Same(t, m, got)

	_, err = reg.Get("y")
	assert.ErrorIs(t, err, ErrMenuNotFound)

	m.stop()
	assert.Equal(t, 0, reg.Len())

	// stopping twice is harmless
	m.stop()
	assert.Equal(t, 0, reg.Len())
}
