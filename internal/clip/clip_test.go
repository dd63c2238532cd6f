package clip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryReadWrite(t *testing.T) {
	m := NewMemory("hello")

	got, err := m.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	require.NoError(t, m.WriteText("world"))
	got, err = m.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "world", got)
	assert.Equal(t, 2, m.Reads())
}

func TestMemoryLocked(t *testing.T) {
	m := NewMemory("hello")
	m.Lock()

	_, err := m.ReadText()
	assert.ErrorIs(t, err, ErrAccess)
	assert.ErrorIs(t, m.WriteText("x"), ErrAccess)

	m.Unlock()
	got, err := m.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestHeadless(t *testing.T) {
	var a Accessor = Headless{}
	_, err := a.ReadText()
	assert.ErrorIs(t, err, ErrAccess)
	assert.NoError(t, a.WriteText("ignored"))
	assert.Equal(t, "headless (no-op)", a.Name())
}
