package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaAllocAlignedBumpsCursor(t *testing.T) {
	a := NewArena(64)
	b1, err := a.AllocAligned(8, 8)
	require.NoError(t, err)
	assert.Len(t, b1, 8)

	b2, err := a.AllocAligned(8, 8)
	require.NoError(t, err)
	assert.Len(t, b2, 8)
	assert.Equal(t, 16, a.Used())
}

func TestArenaAllocGrowsPastInitialCapacity(t *testing.T) {
	a := NewArena(8)
	b, err := a.AllocAligned(64, 8)
	require.NoError(t, err)
	assert.Len(t, b, 64)
}

func TestArenaResetRewindsCursor(t *testing.T) {
	a := NewArena(64)
	_, err := a.AllocAligned(32, 8)
	require.NoError(t, err)
	assert.Equal(t, 32, a.Used())

	a.Reset()
	assert.Equal(t, 0, a.Used())
}

func TestArenaAllocRespectsAlignment(t *testing.T) {
	a := NewArena(64)
	_, err := a.AllocAligned(3, 1)
	require.NoError(t, err)

	b, err := a.AllocAligned(8, 8)
	require.NoError(t, err)
	assert.Len(t, b, 8)
}
