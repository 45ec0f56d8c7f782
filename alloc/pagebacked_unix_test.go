//go:build unix

package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageBackedAllocAlignedReturnsUsableSlice(t *testing.T) {
	p := NewPageBacked()
	b, err := p.AllocAligned(4096, 64)
	require.NoError(t, err)
	assert.Len(t, b, 4096)
	assert.Zero(t, int(addrOf(b)) % 64)

	b[0] = 0xFF
	assert.Equal(t, byte(0xFF), b[0])
}

func TestPageBackedFreeAlignedUnmapsTrackedPage(t *testing.T) {
	p := NewPageBacked()
	b, err := p.AllocAligned(4096, 8)
	require.NoError(t, err)
	p.FreeAligned(b, 8)
	assert.Empty(t, p.pages)
}
