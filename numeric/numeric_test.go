package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextPowerOfTwo(t *testing.T) {
	assert.Equal(t, 1, NextPowerOfTwo(0))
	assert.Equal(t, 1, NextPowerOfTwo(1))
	assert.Equal(t, 128, NextPowerOfTwo(100))
	assert.Equal(t, 256, NextPowerOfTwo(129))
}

func TestAlignUp(t *testing.T) {
	assert.EqualValues(t, 0, AlignUp(0, 8))
	assert.EqualValues(t, 8, AlignUp(1, 8))
	assert.EqualValues(t, 16, AlignUp(9, 8))
	assert.EqualValues(t, 5, AlignUp(5, 1))
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, 3, Min(3, 7))
	assert.Equal(t, 7, Max(3, 7))
}
