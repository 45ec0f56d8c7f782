package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgWordCountRoundsUpToFour(t *testing.T) {
	assert.EqualValues(t, 0, ArgWordCount(0))
	assert.EqualValues(t, 1, ArgWordCount(1))
	assert.EqualValues(t, 1, ArgWordCount(4))
	assert.EqualValues(t, 2, ArgWordCount(5))
}

func TestPackUnpackArgWordsRoundTrip(t *testing.T) {
	srcs := []uint32{1, 2, 3, 4, 5}
	words := PackArgWords(srcs)
	assert.Len(t, words, 2)
	assert.Equal(t, srcs, UnpackArgWords(words, uint32(len(srcs))))
}

func TestCallImmediateNoReturnEncoding(t *testing.T) {
	words := NewCallImmediateNoReturn(7, []uint32{10, 11})
	assert.Len(t, words, 2+ArgWordCount(2))
	assert.Equal(t, CallImmediateNoReturn, words[0].Op())
	assert.EqualValues(t, 2, words[0].CallArgCount())
	assert.EqualValues(t, 7, uint64(words[1]))
	assert.Equal(t, []uint32{10, 11}, UnpackArgWords(words[2:], 2))
}

func TestCallSrcNoReturnEncoding(t *testing.T) {
	words := NewCallSrcNoReturn(3, []uint32{8})
	assert.Equal(t, CallSrcNoReturn, words[0].Op())
	assert.EqualValues(t, 3, words[0].CallSrcNoReturnSrc())
	assert.EqualValues(t, 1, words[0].CallSrcNoReturnArgCount())
	assert.Equal(t, []uint32{8}, UnpackArgWords(words[1:], 1))
}

func TestCallImmediateWithReturnEncoding(t *testing.T) {
	words := NewCallImmediateWithReturn(42, 5, []uint32{1, 2, 3})
	assert.Equal(t, CallImmediateWithReturn, words[0].Op())
	assert.EqualValues(t, 3, words[0].CallImmediateWithReturnArgCount())
	assert.EqualValues(t, 5, words[0].CallImmediateWithReturnRetDst())
	assert.EqualValues(t, 42, uint64(words[1]))
}

func TestCallSrcWithReturnEncoding(t *testing.T) {
	words := NewCallSrcWithReturn(9, 6, []uint32{1})
	assert.Equal(t, CallSrcWithReturn, words[0].Op())
	assert.EqualValues(t, 9, words[0].CallSrcWithReturnSrc())
	assert.EqualValues(t, 1, words[0].CallSrcWithReturnArgCount())
	assert.EqualValues(t, 6, words[0].CallSrcWithReturnRetDst())
}
