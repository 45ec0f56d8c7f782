// Package alloc implements the Allocator collaborator interface (§6): a
// source of aligned memory, plus two concrete implementations — a
// bump-allocating Arena and an mmap-backed PageBacked allocator. The stack
// package does not use it: stack Nodes are allocated with make whatever
// their size.
package alloc

import (
	"fmt"
	"unsafe"

	"github.com/xyproto/synclang/numeric"
)

// addrOf reports a byte slice's backing address, used by PageBacked to
// compute alignment padding and to recognize which tracked page a freed
// slice belongs to.
func addrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

// Allocator is the minimal contract of a backing memory source: aligned
// allocation and the matching free.
type Allocator interface {
	AllocAligned(n, align int) ([]byte, error)
	FreeAligned(b []byte, align int)
}

// Default sizes and growth parameters, carried over from the scoped-arena
// defaults used for game/demoscene-style workloads: generous initial
// sizes, gentle 1.3x growth so repeated growth doesn't waste much memory.
const (
	DefaultArenaSize = 1024 * 1024 // 1 MB

	arenaGrowthNumerator   = 13
	arenaGrowthDenominator = 10

	// MaxArenaSize bounds a single Arena's backing buffer (1 GB).
	MaxArenaSize = 1024 * 1024 * 1024
)

// Arena is a bump allocator: Alloc hands out successive slices from a
// single backing buffer and never frees individual allocations — only
// Reset (rewind to empty) or growing past capacity moves the cursor.
type Arena struct {
	buf  []byte
	used int
}

// NewArena creates an Arena with the given initial capacity, or
// DefaultArenaSize if size <= 0.
func NewArena(size int) *Arena {
	if size <= 0 {
		size = DefaultArenaSize
	}
	return &Arena{buf: make([]byte, size)}
}

// AllocAligned bumps the arena's cursor forward to the next multiple of
// align, then carves out n bytes. It grows the backing buffer by 1.3x
// (rounded up to fit the request) when there isn't enough room, up to
// MaxArenaSize.
func (a *Arena) AllocAligned(n, align int) ([]byte, error) {
	start := numeric.AlignUp(a.used, align)
	end := start + n
	if end > len(a.buf) {
		if err := a.grow(end); err != nil {
			return nil, err
		}
	}
	a.used = end
	return a.buf[start:end:end], nil
}

func (a *Arena) grow(need int) error {
	newSize := len(a.buf)
	if newSize == 0 {
		newSize = DefaultArenaSize
	}
	for newSize < need {
		next := newSize * arenaGrowthNumerator / arenaGrowthDenominator
		if next == newSize {
			next++
		}
		newSize = next
	}
	if newSize > MaxArenaSize {
		if need > MaxArenaSize {
			return fmt.Errorf("alloc: requested size %d exceeds MaxArenaSize %d", need, MaxArenaSize)
		}
		newSize = MaxArenaSize
	}
	grown := make([]byte, newSize)
	copy(grown, a.buf[:a.used])
	a.buf = grown
	return nil
}

// FreeAligned is a no-op for Arena: individual allocations are never
// freed, only the whole arena via Reset.
func (a *Arena) FreeAligned(b []byte, align int) {}

// Reset rewinds the arena to empty without releasing its backing buffer,
// so the next round of allocations can reuse the capacity.
func (a *Arena) Reset() {
	a.used = 0
}

// Used reports how many bytes are currently carved out of the arena.
func (a *Arena) Used() int { return a.used }
