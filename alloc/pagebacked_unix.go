//go:build unix

// PageBacked allocator for Unix-like targets, grounded on the teacher's
// own build-tag split for platform-specific memory management
// (hotreload_unix.go / hotreload_other.go, parallel_other.go).
package alloc

import (
	"fmt"
	"syscall"

	"github.com/xyproto/synclang/numeric"
)

// PageBacked allocates whole pages via mmap and serves aligned
// allocations out of them, for callers that want memory the OS can
// reclaim independently of the Go garbage collector (e.g. a stack.Node
// backing buffer sized well beyond what a single bump arena should hold).
type PageBacked struct {
	pages [][]byte
}

func NewPageBacked() *PageBacked {
	return &PageBacked{}
}

// AllocAligned maps a fresh region sized to at least n+align bytes (so an
// aligned slice of length n can always be carved out of it) and returns
// the aligned sub-slice.
func (p *PageBacked) AllocAligned(n, align int) ([]byte, error) {
	if n <= 0 {
		n = 1
	}
	mapSize := n + align
	mem, err := syscall.Mmap(-1, 0, mapSize, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_ANON|syscall.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("alloc: mmap failed: %w", err)
	}
	p.pages = append(p.pages, mem)

	base := addrOf(mem)
	aligned := numeric.AlignUp(base, uintptr(align))
	offset := int(aligned - base)
	return mem[offset : offset+n : offset+n], nil
}

// FreeAligned unmaps the page backing b. b must be a slice previously
// returned by AllocAligned on this allocator (or a sub-slice sharing its
// backing array start region); the implementation unmaps the whole
// tracked page, not just b's span.
func (p *PageBacked) FreeAligned(b []byte, align int) {
	for i, page := range p.pages {
		if sameBacking(page, b) {
			syscall.Munmap(page)
			p.pages = append(p.pages[:i], p.pages[i+1:]...)
			return
		}
	}
}

func sameBacking(page, b []byte) bool {
	if len(page) == 0 || len(b) == 0 {
		return false
	}
	return addrOf(page) <= addrOf(b) && addrOf(b) < addrOf(page)+uintptr(len(page))
}
