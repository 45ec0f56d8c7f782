//go:build !unix

package alloc

import "fmt"

// PageBacked is unavailable on non-Unix targets (no portable anonymous
// mmap primitive without golang.org/x/sys); AllocAligned reports an error
// rather than silently falling back to a heap allocation, matching the
// teacher's own platform-unsupported convention in parallel_other.go's
// CloneThread.
type PageBacked struct{}

func NewPageBacked() *PageBacked { return &PageBacked{} }

func (p *PageBacked) AllocAligned(n, align int) ([]byte, error) {
	return nil, fmt.Errorf("alloc: PageBacked not supported on this platform")
}

func (p *PageBacked) FreeAligned(b []byte, align int) {}
