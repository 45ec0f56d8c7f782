// Package syncobj implements the runtime's synchronized reference cell and
// the three handle types built over it — Owned[T], Shared[T], Weak[T]
// (§3, §4.6): a single cache-line-aligned allocation holding an RWLock, an
// atomic strong count, an atomic weak count, an expired flag, and the
// payload, with handles tracking only which kind of reference they are.
package syncobj

import (
	"sync/atomic"
	"unsafe"

	"github.com/xyproto/synclang/rwlock"
)

// cacheLineSize matches the alignment the source's SyncObjVal applies via
// alignas(ALLOC_CACHE_ALIGN), so that a cell's lock and counters never
// false-share a cache line with a neighboring allocation.
const cacheLineSize = 64

// cell is the shared backing allocation for Owned[T]/Shared[T]/Weak[T]: one
// per distinct value, regardless of how many handles reference it. It is
// never copied; all three handle kinds hold a pointer to the same cell.
type cell[T any] struct {
	lock     *rwlock.RWLock
	strong   int64
	weak     int64
	expired  int32
	destruct func(*T)
	value    T
	_        [cacheLineSize]byte // pad so neighboring cells don't share a line
}

func newCell[T any](v T, destruct func(*T)) *cell[T] {
	c := &cell[T]{lock: rwlock.New(), value: v, destruct: destruct}
	atomic.StoreInt64(&c.strong, 1)
	return c
}

// destroyHeldObject atomically marks the cell expired and runs its
// destructor exactly once (§4.5 destroy_held_object): the strong count can
// only transition to zero a single time, so the one caller that observes
// that transition is the only caller that ever reaches here.
func (c *cell[T]) destroyHeldObject() {
	atomic.StoreInt32(&c.expired, 1)
	if c.destruct != nil {
		c.destruct(&c.value)
	}
}

func (c *cell[T]) addStrong() int64 { return atomic.AddInt64(&c.strong, 1) }
func (c *cell[T]) removeStrong() int64 {
	n := atomic.AddInt64(&c.strong, -1)
	if n == 0 {
		c.destroyHeldObject()
	}
	return n
}
func (c *cell[T]) addWeak() int64    { return atomic.AddInt64(&c.weak, 1) }
func (c *cell[T]) removeWeak() int64 { return atomic.AddInt64(&c.weak, -1) }
func (c *cell[T]) isExpired() bool   { return atomic.LoadInt32(&c.expired) != 0 }
func (c *cell[T]) noWeakRefs() bool  { return atomic.LoadInt64(&c.weak) == 0 }

// Owned is the single-writer handle to a value: exactly one Owned[T]
// exists for a given cell at a time, and dropping it (Destroy) destroys
// the underlying value once no Shared handles remain referencing the cell
// (weak references keep the *allocation* alive to detect expiry, but not
// the value).
type Owned[T any] struct {
	c *cell[T]
}

func NewOwned[T any](v T) Owned[T] {
	return Owned[T]{c: newCell(v, nil)}
}

// NewOwnedWithDestructor is NewOwned, additionally registering destruct to
// run exactly once when the cell's last strong reference is dropped (§4.5
// destroy_held_object, §8 "runs the destructor exactly once").
func NewOwnedWithDestructor[T any](v T, destruct func(*T)) Owned[T] {
	return Owned[T]{c: newCell(v, destruct)}
}

// Get returns a pointer to the guarded value under an exclusive lock; the
// caller must call Unlock when done.
func (o Owned[T]) Get() *T {
	o.c.lock.LockExclusive()
	return &o.c.value
}

func (o Owned[T]) Unlock() {
	o.c.lock.UnlockExclusive()
}

// Share creates a Shared[T] handle to the same cell, incrementing the
// strong count.
func (o Owned[T]) Share() Shared[T] {
	o.c.addStrong()
	return Shared[T]{c: o.c}
}

// MakeWeak creates a Weak[T] handle that observes expiry without keeping
// the value alive.
func (o Owned[T]) MakeWeak() Weak[T] {
	o.c.addWeak()
	return Weak[T]{c: o.c}
}

// Destroy releases the Owned handle's strong reference. Once the strong
// count reaches zero the cell is marked expired; its backing allocation is
// only released once no Weak handles remain (detail.syncObjNoWeakRefs in
// the source).
func (o Owned[T]) Destroy() {
	o.c.removeStrong()
}

// Shared is a reference-counted handle sharing ownership of the value with
// any number of other Shared[T]/Owned[T] handles to the same cell.
type Shared[T any] struct {
	c *cell[T]
}

func (s Shared[T]) Lock() *T {
	s.c.lock.LockShared()
	return &s.c.value
}

func (s Shared[T]) Unlock() {
	s.c.lock.UnlockShared()
}

func (s Shared[T]) Clone() Shared[T] {
	s.c.addStrong()
	return Shared[T]{c: s.c}
}

func (s Shared[T]) MakeWeak() Weak[T] {
	s.c.addWeak()
	return Weak[T]{c: s.c}
}

func (s Shared[T]) Destroy() {
	s.c.removeStrong()
}

func (s Shared[T]) Expired() bool {
	return s.c.isExpired()
}

// Weak is a non-owning handle that can check whether its referent has
// expired and, if not, upgrade back to a Shared handle.
type Weak[T any] struct {
	c *cell[T]
}

func (w Weak[T]) Expired() bool {
	return w.c.isExpired()
}

// Upgrade returns a Shared[T] handle if the referent hasn't expired, or
// the zero value and false otherwise.
func (w Weak[T]) Upgrade() (Shared[T], bool) {
	if w.c.isExpired() {
		return Shared[T]{}, false
	}
	w.c.addStrong()
	if w.c.isExpired() {
		// Lost the race: strong count had already reached zero between
		// the check and the increment.
		w.c.removeStrong()
		return Shared[T]{}, false
	}
	return Shared[T]{c: w.c}, true
}

func (w Weak[T]) Destroy() {
	w.c.removeWeak()
}

// ValueSize reports the cell's padded size in bytes, for diagnostics and
// tests verifying cache-line alignment intent.
func ValueSize[T any]() uintptr {
	var c cell[T]
	return unsafe.Sizeof(c)
}
