// Package rwlock implements a reader/writer lock with shared-to-exclusive
// elevation (§4.6): a goroutine already holding a shared (read) lock may
// attempt to elevate it to an exclusive (write) lock in place, retaining
// its shared hold the whole time it waits. Because two readers can each be
// mid-elevation at once and neither can finish without the other releasing
// its own shared hold, elevation must detect that mutual wait and abort
// both attempts with a retryable deadlock error rather than block forever.
//
// There is no analogous API anywhere in the retrieval pack or the original
// source (which only wraps std::shared_mutex, a plain non-elevating
// reader/writer lock) — this package is built directly from the
// specification's own description of the required behavior (see
// DESIGN.md). Rather than delegate to sync.RWMutex, the lock keeps its own
// reader count, elevation-intent count, exclusive-owner token, exclusive
// re-entry count, and deadlock generation as explicit fields, since the
// elevation/deadlock contract needs to observe and mutate all of them
// together under one mutex.
package rwlock

import (
	"sync"

	"github.com/xyproto/synclang/cerr"
)

// MaxElevationWaiters bounds how many goroutines may be mid-elevation on a
// single RWLock at once; exceeding it is a programming error (too many
// concurrent elevation attempts), reported rather than silently dropped.
const MaxElevationWaiters = 64

// RWLock is a reader/writer lock supporting in-place shared-to-exclusive
// elevation with deadlock detection. Zero value is not usable; use New.
type RWLock struct {
	mu               sync.Mutex
	cond             *sync.Cond
	readers          int
	intents          int
	exclusiveHeld    bool
	exclusiveOwner   uint64
	exclusiveReentry int
	deadlockGen      uint64
	seq              uint64
}

func New() *RWLock {
	l := &RWLock{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// nextTokenLocked mints a fresh token; caller must hold mu.
func (l *RWLock) nextTokenLocked() uint64 {
	l.seq++
	return l.seq
}

func (l *RWLock) LockShared() {
	l.mu.Lock()
	for l.exclusiveHeld {
		l.cond.Wait()
	}
	l.readers++
	l.mu.Unlock()
}

func (l *RWLock) UnlockShared() {
	l.mu.Lock()
	l.readers--
	l.mu.Unlock()
	l.cond.Broadcast()
}

// LockExclusive blocks until no reader or other exclusive holder remains,
// then takes the lock exclusively. It returns an owner token that
// LockSharedAsOwner/UnlockSharedAsOwner can later present to re-enter the
// lock in shared mode from the same logical holder without deadlocking
// against itself (§4.6 point 2: "a thread holding an exclusive lock may
// call acquire_shared without deadlock").
func (l *RWLock) LockExclusive() uint64 {
	l.mu.Lock()
	for l.exclusiveHeld || l.readers > 0 {
		l.cond.Wait()
	}
	l.exclusiveHeld = true
	l.exclusiveOwner = l.nextTokenLocked()
	owner := l.exclusiveOwner
	l.mu.Unlock()
	return owner
}

func (l *RWLock) UnlockExclusive() {
	l.mu.Lock()
	l.exclusiveHeld = false
	l.exclusiveOwner = 0
	l.exclusiveReentry = 0
	l.mu.Unlock()
	l.cond.Broadcast()
}

// LockSharedAsOwner acquires a shared hold on behalf of owner, the token
// LockExclusive returned. If owner is currently the exclusive holder, this
// succeeds immediately as a re-entrant shared hold without blocking;
// otherwise it behaves exactly like LockShared.
func (l *RWLock) LockSharedAsOwner(owner uint64) {
	l.mu.Lock()
	if l.exclusiveHeld && l.exclusiveOwner == owner {
		l.exclusiveReentry++
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()
	l.LockShared()
}

// UnlockSharedAsOwner releases a hold taken via LockSharedAsOwner; it must
// be called with the same owner token.
func (l *RWLock) UnlockSharedAsOwner(owner uint64) {
	l.mu.Lock()
	if l.exclusiveHeld && l.exclusiveOwner == owner && l.exclusiveReentry > 0 {
		l.exclusiveReentry--
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()
	l.UnlockShared()
}

// Elevate attempts to upgrade the caller's held shared lock to exclusive
// without releasing that shared hold while it waits (§4.6). On success (Ok)
// the shared hold is converted into the exclusive hold: the reader count
// drops by one, so the caller releases with UnlockExclusive alone and holds
// no shared lock afterwards. On DEADLOCK the caller still only holds the
// shared lock and may retry.
//
// Detection rule (§4.6 point 3): while waiting, this goroutine registers
// its elevation intent. If at any point the number of registered intents
// equals the number of current readers and exceeds one, none of those
// intents can ever become the sole reader (each is itself one of the
// readers the others are waiting to disappear), so all of them abort with
// DEADLOCK, the deadlock generation increments, and every intent in this
// generation observes the bump and aborts too rather than re-deriving the
// same equality check against a reader count that may have moved on.
func (l *RWLock) Elevate() cerr.ProgramRuntimeError {
	l.mu.Lock()

	if l.intents >= MaxElevationWaiters {
		l.mu.Unlock()
		return cerr.RuntimeErr(cerr.RuntimeDeadlock)
	}

	myGen := l.deadlockGen
	l.intents++
	l.cond.Broadcast()

	for {
		if l.intents == l.readers && l.intents > 1 {
			l.deadlockGen++
			l.intents--
			l.mu.Unlock()
			l.cond.Broadcast()
			return cerr.RuntimeErr(cerr.RuntimeDeadlock)
		}
		if l.deadlockGen != myGen {
			l.intents--
			l.mu.Unlock()
			l.cond.Broadcast()
			return cerr.RuntimeErr(cerr.RuntimeDeadlock)
		}
		if l.readers == 1 && !l.exclusiveHeld {
			l.readers--
			l.exclusiveHeld = true
			l.exclusiveOwner = l.nextTokenLocked()
			l.intents--
			l.mu.Unlock()
			return cerr.Ok
		}
		l.cond.Wait()
	}
}

// QueueObject is the six-operation interface a value must implement to be
// held inside a sync queue/channel under this lock's protection (§6): the
// same shape as the source's six-function SyncObject::VTable, but as a Go
// interface rather than a struct of function pointers.
type QueueObject interface {
	Acquire() cerr.ProgramRuntimeError
	Release()
	TryAcquire() bool
	AcquireShared() cerr.ProgramRuntimeError
	ReleaseShared()
	IsExpired() bool
}

// Batch defers acquisition of several QueueObjects until Commit, acquiring
// them in a fixed order (registration order) to avoid introducing new
// lock-ordering deadlocks beyond the elevation case RWLock itself handles.
// There is no pack precedent for a batched-lock API (see DESIGN.md); this
// is built directly from SPEC_FULL.md's External Interfaces section.
type Batch struct {
	objects []QueueObject
	taken   int
}

func NewBatch() *Batch { return &Batch{} }

func (b *Batch) Add(o QueueObject) {
	b.objects = append(b.objects, o)
}

// Commit acquires every registered object in order; on failure it releases
// everything already acquired before returning the error.
func (b *Batch) Commit() cerr.ProgramRuntimeError {
	for _, o := range b.objects {
		if err := o.Acquire(); err.Kind != cerr.RuntimeNone {
			b.Rollback()
			return err
		}
		b.taken++
	}
	return cerr.Ok
}

func (b *Batch) Rollback() {
	for i := 0; i < b.taken; i++ {
		b.objects[i].Release()
	}
	b.taken = 0
}
