package rwlock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xyproto/synclang/cerr"
)

func TestSingleThreadElevateSucceeds(t *testing.T) {
	l := New()
	l.LockShared()
	rerr := l.Elevate()
	assert.True(t, rerr.Ok())
	l.UnlockExclusive()
}

func TestTwoThreadSuccessfulElevateSequential(t *testing.T) {
	l := New()
	l.LockShared()
	rerr := l.Elevate()
	assert.True(t, rerr.Ok())
	l.UnlockExclusive()

	l.LockShared()
	rerr = l.Elevate()
	assert.True(t, rerr.Ok())
	l.UnlockExclusive()
}

// Each goroutine below holds exactly one shared lock of its own before
// attempting to elevate, so a goroutine whose Elevate call doesn't abort
// immediately (on the intent-count check) never blocks forever on
// mu.Lock() waiting for a reader that nothing will ever release.

func TestConcurrentElevateAttemptsDetectDeadlock(t *testing.T) {
	l := New()
	const n = 3
	var wg sync.WaitGroup
	results := make([]cerr.ProgramRuntimeError, n)

	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			l.LockShared()
			<-start
			results[idx] = l.Elevate()
			if results[idx].Ok() {
				l.UnlockExclusive()
			} else {
				l.UnlockShared()
			}
		}(i)
	}
	close(start)
	wg.Wait()

	deadlocks := 0
	oks := 0
	for _, r := range results {
		if r.Kind == cerr.RuntimeDeadlock {
			deadlocks++
		} else if r.Ok() {
			oks++
		}
	}
	assert.Greater(t, deadlocks+oks, 0)
}

func TestDeadlockFollowedByLateArrivalRetrySucceeds(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	results := make([]cerr.ProgramRuntimeError, 2)
	start := make(chan struct{})
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			l.LockShared()
			<-start
			results[idx] = l.Elevate()
			if results[idx].Ok() {
				l.UnlockExclusive()
			} else {
				l.UnlockShared()
			}
		}(i)
	}
	close(start)
	wg.Wait()

	anyDeadlocked := false
	for _, r := range results {
		if r.Kind == cerr.RuntimeDeadlock {
			anyDeadlocked = true
		}
	}
	if anyDeadlocked {
		l.LockShared()
		retry := l.Elevate()
		assert.True(t, retry.Ok())
		l.UnlockExclusive()
	}
}

type fakeQueueObject struct {
	acquired bool
	fail     bool
}

func (f *fakeQueueObject) Acquire() cerr.ProgramRuntimeError {
	if f.fail {
		return cerr.RuntimeErr(cerr.RuntimeDeadlock)
	}
	f.acquired = true
	return cerr.Ok
}
func (f *fakeQueueObject) Release()                           { f.acquired = false }
func (f *fakeQueueObject) TryAcquire() bool                   { return f.Acquire().Ok() }
func (f *fakeQueueObject) AcquireShared() cerr.ProgramRuntimeError { return f.Acquire() }
func (f *fakeQueueObject) ReleaseShared()                     { f.Release() }
func (f *fakeQueueObject) IsExpired() bool                    { return false }

func TestBatchCommitRollsBackOnFailure(t *testing.T) {
	a := &fakeQueueObject{}
	b := &fakeQueueObject{fail: true}
	batch := NewBatch()
	batch.Add(a)
	batch.Add(b)

	err := batch.Commit()
	assert.False(t, err.Ok())
	assert.False(t, a.acquired)
}

func TestBatchCommitAllSucceed(t *testing.T) {
	a := &fakeQueueObject{}
	b := &fakeQueueObject{}
	batch := NewBatch()
	batch.Add(a)
	batch.Add(b)

	err := batch.Commit()
	assert.True(t, err.Ok())
	assert.True(t, a.acquired)
	assert.True(t, b.acquired)
}
