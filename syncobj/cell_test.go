package syncobj

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwnedGetSetRoundTrip(t *testing.T) {
	o := NewOwned(42)
	p := o.Get()
	*p = 99
	o.Unlock()

	p = o.Get()
	assert.Equal(t, 99, *p)
	o.Unlock()
}

func TestShareIncrementsStrongAndAllowsConcurrentReaders(t *testing.T) {
	o := NewOwned("hello")
	s1 := o.Share()
	s2 := s1.Clone()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		v := s1.Lock()
		assert.Equal(t, "hello", *v)
		s1.Unlock()
	}()
	go func() {
		defer wg.Done()
		v := s2.Lock()
		assert.Equal(t, "hello", *v)
		s2.Unlock()
	}()
	wg.Wait()
}

func TestWeakExpiresAfterAllStrongHandlesDestroyed(t *testing.T) {
	o := NewOwned(7)
	w := o.MakeWeak()
	assert.False(t, w.Expired())

	o.Destroy()
	assert.True(t, w.Expired())

	_, ok := w.Upgrade()
	assert.False(t, ok)
}

func TestWeakUpgradeSucceedsWhileStrongHandleAlive(t *testing.T) {
	o := NewOwned(7)
	s := o.Share()
	w := s.MakeWeak()

	upgraded, ok := w.Upgrade()
	assert.True(t, ok)
	v := upgraded.Lock()
	assert.Equal(t, 7, *v)
	upgraded.Unlock()
	upgraded.Destroy()

	s.Destroy()
	o.Destroy()
}

func TestSharedExpiredReflectsStrongCount(t *testing.T) {
	o := NewOwned(1)
	s := o.Share()
	assert.False(t, s.Expired())

	s.Destroy()
	o.Destroy()
	assert.True(t, s.Expired())
}

func TestValueSizeIsAtLeastCacheLineAligned(t *testing.T) {
	assert.GreaterOrEqual(t, ValueSize[int](), uintptr(cacheLineSize))
}

func TestOwnedDestructorRunsOnceOnDrop(t *testing.T) {
	calls := 0
	o := NewOwnedWithDestructor(5, func(v *int) { calls++ })
	o.Destroy()
	assert.Equal(t, 1, calls)
}

func TestSharedDestructorRunsOnceAfterLastClone(t *testing.T) {
	calls := 0
	o := NewOwnedWithDestructor(1, func(v *int) { calls++ })
	s1 := o.Share()
	s2 := s1.Clone()

	s1.Destroy()
	assert.Equal(t, 0, calls)

	o.Destroy()
	assert.Equal(t, 0, calls)

	s2.Destroy()
	assert.Equal(t, 1, calls)
}
