package utils

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimLocks_TryAcquire(t *testing.T) {
	t.Parallel()

	locks := NewClaimLocks()

	assert.True(t, locks.TryAcquire(1))
	assert.False(t, locks.TryAcquire(1), "second acquire on a held lock must fail")
	assert.True(t, locks.TryAcquire(2), "different tickets lock independently")

	locks.Release(1)
	assert.True(t, locks.TryAcquire(1), "released lock can be re-acquired")
}

func TestClaimLocks_ConcurrentExclusivity(t *testing.T) {
	t.Parallel()

	locks := NewClaimLocks()

	const attempts = 100
	var acquired atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if locks.TryAcquire(42) {
				acquired.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), acquired.Load(), "exactly one concurrent acquire may win")
}

func TestClaimLocks_ForceRelease(t *testing.T) {
	t.Parallel()

	locks := NewClaimLocks()

	assert.False(t, locks.ForceRelease(7), "nothing held yet")

	locks.TryAcquire(7)
	assert.True(t, locks.Held(7))
	assert.True(t, locks.ForceRelease(7))
	assert.False(t, locks.Held(7))
	assert.True(t, locks.TryAcquire(7))
}

func TestClaimLocks_ReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	locks := NewClaimLocks()
	locks.TryAcquire(9)
	locks.Release(9)
	locks.Release(9)
	assert.True(t, locks.TryAcquire(9))
}
