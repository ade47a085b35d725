package lock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamedLockSerializesSameName(t *testing.T) {
	n := NewNamed()
	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := n.Lock("x")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestNamedLockCleansUpEntry(t *testing.T) {
	n := NewNamed()
	unlock := n.Lock("x")
	unlock()
	assert.Len(t, n.locks, 0)
}

func TestShardedLockRoundsUpToPowerOfTwo(t *testing.T) {
	s := NewSharded(10)
	assert.Equal(t, 16, s.ShardCount())
}

func TestShardedLockLocksAndUnlocks(t *testing.T) {
	s := NewSharded(8)
	unlock := s.Lock("some-key")
	unlock()
}
