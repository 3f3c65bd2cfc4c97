// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexQueue_Sequential(t *testing.T) {
	q := newIndexQueue(3)
	for want := 0; want < 3; want++ {
		k, ok := q.claim()
		require.True(t, ok)
		assert.Equal(t, want, k)
	}
	_, ok := q.claim()
	assert.False(t, ok, "exhausted queue should stop claiming")
	_, ok = q.claim()
	assert.False(t, ok, "claims after exhaustion stay empty")
}

func TestIndexQueue_Empty(t *testing.T) {
	q := newIndexQueue(0)
	_, ok := q.claim()
	assert.False(t, ok)
}

// Every index must be claimed by exactly one goroutine under contention:
// the multiset of claims equals {0, ..., n-1}.
func TestIndexQueue_ConcurrentExactlyOnce(t *testing.T) {
	const (
		n        = 10000
		claimers = 16
	)

	q := newIndexQueue(n)
	claims := make(chan int, n)

	var wg sync.WaitGroup
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				k, ok := q.claim()
				if !ok {
					return
				}
				claims <- k
			}
		}()
	}
	wg.Wait()
	close(claims)

	seen := make([]int, n)
	total := 0
	for k := range claims {
		require.GreaterOrEqual(t, k, 0)
		require.Less(t, k, n)
		seen[k]++
		total++
	}
	require.Equal(t, n, total, "exactly n indices claimed")
	for k, count := range seen {
		assert.Equalf(t, 1, count, "index %d claimed %d times", k, count)
	}
}
