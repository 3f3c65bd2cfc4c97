// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import "sync/atomic"

// indexQueue hands out each index in [0, n) to the worker pool exactly
// once. Claiming is a single atomic fetch-and-increment, so there is no
// critical section to contend on.
type indexQueue struct {
	next atomic.Int64
	n    int64
}

func newIndexQueue(n int) *indexQueue {
	return &indexQueue{n: int64(n)}
}

// claim returns the next unclaimed index, or false once the list is
// exhausted. Safe under concurrent calls; no index is duplicated or
// skipped.
func (q *indexQueue) claim() (int, bool) {
	k := q.next.Add(1) - 1
	if k >= q.n {
		return 0, false
	}
	return int(k), true
}
