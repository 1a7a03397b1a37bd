// Package threadstate tracks per-thread logical time for the Analyzer.
//
// Each thread observed by the detector owns a ThreadState holding its
// current vector clock C[t]. This mirrors the teacher's goroutine.RaceContext
// but drops the cached epoch: Djit+ always compares full vector clocks, so
// there is no epoch fast path to keep in sync (§4.1 of the specification).
package threadstate

import "github.com/kolkov/vcrace/internal/vcrace/vectorclock"

// ThreadState is the Analyzer's view of a single thread.
type ThreadState struct {
	// ID is the thread's stable identifier, assigned once at fork or
	// bootstrap and never reused (spec.md §5).
	ID int

	// C is the thread's current vector clock.
	C *vectorclock.VectorClock
}

// New allocates a ThreadState for a fresh, parentless thread and initializes
// C[id] = 1 eagerly, per spec.md §9 Open Question 2 ("the more defensible
// invariant").
func New(id int) *ThreadState {
	ts := &ThreadState{ID: id, C: vectorclock.New()}
	ts.C.Set(id, 1)
	return ts
}

// Clock returns the logical time this thread assigns to own-self, i.e.
// C[t][t].
func (ts *ThreadState) Clock() uint64 {
	return ts.C.Get(ts.ID)
}

// Snapshot returns an independent copy of C[t], suitable for handing to a
// violation callback (§4.1: "callbacks receive copies").
func (ts *ThreadState) Snapshot() *vectorclock.VectorClock {
	return ts.C.Clone()
}
