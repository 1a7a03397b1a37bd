// Package vectorclock implements vector clocks for tracking happens-before
// relations between threads.
//
// A vector clock is a mapping from thread id to logical time. Unlike the
// FastTrack epoch representation it replaces in the teacher codebase this
// package's clocks are always fully expanded: the Djit+ algorithm compares
// full vector clocks on every read and write, so there is no epoch fast
// path here and none is needed.
//
// Representation: a growable slice indexed by thread id, since spec thread
// ids are drawn from a monotonically increasing counter that is never
// capped in advance (§3, §5 of the specification). This keeps Join and
// LessOrEqual the two operations every caller needs, at the cost of one
// allocation when a clock must grow to cover a newly observed thread.
package vectorclock

import "strings"

// VectorClock maps thread id to logical time. Unmentioned threads are
// implicitly at time 0 — this is a total function over all thread ids,
// represented sparsely.
type VectorClock struct {
	clocks []uint64
}

// New returns a zero-initialized vector clock.
func New() *VectorClock {
	return &VectorClock{}
}

// grow ensures clocks has room for index tid, zero-filling any new slots.
func (vc *VectorClock) grow(tid int) {
	if tid < len(vc.clocks) {
		return
	}
	next := make([]uint64, tid+1)
	copy(next, vc.clocks)
	vc.clocks = next
}

// Get returns the logical time for thread tid (0 if never set).
func (vc *VectorClock) Get(tid int) uint64 {
	if tid < 0 || tid >= len(vc.clocks) {
		return 0
	}
	return vc.clocks[tid]
}

// Set assigns the logical time for thread tid directly.
func (vc *VectorClock) Set(tid int, clock uint64) {
	vc.grow(tid)
	vc.clocks[tid] = clock
}

// Increment advances the clock for thread tid by one.
func (vc *VectorClock) Increment(tid int) {
	vc.grow(tid)
	vc.clocks[tid]++
}

// Clone returns a deep, independent copy of vc.
func (vc *VectorClock) Clone() *VectorClock {
	out := &VectorClock{clocks: make([]uint64, len(vc.clocks))}
	copy(out.clocks, vc.clocks)
	return out
}

// CopyFrom replaces vc's contents with a copy of other's, without
// allocating a new VectorClock value (used on Release, where L[m] must be
// overwritten in place by the publishing thread's clock).
func (vc *VectorClock) CopyFrom(other *VectorClock) {
	vc.clocks = make([]uint64, len(other.clocks))
	copy(vc.clocks, other.clocks)
}

// Join performs the pointwise maximum vc = vc ⊔ other, destructively
// updating vc. This is the synchronization operation used on Acquire and
// Join(thread).
func (vc *VectorClock) Join(other *VectorClock) {
	if len(other.clocks) > len(vc.clocks) {
		vc.grow(len(other.clocks) - 1)
	}
	for i, v := range other.clocks {
		if v > vc.clocks[i] {
			vc.clocks[i] = v
		}
	}
}

// LessOrEqual reports whether vc ⊑ other: for every thread t,
// vc[t] <= other[t]. This is the happens-before test at the heart of every
// race predicate in the Analyzer.
func (vc *VectorClock) LessOrEqual(other *VectorClock) bool {
	for i, v := range vc.clocks {
		if v > other.Get(i) {
			return false
		}
	}
	return true
}

// String renders the non-zero entries of vc as "{tid:clock, ...}", used
// only for diagnostics and race report formatting — never on a path that
// needs to be fast.
func (vc *VectorClock) String() string {
	var parts []string
	for tid, clock := range vc.clocks {
		if clock != 0 {
			parts = append(parts, itoa(tid)+":"+utoa(clock))
		}
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func itoa(n int) string { return utoa(uint64(n)) }

func utoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
