// Package lockstate implements the shadow cell tracked for every
// registered lock: its release vector clock L[m].
//
// This replaces the teacher's syncshadow package, which modeled mutexes,
// rwmutexes, wait groups, and channels — the specification (spec.md §6)
// only names acquire/release on a generic lock handle, so the
// WaitGroup/channel machinery has no SPEC_FULL component to serve and is
// not reproduced here (see DESIGN.md).
package lockstate

import "github.com/kolkov/vcrace/internal/vcrace/vectorclock"

// LockState is the shadow cell for one lock: L[m].
type LockState struct {
	L *vectorclock.VectorClock
}

// New returns a freshly registered lock cell with L = the zero vector
// clock (spec.md §4.1 "Register lock"; §3 invariant 4, "or the zero VC if
// never released").
func New() *LockState {
	return &LockState{L: vectorclock.New()}
}

// Table owns the LockState cells for every registered lock.
type Table struct {
	cells map[string]*LockState
}

// NewTable returns an empty lock table.
func NewTable() *Table {
	return &Table{cells: make(map[string]*LockState)}
}

// Register inserts a fresh LockState for m if absent. Idempotent.
func (t *Table) Register(m string) {
	if _, ok := t.cells[m]; !ok {
		t.cells[m] = New()
	}
}

// Get returns the LockState for m and whether it is registered.
func (t *Table) Get(m string) (*LockState, bool) {
	ls, ok := t.cells[m]
	return ls, ok
}

// GetOrCreate returns the LockState for m, creating it if the Table's
// caller has chosen the lazy-registration policy.
func (t *Table) GetOrCreate(m string) *LockState {
	if ls, ok := t.cells[m]; ok {
		return ls
	}
	ls := New()
	t.cells[m] = ls
	return ls
}

// Names returns every currently registered lock id.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.cells))
	for name := range t.cells {
		names = append(names, name)
	}
	return names
}

// Len reports how many locks are currently registered.
func (t *Table) Len() int {
	return len(t.cells)
}
