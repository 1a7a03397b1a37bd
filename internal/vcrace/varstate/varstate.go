// Package varstate implements the shadow cell tracked for every registered
// variable: its read-VC and write-VC.
//
// This replaces the teacher's adaptive epoch/VectorClock shadow memory
// (internal/race/shadowmem) entirely: Djit+ as specified (spec.md §4.1)
// keeps a full vector clock for both R[x] and W[x] at all times, so there
// is no epoch fast path and no promotion/demotion machinery to maintain.
// What survives from the teacher is the package's job — own one cell per
// tracked address/name and serve it up cheaply — and its "get or create"
// shape (shadow_map.go), now guarded by the Analyzer's single lock instead
// of a lock-free sync.Map, since spec.md §5 mandates one exclusive lock
// over all Analyzer state.
package varstate

import "github.com/kolkov/vcrace/internal/vcrace/vectorclock"

// VarState is the shadow cell for one variable: R[x] and W[x].
type VarState struct {
	R *vectorclock.VectorClock
	W *vectorclock.VectorClock
}

// New returns a freshly registered variable cell with R = W = the zero
// vector clock, per spec.md §4.1 "Register variable".
func New() *VarState {
	return &VarState{R: vectorclock.New(), W: vectorclock.New()}
}

// Table owns the VarState cells for every registered variable, keyed by
// the caller-supplied opaque variable id (spec.md §6: "a string name or
// integer address both suffice").
type Table struct {
	cells map[string]*VarState
}

// NewTable returns an empty variable table.
func NewTable() *Table {
	return &Table{cells: make(map[string]*VarState)}
}

// Register inserts a fresh VarState for x if absent. Idempotent, per
// spec.md §4.1.
func (t *Table) Register(x string) {
	if _, ok := t.cells[x]; !ok {
		t.cells[x] = New()
	}
}

// Get returns the VarState for x and whether it is registered.
func (t *Table) Get(x string) (*VarState, bool) {
	vs, ok := t.cells[x]
	return vs, ok
}

// GetOrCreate returns the VarState for x, creating it via lazy
// registration if Table's caller has chosen that policy (spec.md §4.1:
// "Registration is optional when the Analyzer supports lazy creation").
func (t *Table) GetOrCreate(x string) *VarState {
	if vs, ok := t.cells[x]; ok {
		return vs
	}
	vs := New()
	t.cells[x] = vs
	return vs
}

// Names returns every currently registered variable id, for queries and
// final-dump enumeration (spec.md §4.1 "Queries").
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.cells))
	for name := range t.cells {
		names = append(names, name)
	}
	return names
}

// Len reports how many variables are currently registered.
func (t *Table) Len() int {
	return len(t.cells)
}
