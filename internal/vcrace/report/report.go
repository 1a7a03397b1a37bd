// Package report formats race violations reported by the Analyzer.
//
// This is the core/boundary contract from spec.md §6: "Reporter output...
// thread id, variable id, access kind, snapshots of the thread VC, the
// variable's Read-VC, and the variable's Write-VC. Format is the
// reporter's concern." The layout below is grounded directly on the
// teacher's internal/race/detector/report.go Format method, adapted to
// carry full vector-clock snapshots instead of epochs.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/kolkov/vcrace/internal/vcrace/stackdepot"
	"github.com/kolkov/vcrace/internal/vcrace/vectorclock"
)

// AccessKind distinguishes a read from a write access.
type AccessKind int

const (
	Read AccessKind = iota
	Write
)

func (k AccessKind) String() string {
	if k == Write {
		return "Write"
	}
	return "Read"
}

// Violation is a single race report: the current access that tripped a
// race predicate, and the conflicting footprint it raced against.
type Violation struct {
	Kind     AccessKind
	Thread   int
	Variable string

	ThreadClock *vectorclock.VectorClock // C[t] at the time of the access
	ReadClock   *vectorclock.VectorClock // R[x] (set for write reports, nil for read reports)
	WriteClock  *vectorclock.VectorClock // W[x]

	Stack uint64 // stackdepot hash captured at callback time, 0 if unavailable
}

// Format writes a human-readable report to w, in a layout intentionally
// close to Go's built-in race detector's text output.
func (v *Violation) Format(w io.Writer) {
	fmt.Fprintf(w, "==================\n")
	fmt.Fprintf(w, "WARNING: DATA RACE\n")
	fmt.Fprintf(w, "%s of %q by thread %d:\n", v.Kind, v.Variable, v.Thread)

	if tr := stackdepot.Get(v.Stack); tr != nil {
		fmt.Fprint(w, tr.Format())
	} else {
		fmt.Fprintf(w, "  (no stack trace captured)\n")
	}

	fmt.Fprintf(w, "  C[%d]  = %s\n", v.Thread, v.ThreadClock)
	if v.ReadClock != nil {
		fmt.Fprintf(w, "  R[%s] = %s\n", v.Variable, v.ReadClock)
	}
	if v.WriteClock != nil {
		fmt.Fprintf(w, "  W[%s] = %s\n", v.Variable, v.WriteClock)
	}
	fmt.Fprintf(w, "==================\n")
}

// String renders Format's output as a string, for tests and logging.
func (v *Violation) String() string {
	var buf strings.Builder
	v.Format(&buf)
	return buf.String()
}
