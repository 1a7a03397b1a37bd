// Package vcrace provides the public API for a pure-Go dynamic data-race
// detector implementing the Djit+ vector-clock algorithm.
//
// See doc.go for detailed documentation and examples.
package vcrace

import (
	"os"

	"github.com/kolkov/vcrace/internal/vcrace/analyzer"
	"github.com/kolkov/vcrace/internal/vcrace/dispatcher"
	"github.com/kolkov/vcrace/internal/vcrace/report"
)

// Options configures a Detector. RequireRegistration selects the
// watch-set policy: when true, accesses to variables or locks that were
// never explicitly registered are dropped (counted in Stats.Dropped and
// logged) rather than implicitly tracked.
type Options struct {
	RequireRegistration  bool
	WarnThreadCountAbove int
}

// ViolationReport is a single detected race, reported to an OnRead/OnWrite
// callback.
type ViolationReport = report.Violation

// Stats is a copy of a Detector's operation counters.
type Stats = analyzer.Stats

// Snapshot is a complete point-in-time dump of every thread, variable, and
// lock clock a Detector tracks.
type Snapshot = analyzer.Snapshot

// VarSnapshot pairs a variable's read and write clocks within a Snapshot.
type VarSnapshot = analyzer.VarSnapshot

// Detector is a running Djit+ analysis: an Analyzer plus the Dispatcher
// that feeds it. Safe for concurrent use from multiple goroutines — every
// operation is serialized internally through a single exclusive lock.
type Detector struct {
	a *analyzer.Analyzer
	d *dispatcher.Dispatcher
}

// New returns a Detector configured with opts. By default, detected races
// are printed to os.Stderr as they are found; use OnRead/OnWrite to
// override.
func New(opts Options) *Detector {
	a := analyzer.New(analyzer.Options{
		RequireRegistration:  opts.RequireRegistration,
		WarnThreadCountAbove: opts.WarnThreadCountAbove,
	})
	det := &Detector{a: a, d: dispatcher.New(a)}
	a.SetReadViolation(func(v report.Violation) { v.Format(os.Stderr) })
	a.SetWriteViolation(func(v report.Violation) { v.Format(os.Stderr) })
	return det
}

// OnRead overrides the callback invoked for every detected read race. Pass
// nil to silence read-race reporting.
func (det *Detector) OnRead(fn func(ViolationReport)) { det.a.SetReadViolation(fn) }

// OnWrite overrides the callback invoked for every detected write race.
// Pass nil to silence write-race reporting.
func (det *Detector) OnWrite(fn func(ViolationReport)) { det.a.SetWriteViolation(fn) }

// NewThread starts a fresh, parentless thread (e.g. a program's initial
// goroutine) and returns its assigned id.
func (det *Detector) NewThread() int { return det.a.NewThread() }

// RegisterVariable declares variable x, idempotently.
func (det *Detector) RegisterVariable(x string) { det.a.RegisterVariable(x) }

// RegisterLock declares lock m, idempotently.
func (det *Detector) RegisterLock(m string) { det.a.RegisterLock(m) }

// Read records a memory read of x by thread t.
func (det *Detector) Read(t int, x string) { det.d.SubmitRead(t, x) }

// Write records a memory write of x by thread t.
func (det *Detector) Write(t int, x string) { det.d.SubmitWrite(t, x) }

// Acquire records thread t acquiring lock m.
func (det *Detector) Acquire(t int, m string) { det.d.SubmitAcquire(t, m) }

// Release records thread t releasing lock m.
func (det *Detector) Release(t int, m string) { det.d.SubmitRelease(t, m) }

// Fork records thread t starting a new thread addressed by childHandle,
// returning the newly assigned thread id.
func (det *Detector) Fork(t int, childHandle string) (childID int, ok bool) {
	return det.d.SubmitFork(t, childHandle)
}

// Join records thread t waiting for childHandle to complete.
func (det *Detector) Join(t int, childHandle string) { det.d.SubmitJoin(t, childHandle) }

// Stats returns a copy of the Detector's operation counters.
func (det *Detector) Stats() Stats { return det.a.Stats() }

// Dump returns a complete snapshot of every thread, variable, and lock
// clock currently tracked, for post-mortem analysis.
func (det *Detector) Dump() Snapshot { return det.a.Dump() }

// Dispatcher exposes the underlying Dispatcher for callers that want to
// submit events through it directly (e.g. eventsource replay).
func (det *Detector) Dispatcher() *dispatcher.Dispatcher { return det.d }

// Analyzer exposes the underlying Analyzer for callers that need direct
// query access beyond Stats/Dump.
func (det *Detector) Analyzer() *analyzer.Analyzer { return det.a }
