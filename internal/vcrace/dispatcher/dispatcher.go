// Package dispatcher implements the Event Dispatcher component named in
// spec.md §4.2: a thin, total forwarding layer between an event source
// (replay file, synthetic generator, or an instrumented program) and the
// Analyzer. Every submit_* operation here is a direct, serialized call into
// the Analyzer — spec.md §4.2 requires that "events from all sources are
// serialized before reaching the Analyzer; the Analyzer never observes two
// events concurrently." The Analyzer's own single lock already provides
// that guarantee, so the Dispatcher adds no locking of its own — it exists
// to give the six event kinds a stable, documented call surface, mirroring
// the teacher's cmd/racedetector/runtime hooks that turn instrumentation
// callbacks into detector method calls.
package dispatcher

import "github.com/kolkov/vcrace/internal/vcrace/analyzer"

// EventKind identifies one of the six event kinds named in spec.md §4.2.
type EventKind int

const (
	EventRead EventKind = iota
	EventWrite
	EventAcquire
	EventRelease
	EventFork
	EventJoin
)

func (k EventKind) String() string {
	switch k {
	case EventRead:
		return "read"
	case EventWrite:
		return "write"
	case EventAcquire:
		return "acquire"
	case EventRelease:
		return "release"
	case EventFork:
		return "fork"
	case EventJoin:
		return "join"
	default:
		return "unknown"
	}
}

// Event is the wire-level shape of a single submitted event, independent of
// its origin (replay file, synthetic generator, live instrumentation).
type Event struct {
	Kind EventKind

	Thread int    // the acting thread id t
	Target string // variable id x, lock id m, or empty for fork/join

	// ChildHandle is populated only for EventFork and EventJoin: the
	// opaque handle identifying the child thread (spec.md §6).
	ChildHandle string
}

// Dispatcher forwards submitted events to an Analyzer.
type Dispatcher struct {
	a *analyzer.Analyzer
}

// New returns a Dispatcher forwarding to a.
func New(a *analyzer.Analyzer) *Dispatcher {
	return &Dispatcher{a: a}
}

// Submit forwards a single event to the Analyzer, dispatching on its kind.
// Fork events mutate ev in place, filling in the newly assigned child
// thread id so the caller can address the child's subsequent events.
func (d *Dispatcher) Submit(ev *Event) {
	switch ev.Kind {
	case EventRead:
		d.SubmitRead(ev.Thread, ev.Target)
	case EventWrite:
		d.SubmitWrite(ev.Thread, ev.Target)
	case EventAcquire:
		d.SubmitAcquire(ev.Thread, ev.Target)
	case EventRelease:
		d.SubmitRelease(ev.Thread, ev.Target)
	case EventFork:
		child, ok := d.SubmitFork(ev.Thread, ev.ChildHandle)
		if ok {
			ev.Thread = child
		}
	case EventJoin:
		d.SubmitJoin(ev.Thread, ev.ChildHandle)
	}
}

// SubmitRead forwards a read event for variable x by thread t.
func (d *Dispatcher) SubmitRead(t int, x string) { d.a.Read(t, x) }

// SubmitWrite forwards a write event for variable x by thread t.
func (d *Dispatcher) SubmitWrite(t int, x string) { d.a.Write(t, x) }

// SubmitAcquire forwards an acquire event for lock m by thread t.
func (d *Dispatcher) SubmitAcquire(t int, m string) { d.a.Acquire(t, m) }

// SubmitRelease forwards a release event for lock m by thread t.
func (d *Dispatcher) SubmitRelease(t int, m string) { d.a.Release(t, m) }

// SubmitFork forwards a fork event: thread t spawns a new thread addressed
// by childHandle, and the Analyzer's newly assigned id is returned.
func (d *Dispatcher) SubmitFork(t int, childHandle string) (childID int, ok bool) {
	return d.a.Fork(t, childHandle)
}

// SubmitJoin forwards a join event: thread t waits for childHandle to
// complete.
func (d *Dispatcher) SubmitJoin(t int, childHandle string) { d.a.Join(t, childHandle) }

// Bootstrap starts a fresh, parentless thread directly through the
// Analyzer (e.g. a replayed trace's initial thread) and returns its
// assigned id.
func (d *Dispatcher) Bootstrap() int { return d.a.NewThread() }
