// Package stackdepot captures and deduplicates Go call stacks for race
// reports.
//
// Adapted from the teacher's internal/race/stackdepot: same FNV-1a
// hash-dedup design over a global sync.Map, but capturing stacks only when
// a violation callback actually fires (Djit+ has no hot instrumented path
// to keep allocation-free — the callback is already off any hot path per
// spec.md §4.1, so there is no need for the teacher's lazy-PC trick).
package stackdepot

import (
	"fmt"
	"hash/fnv"
	"runtime"
	"strings"
	"sync"
	"unsafe"
)

// MaxFrames bounds how many call-stack frames are captured per trace.
const MaxFrames = 16

// Trace is a captured stack trace.
type Trace struct {
	PC []uintptr
}

var depot sync.Map // uint64 hash -> *Trace

// Capture captures the caller's current stack (skipping Capture itself)
// and returns a hash identifying it in the depot.
func Capture(skip int) uint64 {
	pcs := make([]uintptr, MaxFrames)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return 0
	}
	pcs = pcs[:n]

	hash := hashOf(pcs)
	if _, ok := depot.Load(hash); !ok {
		depot.LoadOrStore(hash, &Trace{PC: pcs})
	}
	return hash
}

// Get retrieves a previously captured trace by hash.
func Get(hash uint64) *Trace {
	if hash == 0 {
		return nil
	}
	v, ok := depot.Load(hash)
	if !ok {
		return nil
	}
	return v.(*Trace)
}

func hashOf(pcs []uintptr) uint64 {
	h := fnv.New64a()
	for _, pc := range pcs {
		//nolint:gosec // reading a uintptr's bytes for hashing is safe.
		b := (*[8]byte)(unsafe.Pointer(&pc))[:]
		h.Write(b)
	}
	return h.Sum64()
}

// Format renders a trace in a style matching Go's built-in race detector
// output, filtering out runtime-internal and detector-internal frames.
func (tr *Trace) Format() string {
	if tr == nil || len(tr.PC) == 0 {
		return "  (no stack trace available)\n"
	}

	frames := runtime.CallersFrames(tr.PC)
	var buf strings.Builder
	for {
		frame, more := frames.Next()
		if strings.HasPrefix(frame.Function, "runtime.") ||
			strings.Contains(frame.Function, "vcrace/internal/vcrace") {
			if !more {
				break
			}
			continue
		}
		fmt.Fprintf(&buf, "  %s()\n      %s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	if buf.Len() == 0 {
		return "  (all frames filtered)\n"
	}
	return buf.String()
}

// Reset clears the depot. Test-only.
func Reset() {
	depot = sync.Map{}
}
