package vcrace_test

import (
	"testing"

	"github.com/kolkov/vcrace/vcrace"
)

func TestDetectorReportsUnsynchronizedWrite(t *testing.T) {
	det := vcrace.New(vcrace.Options{})

	var got *vcrace.ViolationReport
	det.OnWrite(func(v vcrace.ViolationReport) { got = &v })

	t0 := det.NewThread()
	t1 := det.NewThread()
	det.RegisterVariable("x")

	det.Write(t0, "x")
	det.Write(t1, "x")

	if got == nil {
		t.Fatalf("expected a write violation")
	}
	if got.Variable != "x" || got.Thread != t1 {
		t.Fatalf("unexpected violation: %+v", got)
	}
}

func TestDetectorForkJoinRoundTrip(t *testing.T) {
	det := vcrace.New(vcrace.Options{})
	det.OnWrite(nil)

	parent := det.NewThread()
	child, ok := det.Fork(parent, "worker-1")
	if !ok || child == parent {
		t.Fatalf("Fork did not return a distinct child id")
	}
	det.Join(parent, "worker-1")

	stats := det.Stats()
	if stats.Forks != 1 || stats.Joins != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestDetectorDumpEnumeratesState(t *testing.T) {
	det := vcrace.New(vcrace.Options{})
	t0 := det.NewThread()
	det.RegisterVariable("x")
	det.RegisterLock("m")
	det.Acquire(t0, "m")
	det.Write(t0, "x")
	det.Release(t0, "m")

	snap := det.Dump()
	if _, ok := snap.Threads[t0]; !ok {
		t.Fatalf("dump missing thread")
	}
	if _, ok := snap.Variables["x"]; !ok {
		t.Fatalf("dump missing variable")
	}
	if _, ok := snap.Locks["m"]; !ok {
		t.Fatalf("dump missing lock")
	}
}
