package vcrace_test

import (
	"fmt"

	"github.com/kolkov/vcrace/vcrace"
)

// Example demonstrates basic usage of the detector API.
func Example() {
	det := vcrace.New(vcrace.Options{})
	det.OnWrite(nil) // silence the default stderr report for this example

	t0 := det.NewThread()
	det.RegisterVariable("counter")

	det.Write(t0, "counter")
	det.Read(t0, "counter")

	fmt.Println("no race: single-threaded access")

	// Output:
	// no race: single-threaded access
}

// Example_mutexProtected demonstrates race-free code with lock protection.
func Example_mutexProtected() {
	det := vcrace.New(vcrace.Options{})

	raced := false
	det.OnWrite(func(vcrace.ViolationReport) { raced = true })

	t0 := det.NewThread()
	t1 := det.NewThread()
	det.RegisterVariable("counter")
	det.RegisterLock("mu")

	det.Acquire(t0, "mu")
	det.Write(t0, "counter")
	det.Release(t0, "mu")

	det.Acquire(t1, "mu")
	det.Write(t1, "counter")
	det.Release(t1, "mu")

	fmt.Println("raced:", raced)

	// Output:
	// raced: false
}
