// Synthetic event generation for demos and local exercising of the
// Analyzer without an instrumented program or a replay file.
//
// Grounded on golang.org/x/sync/errgroup, part of the example pack's
// dependency surface (used for fan-out worker coordination in, e.g., the
// bigslice worker examples); here it fans out a fixed number of concurrent
// "virtual threads" that each submit a burst of reads and writes to a
// shared set of variables through the Dispatcher, then joins them all.
package eventsource

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kolkov/vcrace/internal/vcrace/analyzer"
	"github.com/kolkov/vcrace/internal/vcrace/dispatcher"
)

// GeneratorConfig configures a synthetic concurrent workload.
type GeneratorConfig struct {
	// Threads is how many virtual threads to fork from the main thread.
	Threads int
	// Variables is how many distinct shared variables each thread touches.
	Variables int
	// AccessesPerThread is how many read/write events each thread submits.
	AccessesPerThread int
	// ProtectWithLock, if true, wraps every access in the same shared
	// lock's acquire/release, eliminating races (useful as a contrast
	// demo against the unprotected case).
	ProtectWithLock bool
}

// Generate drives a's Dispatcher with a synthetic concurrent workload
// described by cfg, using one virtual goroutine (via errgroup) per
// configured thread. The event submissions themselves are ordinary
// sequential calls — concurrency here models the wall-clock interleaving a
// real program's goroutines would produce, not actual data races in this
// generator's own Go code, since the Analyzer serializes every event
// through its own lock regardless of caller concurrency.
func Generate(ctx context.Context, a *analyzer.Analyzer, d *dispatcher.Dispatcher, cfg GeneratorConfig) error {
	if cfg.Threads <= 0 || cfg.Variables <= 0 {
		return fmt.Errorf("eventsource: Generate requires Threads > 0 and Variables > 0")
	}

	main := a.NewThread()
	for i := 0; i < cfg.Variables; i++ {
		a.RegisterVariable(varName(i))
	}
	if cfg.ProtectWithLock {
		a.RegisterLock("generator-lock")
	}

	g, ctx := errgroup.WithContext(ctx)
	children := make([]string, cfg.Threads)

	for i := 0; i < cfg.Threads; i++ {
		handle := fmt.Sprintf("generated-thread-%d", i)
		children[i] = handle
		childID, ok := d.SubmitFork(main, handle)
		if !ok {
			return fmt.Errorf("eventsource: fork of %q failed", handle)
		}

		g.Go(func() error {
			return runVirtualThread(ctx, d, childID, cfg)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, handle := range children {
		d.SubmitJoin(main, handle)
	}
	return nil
}

func runVirtualThread(ctx context.Context, d *dispatcher.Dispatcher, t int, cfg GeneratorConfig) error {
	for i := 0; i < cfg.AccessesPerThread; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		x := varName(i % cfg.Variables)
		if cfg.ProtectWithLock {
			d.SubmitAcquire(t, "generator-lock")
		}
		if i%2 == 0 {
			d.SubmitWrite(t, x)
		} else {
			d.SubmitRead(t, x)
		}
		if cfg.ProtectWithLock {
			d.SubmitRelease(t, "generator-lock")
		}
	}
	return nil
}

func varName(i int) string {
	return fmt.Sprintf("var-%d", i)
}
