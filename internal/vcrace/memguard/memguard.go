// Package memguard watches host memory pressure while a long replay trace
// is being analyzed and signals back pressure before the process is
// OOM-killed mid-analysis.
//
// A Djit+ Analyzer (unlike the teacher's FastTrack Detector) never shrinks
// its working set back to an epoch once a thread, variable, or lock has
// been observed: every shadow cell holds a full vector clock for the life
// of the run (spec.md §5, §9 Open Question 3, "accepted: no capacity
// cap... operators needing a hard bound should run with monitoring"). This
// package is that monitoring, grounded directly on ErikKassubek-ADVOCATE's
// analyzer/memory/memory.go MemorySupervisor: same polling-loop shape and
// available-RAM threshold, adapted to report pressure through a callback
// instead of a package-level atomic flag, so the caller (typically
// eventsource or cmd/vcrace) decides how to react.
package memguard

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/kolkov/vcrace/internal/vcrace/diag"
)

// Options configures the Supervisor's polling behavior.
type Options struct {
	// Disabled, if true, turns checkOnce into a permanent no-op: no memory
	// stats are read and onPressure never fires. Use this to deterministically
	// silence the supervisor (e.g. in tests), rather than relying on a
	// threshold value that merely makes firing unlikely.
	Disabled bool

	// MinAvailableFraction is the fraction of total RAM that must remain
	// available; falling below it triggers OnPressure. Defaults to 0.02
	// (2%), matching the teacher's thresholdRAM, whenever it is left at
	// its zero value — use Disabled, not a negative or zero fraction, to
	// turn the check off.
	MinAvailableFraction float64

	// PollInterval is how often memory is sampled. Defaults to 1 second,
	// matching the teacher's polling loop.
	PollInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.MinAvailableFraction <= 0 {
		o.MinAvailableFraction = 0.02
	}
	if o.PollInterval <= 0 {
		o.PollInterval = time.Second
	}
	return o
}

// Supervisor polls host memory and invokes a callback under pressure.
type Supervisor struct {
	opts      Options
	onPress   func()
	triggered bool
}

// New returns a Supervisor that calls onPressure (once) when available RAM
// drops below the configured threshold. onPressure must not block.
func New(opts Options, onPressure func()) *Supervisor {
	return &Supervisor{opts: opts.withDefaults(), onPress: onPressure}
}

// Run polls memory until ctx is canceled or pressure is detected and
// reported. Intended to be run in its own goroutine alongside an analysis.
func (s *Supervisor) Run(ctx context.Context) {
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.checkOnce() {
				return
			}
		}
	}
}

// checkOnce samples memory once and fires onPress if it is below
// threshold. Returns true once pressure has been reported.
func (s *Supervisor) checkOnce() bool {
	if s.opts.Disabled {
		return false
	}
	if s.triggered {
		return true
	}

	v, err := mem.VirtualMemory()
	if err != nil {
		diag.Warnf("memguard: reading memory stats: %v", err)
		return false
	}

	threshold := uint64(float64(v.Total) * s.opts.MinAvailableFraction)
	if v.Available < threshold {
		s.triggered = true
		diag.Warnf("memguard: available RAM %d below threshold %d, signaling pressure", v.Available, threshold)
		if s.onPress != nil {
			s.onPress()
		}
		return true
	}
	return false
}
