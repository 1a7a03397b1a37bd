// replay.go implements the 'vcrace replay' command.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kolkov/vcrace/internal/vcrace/eventsource"
	"github.com/kolkov/vcrace/internal/vcrace/memguard"
	"github.com/kolkov/vcrace/vcrace"
)

// replayCommand implements 'vcrace replay <trace.jsonl>': it replays a
// recorded JSON-Lines event trace through a fresh Detector and exits
// non-zero if any race was reported. A trace's root threads must appear
// as explicit "bootstrap" records; see eventsource.Record.
func replayCommand(args []string) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	requireRegistration := fs.Bool("require-registration", false, "drop accesses to variables/locks that are not registered (the trace format has no registration records, so every such access is dropped)")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one trace file argument")
		fmt.Fprintln(os.Stderr, "Usage: vcrace replay [flags] <trace.jsonl>")
		os.Exit(1)
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening trace: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	det := vcrace.New(vcrace.Options{RequireRegistration: *requireRegistration})

	// Watch host memory for the duration of the replay, since a trace can
	// be arbitrarily large and the Analyzer's working set never shrinks
	// (SPEC_FULL §4, §8 "Memory supervision for long traces").
	ctx, cancel := context.WithCancel(context.Background())
	sup := memguard.New(memguard.Options{}, func() {
		fmt.Fprintln(os.Stderr, "Warning: memory pressure detected while replaying trace")
	})
	go sup.Run(ctx)

	n, err := eventsource.ReplayFile(f, det.Dispatcher())
	cancel()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: replaying trace: %v\n", err)
		os.Exit(1)
	}

	stats := det.Stats()
	fmt.Printf("replayed %d events, %d violations, %d dropped\n", n, stats.Violations, stats.Dropped)

	if stats.Violations > 0 {
		os.Exit(1)
	}
}
