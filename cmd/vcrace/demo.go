// demo.go implements the 'vcrace demo' command.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kolkov/vcrace/internal/vcrace/eventsource"
	"github.com/kolkov/vcrace/vcrace"
)

// demoCommand implements 'vcrace demo': it drives a synthetic concurrent
// workload through a fresh Detector, useful for seeing the detector report
// races without needing an instrumented program or a recorded trace.
func demoCommand(args []string) {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	threads := fs.Int("threads", 4, "number of virtual threads to fork")
	vars := fs.Int("vars", 2, "number of shared variables each thread touches")
	accesses := fs.Int("accesses", 20, "number of accesses each thread submits")
	protect := fs.Bool("protect", false, "protect every access with a shared lock")
	_ = fs.Parse(args)

	det := vcrace.New(vcrace.Options{})

	cfg := eventsource.GeneratorConfig{
		Threads:           *threads,
		Variables:         *vars,
		AccessesPerThread: *accesses,
		ProtectWithLock:   *protect,
	}

	if err := eventsource.Generate(context.Background(), det.Analyzer(), det.Dispatcher(), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	stats := det.Stats()
	fmt.Printf("generated workload: %d threads, %d vars, %d accesses each, protect=%v\n", *threads, *vars, *accesses, *protect)
	fmt.Printf("violations: %d\n", stats.Violations)
}
