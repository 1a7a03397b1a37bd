// Package main implements the vcrace CLI tool.
//
// vcrace drives the Djit+ vector-clock race detector over an event stream
// rather than an instrumented binary: it replays a JSON-Lines trace
// recorded by an instrumented program, or generates a synthetic concurrent
// workload for demonstration purposes.
//
// Usage:
//
//	vcrace replay trace.jsonl     # replay a recorded event trace
//	vcrace demo                   # run a synthetic demo workload
//	vcrace version                # show version information
package main

import (
	"fmt"
	"os"

	"github.com/kolkov/vcrace/vcrace"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "replay":
		replayCommand(os.Args[2:])
	case "demo":
		demoCommand(os.Args[2:])
	case "version", "--version", "-v":
		info := vcrace.GetInfo()
		fmt.Printf("vcrace version %s (%s)\n", info.Version, info.Algorithm)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`vcrace - Djit+ vector-clock race detector

USAGE:
    vcrace <command> [arguments]

COMMANDS:
    replay     Replay a JSON-Lines event trace and report races
    demo       Run a synthetic concurrent workload
    version    Show version information
    help       Show this help message

EXAMPLES:
    # Replay a recorded trace
    vcrace replay trace.jsonl

    # Run the built-in demo, unprotected
    vcrace demo -threads=4 -vars=2 -accesses=20

    # Run the built-in demo, lock-protected
    vcrace demo -protect

ABOUT:
    vcrace tracks threads, variables, and locks by caller-supplied opaque
    ids, maintaining a full vector clock per thread and per variable
    access footprint. Every read and write is checked against a
    happens-before predicate before its clock is updated, so every
    unsynchronized access pattern is reported, including repeats.

`)
}
