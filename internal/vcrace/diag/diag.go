// Package diag implements the Analyzer's diagnostic logging: the
// "optionally logged" path for recoverable errors named in spec.md §7
// (unknown entity, unknown thread handle) and for non-fatal operational
// warnings (thread count threshold, memory pressure).
//
// Grounded on ErikKassubek-ADVOCATE/analyzer/utils/logging.go: stdlib
// log with ANSI color codes, no external logging library. The rest of the
// pack does not use a third-party logger for this concern either, so
// stdlib log is the faithful choice, not a fallback.
package diag

import (
	"fmt"
	"log"
)

// Color codes for terminal output.
const (
	reset  = "\033[0m"
	red    = "\033[31m"
	yellow = "\033[33m"
)

// Dropf logs a dropped event (unknown entity or unknown thread handle,
// spec.md §7) in yellow. Dropping an event is never an error the caller
// sees — the dispatcher's operations are total — so this is purely
// informational.
func Dropf(format string, v ...any) {
	log.Print(yellow, "dropped event: ", fmt.Sprintf(format, v...), reset)
}

// Warnf logs an operational warning (thread count, memory pressure) in red.
func Warnf(format string, v ...any) {
	log.Print(red, "warning: ", fmt.Sprintf(format, v...), reset)
}
