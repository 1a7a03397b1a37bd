// Package eventsource supplies events to a Dispatcher from outside a live
// instrumented program: a JSON-Lines replay file (spec.md §6, "External
// Interfaces... a serialized event log replayed for testing"), or a
// synthetic generator usable for demos and fuzz-style exercising of the
// Analyzer.
//
// The replay format is one JSON object per line (encoding/json, used
// throughout the example pack for exactly this kind of line-delimited
// record — see e.g. the chatroom and observer examples in
// _examples/other_examples/), scanned with bufio.Scanner in the style of
// the teacher's own instrument/visitor.go line-oriented source scanning.
package eventsource

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kolkov/vcrace/internal/vcrace/dispatcher"
)

// Record is the on-disk shape of one replayed event.
//
// Thread ids in a trace are file-native: they need not, and in general
// will not, coincide with the Analyzer's own internally assigned ids.
// ReplayFile maintains the mapping between the two, seeded by "bootstrap"
// records (for a trace's root threads) and "fork" records (whose NewThread
// field names the file-native id of the freshly created child).
type Record struct {
	Kind   string `json:"kind"` // "bootstrap", "read", "write", "acquire", "release", "fork", "join"
	Thread int    `json:"thread"`
	Target string `json:"target,omitempty"`

	// ChildHandle is populated only for "fork" and "join" records: the
	// opaque handle identifying the child thread (spec.md §6).
	ChildHandle string `json:"child_handle,omitempty"`

	// NewThread is populated only for "fork" records: the file-native id
	// the trace will use to refer to the newly created child thread in
	// subsequent records.
	NewThread int `json:"new_thread,omitempty"`
}

// ReplayFile reads newline-delimited JSON Records from r and submits each,
// in order, to d. A thread id first becomes valid either through a
// "bootstrap" record (declaring a root thread) or through a "fork"
// record's NewThread field (declaring a child thread); any other record
// referencing a thread id not yet introduced is an error rather than a
// silently dropped event, since a trace with inconsistent numbering is a
// malformed trace, not an uninteresting one.
func ReplayFile(r io.Reader, d *dispatcher.Dispatcher) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	threadIDs := make(map[int]int) // file-native thread id -> analyzer id

	resolve := func(line int, fileThread int) (int, error) {
		id, ok := threadIDs[fileThread]
		if !ok {
			return 0, fmt.Errorf("eventsource: line %d: thread %d used before a bootstrap or fork record introduced it", line, fileThread)
		}
		return id, nil
	}

	n := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return n, fmt.Errorf("eventsource: line %d: %w", n+1, err)
		}

		switch rec.Kind {
		case "bootstrap":
			if _, exists := threadIDs[rec.Thread]; exists {
				return n, fmt.Errorf("eventsource: line %d: thread %d bootstrapped twice", n+1, rec.Thread)
			}
			threadIDs[rec.Thread] = d.Bootstrap()

		case "read":
			t, err := resolve(n+1, rec.Thread)
			if err != nil {
				return n, err
			}
			d.SubmitRead(t, rec.Target)

		case "write":
			t, err := resolve(n+1, rec.Thread)
			if err != nil {
				return n, err
			}
			d.SubmitWrite(t, rec.Target)

		case "acquire":
			t, err := resolve(n+1, rec.Thread)
			if err != nil {
				return n, err
			}
			d.SubmitAcquire(t, rec.Target)

		case "release":
			t, err := resolve(n+1, rec.Thread)
			if err != nil {
				return n, err
			}
			d.SubmitRelease(t, rec.Target)

		case "fork":
			parent, err := resolve(n+1, rec.Thread)
			if err != nil {
				return n, err
			}
			if _, exists := threadIDs[rec.NewThread]; exists {
				return n, fmt.Errorf("eventsource: line %d: thread %d already in use, cannot be a fork's new_thread", n+1, rec.NewThread)
			}
			childID, ok := d.SubmitFork(parent, rec.ChildHandle)
			if !ok {
				return n, fmt.Errorf("eventsource: line %d: fork by unknown thread %d", n+1, rec.Thread)
			}
			threadIDs[rec.NewThread] = childID

		case "join":
			t, err := resolve(n+1, rec.Thread)
			if err != nil {
				return n, err
			}
			d.SubmitJoin(t, rec.ChildHandle)

		default:
			return n, fmt.Errorf("eventsource: line %d: unknown event kind %q", n+1, rec.Kind)
		}

		n++
	}
	if err := scanner.Err(); err != nil {
		return n, fmt.Errorf("eventsource: scanning replay: %w", err)
	}
	return n, nil
}

// EncodeRecord writes a single Record as a JSON line to w, for tools that
// produce replay logs (e.g. an instrumented program recording its own
// trace for later offline analysis).
func EncodeRecord(w io.Writer, rec Record) error {
	enc := json.NewEncoder(w)
	return enc.Encode(rec)
}
