package eventsource

import (
	"context"
	"strings"
	"testing"

	"github.com/kolkov/vcrace/internal/vcrace/analyzer"
	"github.com/kolkov/vcrace/internal/vcrace/dispatcher"
	"github.com/kolkov/vcrace/internal/vcrace/report"
)

func TestReplayFileDrivesRace(t *testing.T) {
	a := analyzer.New(analyzer.Options{})
	d := dispatcher.New(a)

	var violations int
	a.SetWriteViolation(func(report.Violation) { violations++ })

	log := strings.Join([]string{
		recordLine(t, Record{Kind: "bootstrap", Thread: 0}),
		recordLine(t, Record{Kind: "bootstrap", Thread: 1}),
		recordLine(t, Record{Kind: "write", Thread: 0, Target: "x"}),
		recordLine(t, Record{Kind: "write", Thread: 1, Target: "x"}),
	}, "\n")

	n, err := ReplayFile(strings.NewReader(log), d)
	if err != nil {
		t.Fatalf("ReplayFile: %v", err)
	}
	if n != 4 {
		t.Fatalf("want 4 events replayed, got %d", n)
	}
	if violations != 1 {
		t.Fatalf("want 1 violation from replay, got %d", violations)
	}
}

func TestReplayFileRejectsUnknownKind(t *testing.T) {
	a := analyzer.New(analyzer.Options{})
	d := dispatcher.New(a)

	_, err := ReplayFile(strings.NewReader(`{"kind":"teleport","thread":0}`), d)
	if err == nil {
		t.Fatalf("expected an error for an unknown event kind")
	}
}

func TestReplayFileRejectsThreadUsedBeforeIntroduced(t *testing.T) {
	a := analyzer.New(analyzer.Options{})
	d := dispatcher.New(a)

	_, err := ReplayFile(strings.NewReader(`{"kind":"write","thread":7,"target":"x"}`), d)
	if err == nil {
		t.Fatalf("expected an error for a thread id used before bootstrap/fork")
	}
}

func TestReplayFileSkipsBlankLines(t *testing.T) {
	a := analyzer.New(analyzer.Options{})
	d := dispatcher.New(a)

	n, err := ReplayFile(strings.NewReader("\n\n"), d)
	if err != nil {
		t.Fatalf("ReplayFile: %v", err)
	}
	if n != 0 {
		t.Fatalf("want 0 events from blank input, got %d", n)
	}
}

func TestReplayFileRemapsArbitraryFileThreadIDs(t *testing.T) {
	a := analyzer.New(analyzer.Options{})
	d := dispatcher.New(a)

	fired := false
	a.SetWriteViolation(func(report.Violation) { fired = true })

	// File-native thread numbers are large and out of order, unrelated to
	// the analyzer's own 0..n assignment — this must still work correctly.
	log := strings.Join([]string{
		recordLine(t, Record{Kind: "bootstrap", Thread: 42}),
		recordLine(t, Record{Kind: "fork", Thread: 42, ChildHandle: "c", NewThread: 99}),
		recordLine(t, Record{Kind: "write", Thread: 42, Target: "x"}),
		recordLine(t, Record{Kind: "join", Thread: 42, ChildHandle: "c"}),
		recordLine(t, Record{Kind: "write", Thread: 42, Target: "x"}),
	}, "\n")

	if _, err := ReplayFile(strings.NewReader(log), d); err != nil {
		t.Fatalf("ReplayFile: %v", err)
	}
	if fired {
		t.Fatalf("single-thread sequence should never race")
	}
}

func TestReplayFileRejectsDuplicateBootstrap(t *testing.T) {
	a := analyzer.New(analyzer.Options{})
	d := dispatcher.New(a)

	log := strings.Join([]string{
		recordLine(t, Record{Kind: "bootstrap", Thread: 0}),
		recordLine(t, Record{Kind: "bootstrap", Thread: 0}),
	}, "\n")

	if _, err := ReplayFile(strings.NewReader(log), d); err == nil {
		t.Fatalf("expected an error for bootstrapping the same thread twice")
	}
}

func TestGenerateUnprotectedProducesViolations(t *testing.T) {
	a := analyzer.New(analyzer.Options{})
	d := dispatcher.New(a)

	var violations int
	a.SetWriteViolation(func(report.Violation) { violations++ })
	a.SetReadViolation(func(report.Violation) { violations++ })

	cfg := GeneratorConfig{Threads: 4, Variables: 2, AccessesPerThread: 10, ProtectWithLock: false}
	if err := Generate(context.Background(), a, d, cfg); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if violations == 0 {
		t.Fatalf("expected unprotected concurrent accesses to produce violations")
	}
}

func TestGenerateLockProtectedProducesNoViolations(t *testing.T) {
	a := analyzer.New(analyzer.Options{})
	d := dispatcher.New(a)

	var violations int
	a.SetWriteViolation(func(report.Violation) { violations++ })
	a.SetReadViolation(func(report.Violation) { violations++ })

	cfg := GeneratorConfig{Threads: 4, Variables: 2, AccessesPerThread: 10, ProtectWithLock: true}
	if err := Generate(context.Background(), a, d, cfg); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if violations != 0 {
		t.Fatalf("lock-protected generator run should not race, got %d violations", violations)
	}
}

func recordLine(t *testing.T, rec Record) string {
	t.Helper()
	var buf strings.Builder
	if err := EncodeRecord(&buf, rec); err != nil {
		t.Fatalf("EncodeRecord: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}
