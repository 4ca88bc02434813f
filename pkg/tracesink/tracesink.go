// Package tracesink provides the reference implementation of the
// external Trace Sink port (spec.md §6): an append-only NDJSON journal,
// one event per line, plus structured zap diagnostics for failures the
// sink itself encounters. The core only depends on the port's four
// operations (emit/snapshotTo/reset/close); this package is one
// concrete adapter, not part of the core.
package tracesink

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
)

// EventKind discriminates the five event shapes named in spec.md §6.
type EventKind string

const (
	KindDesignDecision  EventKind = "DesignDecision"
	KindExecutionTrace  EventKind = "ExecutionTrace"
	KindVerificationTrace EventKind = "VerificationTrace"
	KindExceptionTrace  EventKind = "ExceptionTrace"
	KindTestVerdict     EventKind = "TestVerdict"
)

// Event is one NDJSON line written by the sink.
type Event struct {
	Seq     int            `json:"seq"`
	Kind    EventKind      `json:"kind"`
	RunID   string         `json:"run_id"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// Sink is an in-memory, append-only NDJSON trace journal with an
// optional on-disk snapshot target. A per-sink circuit breaker silently
// drops further writes once tripped, per spec.md §7 "infrastructure
// exceptions from external ports... must never abort the session".
type Sink struct {
	mu       sync.Mutex
	log      *zap.Logger
	events   []Event
	seq      int
	broken   bool
	failures int
}

// breakerThreshold is the number of consecutive write failures that
// trip the circuit breaker, per spec.md §7's "circuit-breaker silently
// drops further writes" clause.
const breakerThreshold = 3

// New constructs a Sink backed by logger for its own diagnostics. Pass
// zap.NewNop() in tests that don't care about sink-internal logging.
func New(logger *zap.Logger) *Sink {
	return &Sink{log: logger}
}

// Emit appends one event. It never returns an error to the caller: per
// spec.md §7, infrastructure exceptions from external ports must never
// abort the session. Once the circuit breaker has tripped (after
// breakerThreshold consecutive SnapshotTo failures), events are dropped
// silently; the failures are visible only via the sink's own logger.
func (s *Sink) Emit(runID string, kind EventKind, message string, fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.broken {
		return
	}

	s.events = append(s.events, Event{
		Seq: s.seq, Kind: kind, RunID: runID, Message: message, Fields: fields,
	})
	s.seq++
	s.failures = 0
}

// recordFailure trips the breaker after breakerThreshold consecutive
// failures and logs the cause with structured fields.
func (s *Sink) recordFailure(op string, err error) {
	s.failures++
	s.log.Warn("trace sink operation failed", zap.String("op", op), zap.Error(err), zap.Int("consecutive_failures", s.failures))
	if s.failures >= breakerThreshold {
		s.broken = true
		s.log.Error("trace sink circuit breaker tripped; further writes dropped")
	}
}

// SnapshotTo writes the current event log to path as NDJSON, one event
// per line, matching spec.md §6 "Persisted state layout (informative)".
func (s *Sink) SnapshotTo(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		s.recordFailure("snapshotTo", err)
		return fmt.Errorf("creating trace snapshot: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, ev := range s.events {
		if err := enc.Encode(ev); err != nil {
			s.recordFailure("snapshotTo", err)
			return fmt.Errorf("encoding trace event %d: %w", ev.Seq, err)
		}
	}
	if err := w.Flush(); err != nil {
		s.recordFailure("snapshotTo", err)
		return fmt.Errorf("flushing trace snapshot: %w", err)
	}
	return nil
}

// Reset discards all buffered events and clears the circuit breaker,
// per spec.md §6 "emit, snapshotTo(path), reset, close".
func (s *Sink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.seq = 0
	s.broken = false
	s.failures = 0
}

// Close flushes any logger-buffered output. Safe to call multiple
// times.
func (s *Sink) Close() error {
	if s.log != nil {
		_ = s.log.Sync()
	}
	return nil
}

// Events returns a snapshot of the buffered events, for tests and for
// adapters that want to inspect the journal without going through disk.
func (s *Sink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
