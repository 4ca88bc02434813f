// Package spec implements the session-level data model of spec.md §3:
// TestSpecification, AssertionRecord, the terminal TestStatus tagged
// union, the Session lifecycle state machine, and EphemeralContext.
package spec

import (
	"fmt"
	"sync"

	"kontrakt/pkg/kerrors"
)

// Mode names one of the three test modes a session may run, per spec.md
// §3 TestSpecification.
type Mode int

const (
	ModeContractAuto Mode = iota
	ModeUserScenario
	ModeDataCompliance
)

func (m Mode) String() string {
	switch m {
	case ModeContractAuto:
		return "ContractAuto"
	case ModeUserScenario:
		return "UserScenario"
	case ModeDataCompliance:
		return "DataCompliance"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// MockingStrategy names how a required dependency should be resolved,
// per spec.md §3.
type MockingStrategy int

const (
	StrategyReal MockingStrategy = iota
	StrategyStatelessMock
	StrategyStatefulFake
	StrategyEnvironment
)

// Dependency pairs a required type with the strategy used to resolve it.
type Dependency struct {
	TypeID   string
	Strategy MockingStrategy
	// Impl is the concrete implementation identifier to instantiate when
	// Strategy == StrategyReal.
	Impl string
}

// TestSpecification is the external input to a session (spec.md §3).
type TestSpecification struct {
	Target               string
	Modes                []Mode
	RequiredDependencies []Dependency
	Seed                 *uint64
}

// HasMode reports whether m is among the specification's declared modes.
func (s TestSpecification) HasMode(m Mode) bool {
	for _, declared := range s.Modes {
		if declared == m {
			return true
		}
	}
	return false
}

// RecordStatus names the outcome of one AssertionRecord.
type RecordStatus int

const (
	StatusPassed RecordStatus = iota
	StatusFailed
	StatusSkipped
)

func (s RecordStatus) String() string {
	switch s {
	case StatusPassed:
		return "PASSED"
	case StatusFailed:
		return "FAILED"
	case StatusSkipped:
		return "SKIPPED"
	default:
		return fmt.Sprintf("RecordStatus(%d)", int(s))
	}
}

// AssertionRecord is one observation produced by an executor, per
// spec.md §3.
type AssertionRecord struct {
	Status   RecordStatus
	Rule     string
	Message  string
	Expected string
	Actual   string
	Location string
}

// TestStatus is the terminal, tagged-union verdict of a session (spec.md
// §3). Exactly one of the Kind-selected fields is meaningful.
type TestStatus struct {
	Kind TestStatusKind

	// AssertionFailed payload.
	Message  string
	Expected string
	Actual   string
	Cause    error

	// ExecutionError payload.
	Err error
}

// TestStatusKind discriminates TestStatus.
type TestStatusKind int

const (
	StatusPassedKind TestStatusKind = iota
	StatusAssertionFailedKind
	StatusExecutionErrorKind
	StatusDisabledKind
	StatusAbortedKind
)

func (k TestStatusKind) String() string {
	switch k {
	case StatusPassedKind:
		return "Passed"
	case StatusAssertionFailedKind:
		return "AssertionFailed"
	case StatusExecutionErrorKind:
		return "ExecutionError"
	case StatusDisabledKind:
		return "Disabled"
	case StatusAbortedKind:
		return "Aborted"
	default:
		return fmt.Sprintf("TestStatusKind(%d)", int(k))
	}
}

// Passed builds the terminal success status.
func Passed() TestStatus { return TestStatus{Kind: StatusPassedKind} }

// AssertionFailed builds a terminal assertion-failure status.
func AssertionFailed(msg, expected, actual string, cause error) TestStatus {
	return TestStatus{Kind: StatusAssertionFailedKind, Message: msg, Expected: expected, Actual: actual, Cause: cause}
}

// ExecutionError builds a terminal unhandled-error status.
func ExecutionError(err error) TestStatus {
	return TestStatus{Kind: StatusExecutionErrorKind, Err: err}
}

// Disabled builds the terminal "not run" status.
func Disabled() TestStatus { return TestStatus{Kind: StatusDisabledKind} }

// Aborted builds the terminal "could not complete" status.
func Aborted(err error) TestStatus { return TestStatus{Kind: StatusAbortedKind, Err: err} }

func (t TestStatus) String() string {
	switch t.Kind {
	case StatusAssertionFailedKind:
		return fmt.Sprintf("AssertionFailed(%s expected=%s actual=%s)", t.Message, t.Expected, t.Actual)
	case StatusExecutionErrorKind:
		return fmt.Sprintf("ExecutionError(%v)", t.Err)
	case StatusAbortedKind:
		return fmt.Sprintf("Aborted(%v)", t.Err)
	default:
		return t.Kind.String()
	}
}

// SessionState names where a Session sits in its one-way lifecycle
// (spec.md §3): PENDING -> RUNNING -> TERMINAL.
type SessionState int

const (
	StatePending SessionState = iota
	StateRunning
	StateTerminal
)

func (s SessionState) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateRunning:
		return "RUNNING"
	case StateTerminal:
		return "TERMINAL"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// EphemeralContext holds the subject, dependency registry, and trace for
// one session; created by the Test Instance Factory (C9), read by the
// executors (C10-C12), and discarded at end-of-session (spec.md §3
// "Ownership").
type EphemeralContext struct {
	mu      sync.Mutex
	RunID   string
	Subject any
	Deps    map[string]any
	Trace   []TraceEvent
	TraceCap int
}

// TraceEvent is one append-only diagnostic entry.
type TraceEvent struct {
	Seq     int
	Message string
	Fields  map[string]any
}

// NewEphemeralContext constructs a fresh per-session context.
func NewEphemeralContext(runID string, traceCap int) *EphemeralContext {
	return &EphemeralContext{
		RunID:    runID,
		Deps:     make(map[string]any),
		TraceCap: traceCap,
	}
}

// AppendTrace adds one event, dropping it once TraceCap is reached (>0)
// rather than growing unbounded, per spec.md §4.6 "append-only, unbounded
// events dropped when optional cap reached".
func (c *EphemeralContext) AppendTrace(message string, fields map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.TraceCap > 0 && len(c.Trace) >= c.TraceCap {
		return
	}
	c.Trace = append(c.Trace, TraceEvent{Seq: len(c.Trace), Message: message, Fields: fields})
}

// Session is the one-way PENDING -> RUNNING -> TERMINAL state machine
// wrapping one EphemeralContext.
type Session struct {
	spec  TestSpecification
	state SessionState
	ctx   *EphemeralContext
}

// NewSession constructs a PENDING session for spec, not yet backed by an
// EphemeralContext (the Test Instance Factory attaches one on Start).
func NewSession(s TestSpecification) *Session {
	return &Session{spec: s, state: StatePending}
}

// Spec returns the specification this session runs.
func (s *Session) Spec() TestSpecification { return s.spec }

// State returns the session's current lifecycle state.
func (s *Session) State() SessionState { return s.state }

// Start transitions PENDING -> RUNNING, attaching ctx. Returns
// KontraktLifecycleException if called outside PENDING.
func (s *Session) Start(ctx *EphemeralContext) error {
	if s.state != StatePending {
		return &kerrors.KontraktLifecycleException{Msg: fmt.Sprintf("cannot start a session in state %s", s.state)}
	}
	s.ctx = ctx
	s.state = StateRunning
	return nil
}

// Context returns the session's EphemeralContext. Nil until Start.
func (s *Session) Context() *EphemeralContext { return s.ctx }

// Finish transitions RUNNING -> TERMINAL. Returns
// KontraktLifecycleException if called outside RUNNING.
func (s *Session) Finish() error {
	if s.state != StateRunning {
		return &kerrors.KontraktLifecycleException{Msg: fmt.Sprintf("cannot finish a session in state %s", s.state)}
	}
	s.state = StateTerminal
	return nil
}
