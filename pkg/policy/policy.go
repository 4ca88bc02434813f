// Package policy loads the CLI-facing configuration of spec.md §6:
// ExecutionPolicy, DiscoveryPolicy, and ReportingDirectives. It mirrors
// the teacher's pkg/dungeon Config: YAML-tagged structs, a LoadX /
// LoadXFromBytes function pair, and a Validate() error method per
// struct.
package policy

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Retention names how long the trace sink keeps a session's events, per
// spec.md §6.
type Retention string

const (
	RetentionAlways    Retention = "ALWAYS"
	RetentionOnFailure Retention = "ON_FAILURE"
	RetentionNone      Retention = "NONE"
)

var validRetentions = []Retention{RetentionAlways, RetentionOnFailure, RetentionNone}

// AuditDepth names how much diagnostic detail the executor records, per
// spec.md §6.
type AuditDepth string

const (
	AuditSimple      AuditDepth = "SIMPLE"
	AuditExplainable AuditDepth = "EXPLAINABLE"
)

var validAuditDepths = []AuditDepth{AuditSimple, AuditExplainable}

// DeterminismCfg fixes or auto-generates the session seed.
type DeterminismCfg struct {
	// Seed is the master seed for one session's GenerationContext.
	// Use 0 to auto-generate from the current time.
	Seed uint64 `yaml:"seed" json:"seed"`
}

// AuditingCfg controls how much the trace sink retains and how deep
// executor diagnostics go.
type AuditingCfg struct {
	Retention Retention  `yaml:"retention" json:"retention"`
	Depth     AuditDepth `yaml:"depth" json:"depth"`
}

// ResourcesCfg bounds per-session execution.
type ResourcesCfg struct {
	// TimeoutMs is the per-session cooperative timeout (default 5000ms,
	// spec.md §5 "Cancellation & timeouts").
	TimeoutMs int `yaml:"timeoutMs" json:"timeoutMs"`
}

// ExecutionPolicy is the `UserControlOptions` mapping named in spec.md
// §6: determinism, auditing, and resource bounds for one session.
type ExecutionPolicy struct {
	Determinism DeterminismCfg `yaml:"determinism" json:"determinism"`
	Auditing    AuditingCfg    `yaml:"auditing" json:"auditing"`
	Resources   ResourcesCfg   `yaml:"resources" json:"resources"`
}

// LoadExecutionPolicy reads and validates a YAML ExecutionPolicy file.
func LoadExecutionPolicy(path string) (*ExecutionPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading execution policy: %w", err)
	}
	return LoadExecutionPolicyFromBytes(data)
}

// LoadExecutionPolicyFromBytes parses an ExecutionPolicy from YAML
// bytes, useful for testing and programmatic config generation.
func LoadExecutionPolicyFromBytes(data []byte) (*ExecutionPolicy, error) {
	var p ExecutionPolicy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if p.Determinism.Seed == 0 {
		p.Determinism.Seed = generateSeed()
	}
	if p.Resources.TimeoutMs == 0 {
		p.Resources.TimeoutMs = 5000
	}
	if p.Auditing.Retention == "" {
		p.Auditing.Retention = RetentionOnFailure
	}
	if p.Auditing.Depth == "" {
		p.Auditing.Depth = AuditSimple
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &p, nil
}

// Validate checks all ExecutionPolicy constraints.
func (p *ExecutionPolicy) Validate() error {
	if p.Resources.TimeoutMs <= 0 {
		return fmt.Errorf("resources.timeoutMs must be positive, got %d", p.Resources.TimeoutMs)
	}
	if !oneOfRetention(p.Auditing.Retention) {
		return fmt.Errorf("auditing.retention %q is not one of %v", p.Auditing.Retention, validRetentions)
	}
	if !oneOfDepth(p.Auditing.Depth) {
		return fmt.Errorf("auditing.depth %q is not one of %v", p.Auditing.Depth, validAuditDepths)
	}
	return nil
}

func oneOfRetention(r Retention) bool {
	for _, v := range validRetentions {
		if v == r {
			return true
		}
	}
	return false
}

func oneOfDepth(d AuditDepth) bool {
	for _, v := range validAuditDepths {
		if v == d {
			return true
		}
	}
	return false
}

// DiscoveryPolicy controls which subjects and modes a CLI invocation
// selects, per spec.md §6.
type DiscoveryPolicy struct {
	// Include lists package/type globs to scan.
	Include []string `yaml:"include" json:"include"`

	// Exclude lists package/type globs to skip even if matched by Include.
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`

	// Modes restricts discovery to the named test modes; empty means all
	// three (ContractAuto, UserScenario, DataCompliance).
	Modes []string `yaml:"modes,omitempty" json:"modes,omitempty"`
}

// LoadDiscoveryPolicy reads and validates a YAML DiscoveryPolicy file.
func LoadDiscoveryPolicy(path string) (*DiscoveryPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading discovery policy: %w", err)
	}
	return LoadDiscoveryPolicyFromBytes(data)
}

// LoadDiscoveryPolicyFromBytes parses a DiscoveryPolicy from YAML bytes.
func LoadDiscoveryPolicyFromBytes(data []byte) (*DiscoveryPolicy, error) {
	var p DiscoveryPolicy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if len(p.Include) == 0 {
		p.Include = []string{"**"}
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &p, nil
}

var validModeNames = []string{"ContractAuto", "UserScenario", "DataCompliance"}

// Validate checks all DiscoveryPolicy constraints.
func (p *DiscoveryPolicy) Validate() error {
	if len(p.Include) == 0 {
		return fmt.Errorf("include must list at least one glob")
	}
	for i, m := range p.Modes {
		if !containsMode(m) {
			return fmt.Errorf("modes[%d] %q is not one of %v", i, m, validModeNames)
		}
	}
	return nil
}

func containsMode(m string) bool {
	for _, v := range validModeNames {
		if v == m {
			return true
		}
	}
	return false
}

// ReportingDirectives controls where and how session results surface,
// per spec.md §6 "Result Publisher" / "Trace Sink".
type ReportingDirectives struct {
	// TracePath is where the reference NDJSON trace sink snapshots to;
	// empty disables snapshotting.
	TracePath string `yaml:"tracePath,omitempty" json:"tracePath,omitempty"`

	// FailFast stops discovery at the first AssertionFailed/ExecutionError.
	FailFast bool `yaml:"failFast" json:"failFast"`

	// Quiet suppresses PASSED records from the CLI's own output.
	Quiet bool `yaml:"quiet" json:"quiet"`
}

// LoadReportingDirectives reads and validates a YAML ReportingDirectives file.
func LoadReportingDirectives(path string) (*ReportingDirectives, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading reporting directives: %w", err)
	}
	return LoadReportingDirectivesFromBytes(data)
}

// LoadReportingDirectivesFromBytes parses ReportingDirectives from YAML bytes.
func LoadReportingDirectivesFromBytes(data []byte) (*ReportingDirectives, error) {
	var r ReportingDirectives
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &r, nil
}

// Validate checks all ReportingDirectives constraints. There are none
// beyond well-formed YAML today; the method exists so callers can treat
// every policy struct uniformly and so future fields have a home.
func (r *ReportingDirectives) Validate() error { return nil }

// generateSeed produces a non-zero seed from the current time, mirroring
// the teacher's dungeon.generateSeed: nanosecond precision, folded
// positive, never zero.
func generateSeed() uint64 {
	now := time.Now().UnixNano()
	if now < 0 {
		now = -now
	}
	seed := uint64(now) ^ uint64(rand.Int63())
	if seed == 0 {
		seed = 1
	}
	return seed
}
