package policy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kontrakt/pkg/policy"
)

func TestLoadExecutionPolicyFromBytes_FillsDefaults(t *testing.T) {
	p, err := policy.LoadExecutionPolicyFromBytes([]byte("{}\n"))
	require.NoError(t, err)
	require.NotZero(t, p.Determinism.Seed)
	require.Equal(t, 5000, p.Resources.TimeoutMs)
	require.Equal(t, policy.RetentionOnFailure, p.Auditing.Retention)
	require.Equal(t, policy.AuditSimple, p.Auditing.Depth)
}

func TestLoadExecutionPolicyFromBytes_HonoursExplicitSeed(t *testing.T) {
	p, err := policy.LoadExecutionPolicyFromBytes([]byte("determinism:\n  seed: 12345\n"))
	require.NoError(t, err)
	require.Equal(t, uint64(12345), p.Determinism.Seed)
}

func TestLoadExecutionPolicyFromBytes_RejectsUnknownRetention(t *testing.T) {
	_, err := policy.LoadExecutionPolicyFromBytes([]byte("auditing:\n  retention: SOMETIMES\n"))
	require.Error(t, err)
}

func TestLoadExecutionPolicyFromBytes_RejectsNegativeTimeout(t *testing.T) {
	_, err := policy.LoadExecutionPolicyFromBytes([]byte("resources:\n  timeoutMs: -1\n"))
	require.Error(t, err)
}

func TestLoadDiscoveryPolicyFromBytes_DefaultsIncludeToEverything(t *testing.T) {
	p, err := policy.LoadDiscoveryPolicyFromBytes([]byte("{}\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"**"}, p.Include)
}

func TestLoadDiscoveryPolicyFromBytes_RejectsUnknownMode(t *testing.T) {
	_, err := policy.LoadDiscoveryPolicyFromBytes([]byte("modes: [NotAMode]\n"))
	require.Error(t, err)
}

func TestLoadReportingDirectivesFromBytes_RoundTrips(t *testing.T) {
	r, err := policy.LoadReportingDirectivesFromBytes([]byte("tracePath: /tmp/trace.ndjson\nfailFast: true\n"))
	require.NoError(t, err)
	require.Equal(t, "/tmp/trace.ndjson", r.TracePath)
	require.True(t, r.FailFast)
}

func TestLoadExecutionPolicy_MissingFileReturnsError(t *testing.T) {
	_, err := policy.LoadExecutionPolicy("/nonexistent/path/policy.yaml")
	require.Error(t, err)
}
