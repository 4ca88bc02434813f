package tracesink_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kontrakt/pkg/tracesink"
)

func TestSink_EmitAccumulatesEvents(t *testing.T) {
	s := tracesink.New(zap.NewNop())
	s.Emit("run-1", tracesink.KindExecutionTrace, "invoked Foo", nil)
	s.Emit("run-1", tracesink.KindTestVerdict, "Passed", map[string]any{"seed": uint64(1)})

	events := s.Events()
	require.Len(t, events, 2)
	require.Equal(t, 0, events[0].Seq)
	require.Equal(t, tracesink.KindTestVerdict, events[1].Kind)
}

func TestSink_SnapshotToWritesNDJSON(t *testing.T) {
	s := tracesink.New(zap.NewNop())
	s.Emit("run-1", tracesink.KindDesignDecision, "chose strategy X", nil)
	s.Emit("run-1", tracesink.KindTestVerdict, "Passed", nil)

	path := filepath.Join(t.TempDir(), "trace.ndjson")
	require.NoError(t, s.SnapshotTo(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := splitLines(string(data))
	require.Len(t, lines, 2)
}

func TestSink_ResetClearsEvents(t *testing.T) {
	s := tracesink.New(zap.NewNop())
	s.Emit("run-1", tracesink.KindExecutionTrace, "x", nil)
	s.Reset()
	require.Empty(t, s.Events())
}

func TestSink_CloseIsIdempotent(t *testing.T) {
	s := tracesink.New(zap.NewNop())
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i, c := range s {
		if c == '\n' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
