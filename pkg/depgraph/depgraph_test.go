package depgraph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kontrakt/pkg/depgraph"
	"kontrakt/pkg/kerrors"
)

func TestWalker_EnterLeave_NoCycle(t *testing.T) {
	w := depgraph.NewWalker()
	require.NoError(t, w.Enter("A"))
	require.NoError(t, w.Enter("B"))
	w.Leave("B")
	w.Leave("A")
	require.Empty(t, w.Path())
}

func TestWalker_DetectsDirectCycle(t *testing.T) {
	w := depgraph.NewWalker()
	require.NoError(t, w.Enter("A"))
	defer w.Leave("A")

	err := w.Enter("A")
	require.Error(t, err)
	require.IsType(t, &kerrors.CircularDependency{}, err)
}

func TestWalker_DetectsIndirectCycle(t *testing.T) {
	w := depgraph.NewWalker()
	require.NoError(t, w.Enter("A"))
	defer w.Leave("A")
	require.NoError(t, w.Enter("B"))
	defer w.Leave("B")

	err := w.Enter("A")
	require.Error(t, err)
	cycleErr, ok := err.(*kerrors.CircularDependency)
	require.True(t, ok)
	require.Equal(t, []string{"A", "B", "A"}, cycleErr.Path)
}

func TestWalker_SiblingsDoNotFalsePositive(t *testing.T) {
	w := depgraph.NewWalker()
	require.NoError(t, w.Enter("A"))
	require.NoError(t, w.Enter("B"))
	w.Leave("B")
	w.Leave("A")

	require.NoError(t, w.Enter("B"))
	w.Leave("B")
}
