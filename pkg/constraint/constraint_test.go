package constraint_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kontrakt/pkg/constraint"
)

func TestSet_FindAndHas(t *testing.T) {
	s := constraint.Set{constraint.NotNull(), constraint.IntRange(1, 10)}

	require.True(t, s.Has(constraint.KindNotNull))
	require.True(t, s.Has(constraint.KindIntRange))
	require.False(t, s.Has(constraint.KindEmail))

	c, ok := s.Find(constraint.KindIntRange)
	require.True(t, ok)
	require.Equal(t, 1, c.IntMin)
	require.Equal(t, 10, c.IntMax)

	_, ok = s.Find(constraint.KindEmail)
	require.False(t, ok)
}

func TestSet_FindAll(t *testing.T) {
	s := constraint.Set{constraint.NotNull(), constraint.NotBlank(), constraint.StringLength(1, 5)}
	got := s.FindAll(constraint.KindNotNull, constraint.KindNotBlank)
	require.Len(t, got, 2)
	require.Equal(t, constraint.KindNotNull, got[0].Kind)
	require.Equal(t, constraint.KindNotBlank, got[1].Kind)
}

func TestKind_StringIsStable(t *testing.T) {
	require.Equal(t, "IntRange", constraint.KindIntRange.String())
	require.Equal(t, "Uuid", constraint.KindUUID.String())
	require.Contains(t, constraint.Kind(9999).String(), "Unknown")
}

func TestConstraint_StringRendersPayload(t *testing.T) {
	c := constraint.IntRange(3, 7)
	require.Contains(t, c.String(), "min=3")
	require.Contains(t, c.String(), "max=7")
}

func TestTimeUnit_Seconds(t *testing.T) {
	require.Equal(t, int64(1), constraint.UnitSeconds.Seconds())
	require.Equal(t, int64(86400), constraint.UnitDays.Seconds())
	require.Equal(t, int64(365*86400), constraint.UnitYears.Seconds())
}
