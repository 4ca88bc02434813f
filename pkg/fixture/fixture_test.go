package fixture_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"kontrakt/pkg/constraint"
	"kontrakt/pkg/fixture"
	"kontrakt/pkg/gencontext"
	"kontrakt/pkg/genrequest"
	"kontrakt/pkg/kerrors"
	"kontrakt/pkg/typedesc"
	"kontrakt/pkg/valuevalidator"
)

func newCtx(seed uint64) *gencontext.Context {
	return gencontext.New(seed, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestGenerate_IntRangeProducesInBounds(t *testing.T) {
	ctx := newCtx(1)
	req := genrequest.New(typedesc.Int(), "count", constraint.Set{constraint.IntRange(1, 10)}, false)
	for i := 0; i < 200; i++ {
		v, err := fixture.Generate(req, ctx)
		require.NoError(t, err)
		n := v.(int)
		require.GreaterOrEqual(t, n, 1)
		require.LessOrEqual(t, n, 10)
	}
}

func TestGenerate_NonNullableNeverReturnsNil(t *testing.T) {
	ctx := newCtx(2)
	req := genrequest.New(typedesc.String(), "name", constraint.Set{constraint.NotNull()}, false)
	for i := 0; i < 50; i++ {
		v, err := fixture.Generate(req, ctx)
		require.NoError(t, err)
		require.NotNil(t, v)
	}
}

func TestGenerate_MustBeNullAlwaysReturnsNil(t *testing.T) {
	ctx := newCtx(3)
	req := genrequest.New(typedesc.String(), "name", constraint.Set{constraint.MustBeNull()}, true)
	v, err := fixture.Generate(req, ctx)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestGenerate_RejectsIllFormedRequestUpFront(t *testing.T) {
	ctx := newCtx(4)
	req := genrequest.New(typedesc.Bool(), "flag", constraint.Set{constraint.AssertTrue(), constraint.AssertFalse()}, false)
	_, err := fixture.Generate(req, ctx)
	require.Error(t, err)
	require.IsType(t, &kerrors.ConflictingAnnotations{}, err)
}

func TestGenerateValidBoundaries_IncludesRangeEndpoints(t *testing.T) {
	ctx := newCtx(5)
	req := genrequest.New(typedesc.Int(), "count", constraint.Set{constraint.IntRange(3, 9)}, false)
	vals, err := fixture.GenerateValidBoundaries(req, ctx)
	require.NoError(t, err)
	require.Contains(t, vals, 3)
	require.Contains(t, vals, 9)
}

func TestGenerateValidBoundaries_NullableSlotIncludesNull(t *testing.T) {
	ctx := newCtx(6)
	req := genrequest.New(typedesc.String(), "name", nil, true)
	vals, err := fixture.GenerateValidBoundaries(req, ctx)
	require.NoError(t, err)
	require.Contains(t, vals, nil)
}

func TestGenerateInvalid_EveryValueViolatesTheContract(t *testing.T) {
	ctx := newCtx(7)
	req := genrequest.New(typedesc.Int(), "count", constraint.Set{constraint.IntRange(1, 10)}, false)
	vals, err := fixture.GenerateInvalid(req, ctx)
	require.NoError(t, err)
	require.NotEmpty(t, vals)
	for _, v := range vals {
		require.Error(t, valuevalidator.Validate(req, v, ctx.Clock()))
	}
}

func TestGenerate_RecursiveObjectFallsBackToMockInsteadOfOverflowing(t *testing.T) {
	self := &typedesc.Descriptor{Kind: typedesc.KindObject, ID: "Node"}
	self.Fields = []typedesc.Field{
		{Name: "next", Type: self, Nullable: true},
	}
	self.Construct = func(args []any) (any, error) {
		return map[string]any{"next": args[0]}, nil
	}

	ctx := newCtx(8)
	req := genrequest.New(self, "root", nil, false)

	done := make(chan struct{})
	var v any
	var err error
	go func() {
		v, err = fixture.Generate(req, ctx)
		close(done)
	}()
	select {
	case <-done:
		require.NoError(t, err)
		require.NotNil(t, v)
	case <-time.After(5 * time.Second):
		t.Fatal("recursive generation did not terminate")
	}
}

// TestProperty_ConstraintSoundness is P2: every generated value passes
// the validator, and every invalid value fails it.
func TestProperty_ConstraintSoundness(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-1000, 1000).Draw(rt, "lo")
		width := rapid.IntRange(0, 500).Draw(rt, "width")
		hi := lo + width
		seed := rapid.Uint64().Draw(rt, "seed")

		ctx := newCtx(seed)
		req := genrequest.New(typedesc.Int(), "n", constraint.Set{constraint.IntRange(lo, hi)}, false)

		v, err := fixture.Generate(req, ctx)
		if err != nil {
			rt.Fatalf("generate failed: %v", err)
		}
		if verr := valuevalidator.Validate(req, v, ctx.Clock()); verr != nil {
			rt.Fatalf("generated value %v violated its own constraint: %v", v, verr)
		}

		invalid, err := fixture.GenerateInvalid(req, ctx)
		if err != nil {
			rt.Fatalf("generate invalid failed: %v", err)
		}
		for _, bad := range invalid {
			if bad == nil {
				continue
			}
			if verr := valuevalidator.Validate(req, bad, ctx.Clock()); verr == nil {
				rt.Fatalf("invalid value %v did not violate the contract", bad)
			}
		}
	})
}

// TestProperty_Determinism is P1 restricted to the Fixture Generator:
// the same seed and request produce the same sequence of values.
func TestProperty_Determinism(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		req := genrequest.New(typedesc.Int(), "n", constraint.Set{constraint.IntRange(0, 100)}, false)

		ctx1 := newCtx(seed)
		ctx2 := newCtx(seed)
		for i := 0; i < 20; i++ {
			v1, err1 := fixture.Generate(req, ctx1)
			v2, err2 := fixture.Generate(req, ctx2)
			if err1 != nil || err2 != nil {
				rt.Fatalf("unexpected error: %v / %v", err1, err2)
			}
			if v1 != v2 {
				rt.Fatalf("same seed diverged: %v != %v", v1, v2)
			}
		}
	})
}

// TestProperty_BoundaryCoverage is P3: GenerateValidBoundaries always
// includes both range endpoints, for any well-formed IntRange.
func TestProperty_BoundaryCoverage(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-1000, 1000).Draw(rt, "lo")
		width := rapid.IntRange(0, 500).Draw(rt, "width")
		hi := lo + width
		seed := rapid.Uint64().Draw(rt, "seed")

		ctx := newCtx(seed)
		req := genrequest.New(typedesc.Int(), "n", constraint.Set{constraint.IntRange(lo, hi)}, false)

		vals, err := fixture.GenerateValidBoundaries(req, ctx)
		if err != nil {
			rt.Fatalf("boundaries failed: %v", err)
		}
		if !containsInt(vals, lo) {
			rt.Fatalf("boundaries %v missing lower endpoint %d", vals, lo)
		}
		if !containsInt(vals, hi) {
			rt.Fatalf("boundaries %v missing upper endpoint %d", vals, hi)
		}
	})
}

func containsInt(vals []any, want int) bool {
	for _, v := range vals {
		if n, ok := v.(int); ok && n == want {
			return true
		}
	}
	return false
}

// TestProperty_NullabilityDiscipline is P4: a MustBeNull slot always
// generates nil, and a NotNull slot never does, regardless of seed.
func TestProperty_NullabilityDiscipline(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		ctx := newCtx(seed)

		mustNull := genrequest.New(typedesc.String(), "a", constraint.Set{constraint.MustBeNull()}, true)
		v, err := fixture.Generate(mustNull, ctx)
		if err != nil {
			rt.Fatalf("must-null generate failed: %v", err)
		}
		if v != nil {
			rt.Fatalf("MustBeNull slot produced non-nil value %v", v)
		}

		notNull := genrequest.New(typedesc.String(), "b", constraint.Set{constraint.NotNull()}, false)
		v2, err := fixture.Generate(notNull, ctx)
		if err != nil {
			rt.Fatalf("not-null generate failed: %v", err)
		}
		if v2 == nil {
			rt.Fatalf("NotNull slot produced nil")
		}
	})
}

// TestProperty_ValidatorDuality is P6: GenerateInvalid is total and
// non-empty for any slot whose constraint has a defined negative side
// (here, IntRange), across random bounds and seeds.
func TestProperty_ValidatorDuality(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-1000, 1000).Draw(rt, "lo")
		width := rapid.IntRange(0, 500).Draw(rt, "width")
		hi := lo + width
		seed := rapid.Uint64().Draw(rt, "seed")

		ctx := newCtx(seed)
		req := genrequest.New(typedesc.Int(), "n", constraint.Set{constraint.IntRange(lo, hi)}, false)

		vals, err := fixture.GenerateInvalid(req, ctx)
		if err != nil {
			rt.Fatalf("generate invalid failed: %v", err)
		}
		if len(vals) == 0 {
			rt.Fatalf("IntRange has a defined negative side but GenerateInvalid returned nothing")
		}
		for _, v := range vals {
			if verr := valuevalidator.Validate(req, v, ctx.Clock()); verr == nil {
				rt.Fatalf("GenerateInvalid value %v passed validation", v)
			}
		}
	})
}

// TestProperty_CycleSafety is P5: a self-referential object graph always
// terminates (via mock substitution) rather than recursing forever,
// across a range of seeds.
func TestProperty_CycleSafety(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")

		self := &typedesc.Descriptor{Kind: typedesc.KindObject, ID: "Node"}
		self.Fields = []typedesc.Field{{Name: "next", Type: self, Nullable: true}}
		self.Construct = func(args []any) (any, error) {
			return map[string]any{"next": args[0]}, nil
		}

		ctx := newCtx(seed)
		req := genrequest.New(self, "root", nil, false)

		done := make(chan struct{})
		var genErr error
		go func() {
			_, genErr = fixture.Generate(req, ctx)
			close(done)
		}()
		select {
		case <-done:
			if genErr != nil {
				rt.Fatalf("recursive generation errored: %v", genErr)
			}
		case <-time.After(5 * time.Second):
			rt.Fatalf("recursive generation did not terminate for seed %d", seed)
		}
	})
}
