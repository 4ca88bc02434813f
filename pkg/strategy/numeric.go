package strategy

import (
	"math"

	"kontrakt/pkg/constraint"
	"kontrakt/pkg/gencontext"
	"kontrakt/pkg/genrequest"
	"kontrakt/pkg/typedesc"
)

// NumericStrategy implements spec.md §4.2.2 for Int, Long, Double, Float
// and BigDecimal slots. All five share one effective-range algebra;
// only the native bounds and the Go type of the returned value differ.
type NumericStrategy struct{}

// NewNumericStrategy constructs the numeric strategy.
func NewNumericStrategy() *NumericStrategy { return &NumericStrategy{} }

func (s *NumericStrategy) Name() string { return "numeric" }

func (s *NumericStrategy) Supports(req genrequest.Request) bool {
	if req.Type == nil || req.Type.Kind != typedesc.KindPrimitive {
		return false
	}
	switch req.Type.Primitive {
	case typedesc.PrimitiveInt, typedesc.PrimitiveLong, typedesc.PrimitiveDouble,
		typedesc.PrimitiveFloat, typedesc.PrimitiveBigDecimal:
		return true
	default:
		return false
	}
}

// nativeBounds returns the type's own representable range before any
// constraint narrows it.
func nativeBounds(p typedesc.Primitive) (float64, float64) {
	switch p {
	case typedesc.PrimitiveInt:
		return math.MinInt32, math.MaxInt32
	case typedesc.PrimitiveLong:
		return math.MinInt64, math.MaxInt64
	case typedesc.PrimitiveFloat:
		return -math.MaxFloat32, math.MaxFloat32
	default: // Double, BigDecimal
		return -1e15, 1e15
	}
}

const defaultEpsilon = 1e-5

func epsilonFor(req genrequest.Request) float64 {
	if d, ok := req.Find(constraint.KindDigits); ok && d.DigitsFraction > 0 {
		return math.Pow(10, -float64(d.DigitsFraction))
	}
	return defaultEpsilon
}

// effectiveRange intersects the type's native range with every declared
// constraint per spec.md §4.2.2.
func effectiveRange(req genrequest.Request) (min, max float64) {
	min, max = nativeBounds(req.Type.Primitive)
	isIntegral := req.Type.Primitive == typedesc.PrimitiveInt || req.Type.Primitive == typedesc.PrimitiveLong

	for _, c := range req.Constraint {
		switch c.Kind {
		case constraint.KindIntRange:
			min, max = maxOf(min, float64(c.IntMin)), minOf(max, float64(c.IntMax))
		case constraint.KindLongRange:
			min, max = maxOf(min, float64(c.LongMin)), minOf(max, float64(c.LongMax))
		case constraint.KindDoubleRange:
			min, max = maxOf(min, c.DoubleMin), minOf(max, c.DoubleMax)
		case constraint.KindDecimalMin:
			eps := epsilonFor(req)
			v := c.DecimalValue
			if !c.DecimalInclusive {
				v += eps
			}
			min = maxOf(min, v)
		case constraint.KindDecimalMax:
			eps := epsilonFor(req)
			v := c.DecimalValue
			if !c.DecimalInclusive {
				v -= eps
			}
			max = minOf(max, v)
		case constraint.KindPositive:
			if isIntegral {
				min = maxOf(min, 1)
			} else {
				min = maxOf(min, epsilonFor(req))
			}
		case constraint.KindPositiveOrZero:
			min = maxOf(min, 0)
		case constraint.KindNegative:
			if isIntegral {
				max = minOf(max, -1)
			} else {
				max = minOf(max, -epsilonFor(req))
			}
		case constraint.KindNegativeOrZero:
			max = minOf(max, 0)
		case constraint.KindDigits:
			limit := math.Pow(10, float64(c.DigitsInteger)) - math.Pow(10, -float64(c.DigitsFraction))
			min, max = maxOf(min, -limit), minOf(max, limit)
		}
	}

	// Degenerate intersection: collapse to the min per spec.md §4.2.2.
	if min > max {
		max = min
	}
	return min, max
}

func minOf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxOf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func (s *NumericStrategy) Generate(req genrequest.Request, ctx *gencontext.Context, _ Reentry) (any, error) {
	min, max := effectiveRange(req)
	v := smartFuzz(ctx, min, max)
	return coerce(req.Type.Primitive, v), nil
}

// smartFuzz implements the candidate set documented in spec.md §4.2.2:
// {effective-min, effective-max, min+1, max-1, 0 if in range, a uniform
// random point}.
func smartFuzz(ctx *gencontext.Context, min, max float64) float64 {
	candidates := []float64{min, max}
	if max-min >= 2 {
		candidates = append(candidates, min+1, max-1)
	}
	if min <= 0 && 0 <= max {
		candidates = append(candidates, 0)
	}
	if max > min {
		candidates = append(candidates, ctx.RNG.Float64Range(min, max))
	} else {
		candidates = append(candidates, min)
	}
	idx := ctx.RNG.Choice(len(candidates))
	return candidates[idx]
}

func coerce(p typedesc.Primitive, v float64) any {
	switch p {
	case typedesc.PrimitiveInt:
		return int(math.Round(v))
	case typedesc.PrimitiveLong:
		return int64(math.Round(v))
	case typedesc.PrimitiveFloat:
		return float32(v)
	default: // Double, BigDecimal
		return v
	}
}

func (s *NumericStrategy) Boundaries(req genrequest.Request, _ *gencontext.Context, _ Reentry) ([]any, error) {
	min, max := effectiveRange(req)
	out := []any{coerce(req.Type.Primitive, min), coerce(req.Type.Primitive, max)}
	if d, ok := req.Find(constraint.KindDigits); ok {
		limit := math.Pow(10, float64(d.DigitsInteger)) - math.Pow(10, -float64(d.DigitsFraction))
		if limit >= min && limit <= max {
			out = append(out, coerce(req.Type.Primitive, limit))
		}
		if -limit >= min && -limit <= max {
			out = append(out, coerce(req.Type.Primitive, -limit))
		}
	}
	return out, nil
}

func (s *NumericStrategy) Invalid(req genrequest.Request, _ *gencontext.Context, _ Reentry) ([]any, error) {
	min, max := effectiveRange(req)
	nmin, nmax := nativeBounds(req.Type.Primitive)
	step := 1.0
	if req.Type.Primitive == typedesc.PrimitiveDouble || req.Type.Primitive == typedesc.PrimitiveFloat ||
		req.Type.Primitive == typedesc.PrimitiveBigDecimal {
		step = epsilonFor(req)
	}

	var out []any
	if min-step >= nmin {
		out = append(out, coerce(req.Type.Primitive, min-step))
	}
	if max+step <= nmax {
		out = append(out, coerce(req.Type.Primitive, max+step))
	}
	return out, nil
}
