package strategy

import (
	"time"

	"kontrakt/pkg/constraint"
	"kontrakt/pkg/gencontext"
	"kontrakt/pkg/genrequest"
	"kontrakt/pkg/kerrors"
	"kontrakt/pkg/typedesc"
)

// TimeStrategy implements spec.md §4.2.4.
//
// Open question resolution (spec.md §9, second bullet): the annotation's
// own zone overrides the context/session zone when present and valid;
// otherwise the context zone is used. Since GenerationContext carries no
// ambient zone of its own, "context zone" resolves to UTC.
type TimeStrategy struct{}

// NewTimeStrategy constructs the time strategy.
func NewTimeStrategy() *TimeStrategy { return &TimeStrategy{} }

func (s *TimeStrategy) Name() string { return "time" }

func (s *TimeStrategy) Supports(req genrequest.Request) bool {
	if req.Type == nil || req.Type.Kind != typedesc.KindPrimitive {
		return false
	}
	switch req.Type.Primitive {
	case typedesc.PrimitiveInstant, typedesc.PrimitiveLocalDate, typedesc.PrimitiveLocalDateTime,
		typedesc.PrimitiveZonedDateTime, typedesc.PrimitiveEpochDate:
		return true
	default:
		return false
	}
}

func timeConstraint(req genrequest.Request) (constraint.Constraint, bool) {
	for _, k := range []constraint.Kind{
		constraint.KindPast, constraint.KindPastOrPresent,
		constraint.KindFuture, constraint.KindFutureOrPresent,
	} {
		if c, ok := req.Find(k); ok {
			return c, true
		}
	}
	return constraint.Constraint{}, false
}

func resolveZone(c constraint.Constraint) (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC, nil // invalid annotation zone: fall back to context zone
	}
	return loc, nil
}

func parseAnchor(ctx *gencontext.Context, c constraint.Constraint, zone *time.Location) (time.Time, error) {
	if c.TimeBaseValue.Now {
		return ctx.Clock().In(zone), nil
	}
	lit := c.TimeBaseValue.Literal
	if t, err := time.Parse(time.RFC3339, lit); err == nil {
		return t.In(zone), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", lit, zone); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", lit, zone); err == nil {
		return t, nil
	}
	return time.Time{}, &kerrors.InvalidAnnotationValue{
		Field: "base", Value: lit, Reason: "not a valid NOW literal, ISO instant, date, or datetime",
	}
}

func durationSeconds(c constraint.Constraint) (int64, error) {
	if c.TimeValue <= 0 {
		return 0, &kerrors.InvalidAnnotationValue{
			Field: "value", Value: c.TimeValue, Reason: "must be > 0",
		}
	}
	unitSecs := c.TimeUnitValue.Seconds()
	// Saturate to max int64 on overflow rather than wrapping.
	if unitSecs != 0 && c.TimeValue > (1<<62)/unitSecs {
		return int64(^uint64(0) >> 1), nil
	}
	return c.TimeValue * unitSecs, nil
}

func convertTo(p typedesc.Primitive, t time.Time) any {
	switch p {
	case typedesc.PrimitiveLocalDate:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case typedesc.PrimitiveLocalDateTime, typedesc.PrimitiveZonedDateTime:
		return t
	case typedesc.PrimitiveEpochDate:
		return t.UTC()
	default: // Instant
		return t.UTC()
	}
}

func (s *TimeStrategy) Generate(req genrequest.Request, ctx *gencontext.Context, _ Reentry) (any, error) {
	c, ok := timeConstraint(req)
	if !ok {
		// No time annotation: a value within +/-10 years of now.
		offset := ctx.RNG.Int64Range(-10*365*86400, 10*365*86400)
		return convertTo(req.Type.Primitive, ctx.Clock().Add(time.Duration(offset)*time.Second)), nil
	}

	zone, err := resolveZone(c)
	if err != nil {
		return nil, err
	}
	anchor, err := parseAnchor(ctx, c, zone)
	if err != nil {
		return nil, err
	}
	seconds, err := durationSeconds(c)
	if err != nil {
		return nil, err
	}

	var offsetSeconds int64
	switch c.Kind {
	case constraint.KindPast:
		offsetSeconds = -ctx.RNG.Int64Range(1, seconds)
	case constraint.KindPastOrPresent:
		offsetSeconds = -ctx.RNG.Int64Range(0, seconds)
	case constraint.KindFuture:
		offsetSeconds = ctx.RNG.Int64Range(1, seconds)
	case constraint.KindFutureOrPresent:
		offsetSeconds = ctx.RNG.Int64Range(0, seconds)
	}

	return convertTo(req.Type.Primitive, anchor.Add(time.Duration(offsetSeconds)*time.Second)), nil
}

func (s *TimeStrategy) Boundaries(req genrequest.Request, ctx *gencontext.Context, _ Reentry) ([]any, error) {
	c, ok := timeConstraint(req)
	if !ok {
		v, err := s.Generate(req, ctx, nil)
		if err != nil {
			return nil, err
		}
		return []any{v}, nil
	}

	zone, err := resolveZone(c)
	if err != nil {
		return nil, err
	}
	anchor, err := parseAnchor(ctx, c, zone)
	if err != nil {
		return nil, err
	}
	seconds, err := durationSeconds(c)
	if err != nil {
		return nil, err
	}

	minOffset := int64(1)
	if c.Kind == constraint.KindPastOrPresent || c.Kind == constraint.KindFutureOrPresent {
		minOffset = 0
	}

	sign := int64(1)
	if c.Kind == constraint.KindPast || c.Kind == constraint.KindPastOrPresent {
		sign = -1
	}

	near := anchor.Add(time.Duration(sign*minOffset) * time.Second)
	far := anchor.Add(time.Duration(sign*seconds) * time.Second)

	return []any{convertTo(req.Type.Primitive, near), convertTo(req.Type.Primitive, far)}, nil
}

func (s *TimeStrategy) Invalid(req genrequest.Request, ctx *gencontext.Context, _ Reentry) ([]any, error) {
	c, ok := timeConstraint(req)
	if !ok {
		return []any{}, nil
	}

	zone, err := resolveZone(c)
	if err != nil {
		return nil, err
	}
	anchor, err := parseAnchor(ctx, c, zone)
	if err != nil {
		return nil, err
	}
	seconds, err := durationSeconds(c)
	if err != nil {
		return nil, err
	}

	// The forbidden side is the opposite sign from the constraint's
	// permitted direction.
	forbiddenSign := int64(-1)
	if c.Kind == constraint.KindPast || c.Kind == constraint.KindPastOrPresent {
		forbiddenSign = 1
	}

	justAcross := anchor.Add(time.Duration(forbiddenSign*10) * time.Second)
	farAcross := anchor.Add(time.Duration(forbiddenSign*(seconds+86400)) * time.Second)

	return []any{
		convertTo(req.Type.Primitive, justAcross),
		convertTo(req.Type.Primitive, farAcross),
	}, nil
}
