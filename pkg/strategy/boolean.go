package strategy

import (
	"kontrakt/pkg/constraint"
	"kontrakt/pkg/gencontext"
	"kontrakt/pkg/genrequest"
	"kontrakt/pkg/typedesc"
)

// BooleanStrategy implements spec.md §4.2.1.
type BooleanStrategy struct{}

// NewBooleanStrategy constructs the terminal boolean strategy.
func NewBooleanStrategy() *BooleanStrategy { return &BooleanStrategy{} }

func (s *BooleanStrategy) Name() string { return "boolean" }

func (s *BooleanStrategy) Supports(req genrequest.Request) bool {
	return req.Type != nil && req.Type.Kind == typedesc.KindPrimitive && req.Type.Primitive == typedesc.PrimitiveBool
}

func (s *BooleanStrategy) Generate(req genrequest.Request, ctx *gencontext.Context, _ Reentry) (any, error) {
	if req.Has(constraint.KindAssertTrue) {
		return true, nil
	}
	if req.Has(constraint.KindAssertFalse) {
		return false, nil
	}
	return ctx.RNG.Bool(), nil
}

func (s *BooleanStrategy) Boundaries(req genrequest.Request, _ *gencontext.Context, _ Reentry) ([]any, error) {
	if req.Has(constraint.KindAssertTrue) {
		return []any{true}, nil
	}
	if req.Has(constraint.KindAssertFalse) {
		return []any{false}, nil
	}
	return []any{true, false}, nil
}

func (s *BooleanStrategy) Invalid(req genrequest.Request, _ *gencontext.Context, _ Reentry) ([]any, error) {
	if req.Has(constraint.KindAssertTrue) {
		return []any{false}, nil
	}
	if req.Has(constraint.KindAssertFalse) {
		return []any{true}, nil
	}
	return []any{}, nil
}
