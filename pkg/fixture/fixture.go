// Package fixture implements the Fixture Generator (spec.md §4.1 C6): the
// orchestrator that turns a GenerationRequest into concrete values by
// running the Configuration Validator pre-flight, dispatching to the
// first matching Type Strategy in fixed priority order, and handling
// recursion and nullability per spec.md's post-conditions.
package fixture

import (
	"kontrakt/pkg/configvalidator"
	"kontrakt/pkg/gencontext"
	"kontrakt/pkg/genrequest"
	"kontrakt/pkg/kerrors"
	"kontrakt/pkg/strategy"
	"kontrakt/pkg/typedesc"
)

// Generate produces one valid value for req under ctx, per spec.md §4.1
// steps 1-5.
func Generate(req genrequest.Request, ctx *gencontext.Context) (any, error) {
	if err := configvalidator.Validate(req); err != nil {
		return nil, err
	}
	return generateChecked(req, ctx)
}

// generateChecked runs strategy dispatch and the post-generation
// nullability check, but skips the pre-flight validator — used by
// recursive re-entry, where the parent request has already been
// validated and the derived request (element/field/key) is synthetic.
// A MustBeNull slot yields nil without dispatch.
func generateChecked(req genrequest.Request, ctx *gencontext.Context) (any, error) {
	if req.MustBeNull() {
		return nil, nil
	}
	v, err := dispatch(req, ctx)
	if err != nil {
		return nil, err
	}
	if v == nil && !req.IsNullable() && !req.MustBeNull() {
		return nil, &kerrors.GenerationFailed{Type: req.Type.String(), Msg: "produced null for a non-nullable slot"}
	}
	return v, nil
}

func dispatch(req genrequest.Request, ctx *gencontext.Context) (any, error) {
	for _, s := range strategy.Ordered() {
		if !s.Supports(req) {
			continue
		}
		v, err := s.Generate(req, ctx, reentry)
		if err == nil {
			return v, nil
		}
		if rec, ok := err.(*kerrors.RecursiveGenerationFailed); ok {
			return recoverFromRecursion(req, rec)
		}
		return nil, err
	}
	return nil, &kerrors.NoStrategy{Type: req.Type.String()}
}

// reentry is the strategy.Reentry callback handed to recursive
// strategies (Object, Collection, Array, TaggedUnion): it re-enters
// generation for a derived request without repeating the top-level
// pre-flight check (the derived request was built by this package, not
// supplied by a caller).
func reentry(req genrequest.Request, ctx *gencontext.Context) (any, error) {
	return generateChecked(req, ctx)
}

// recoverFromRecursion implements spec.md §4.1 step 4: a nullable slot on
// history returns null; otherwise fall back to a mock substitute so the
// overall generation can still complete.
func recoverFromRecursion(req genrequest.Request, rec *kerrors.RecursiveGenerationFailed) (any, error) {
	if req.IsNullable() {
		return nil, nil
	}
	v, mockErr := mockValue(req.Type)
	if mockErr != nil {
		return nil, &kerrors.GenerationFailed{Type: req.Type.String(), Msg: "recursion fallback mock failed", Cause: rec}
	}
	return v, nil
}

// mockValue builds a degenerate-but-structurally-valid stand-in for t
// without recursing further — the Go-native analogue of
// Mocking.create_mock(type) for a concrete constructor-based type (Go has
// no dynamic proxy facility; pkg/mocking's Mock/Fake serve interface-typed
// dependencies, this serves recursive concrete object graphs).
func mockValue(t *typedesc.Descriptor) (any, error) {
	switch t.Kind {
	case typedesc.KindPrimitive:
		return zeroPrimitive(t.Primitive), nil
	case typedesc.KindEnum:
		if len(t.Variants) == 0 {
			return nil, &kerrors.SealedClassHasNoSubclasses{Type: t.ID}
		}
		return t.EnumFactory(t.Variants[0])
	case typedesc.KindContainer:
		if t.Container == typedesc.ContainerMap {
			return map[any]any{}, nil
		}
		return []any{}, nil
	case typedesc.KindArray:
		if t.ArrayLen > 0 {
			return make([]any, t.ArrayLen), nil
		}
		return []any{}, nil
	case typedesc.KindTaggedUnion:
		return nil, nil
	case typedesc.KindObject:
		args := make([]any, len(t.Fields))
		for i, f := range t.Fields {
			if f.Type.IsRecursive() || f.Nullable {
				args[i] = nil
				continue
			}
			v, err := mockValue(f.Type)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return t.Construct(args)
	default:
		return nil, nil
	}
}

func zeroPrimitive(p typedesc.Primitive) any {
	switch p {
	case typedesc.PrimitiveBool:
		return false
	case typedesc.PrimitiveInt:
		return int(0)
	case typedesc.PrimitiveLong:
		return int64(0)
	case typedesc.PrimitiveFloat:
		return float32(0)
	case typedesc.PrimitiveString:
		return ""
	case typedesc.PrimitiveDouble, typedesc.PrimitiveBigDecimal:
		return float64(0)
	default:
		return nil
	}
}

// GenerateValidBoundaries produces a list of values exercising edge cases
// of every applicable constraint on req, per spec.md §4.1 "Boundary
// generation rules".
func GenerateValidBoundaries(req genrequest.Request, ctx *gencontext.Context) ([]any, error) {
	if err := configvalidator.Validate(req); err != nil {
		return nil, err
	}
	if req.MustBeNull() {
		return []any{nil}, nil
	}

	var out []any
	if req.IsNullable() {
		out = append(out, nil)
	}

	s := firstMatching(req)
	if s == nil {
		return nil, &kerrors.NoStrategy{Type: req.Type.String()}
	}
	boundaries, err := s.Boundaries(req, ctx, reentry)
	if err != nil {
		return nil, err
	}
	if len(boundaries) == 0 {
		v, err := generateChecked(req, ctx)
		if err != nil {
			return nil, err
		}
		boundaries = []any{v}
	}
	out = append(out, boundaries...)
	return out, nil
}

// GenerateInvalid produces a list of values that violate at least one
// applicable constraint on req, per spec.md §4.1 "Invalid generation
// rules".
func GenerateInvalid(req genrequest.Request, ctx *gencontext.Context) ([]any, error) {
	if err := configvalidator.Validate(req); err != nil {
		return nil, err
	}

	var out []any
	if !req.IsNullable() {
		out = append(out, nil)
	}

	s := firstMatching(req)
	if s == nil {
		return nil, &kerrors.NoStrategy{Type: req.Type.String()}
	}
	invalid, err := s.Invalid(req, ctx, reentry)
	if err != nil {
		return nil, err
	}
	out = append(out, invalid...)
	return out, nil
}

func firstMatching(req genrequest.Request) strategy.Strategy {
	for _, s := range strategy.Ordered() {
		if s.Supports(req) {
			return s
		}
	}
	return nil
}
