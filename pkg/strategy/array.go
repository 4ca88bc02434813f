package strategy

import (
	"kontrakt/pkg/gencontext"
	"kontrakt/pkg/genrequest"
	"kontrakt/pkg/typedesc"
)

// ArrayStrategy implements spec.md §4.2.5 for fixed-shape arrays, sharing
// the Size/element-synthesis algebra with CollectionStrategy but
// preserving the declared component type and (when pinned) a fixed
// length rather than a free-ranging size.
type ArrayStrategy struct{}

// NewArrayStrategy constructs the array strategy.
func NewArrayStrategy() *ArrayStrategy { return &ArrayStrategy{} }

func (s *ArrayStrategy) Name() string { return "array" }

func (s *ArrayStrategy) Supports(req genrequest.Request) bool {
	return req.Type != nil && req.Type.Kind == typedesc.KindArray
}

func arrayTargetSize(req genrequest.Request, ctx *gencontext.Context) (int, bool, bool) {
	if req.Type.ArrayLen >= 0 {
		return req.Type.ArrayLen, false, true
	}
	min, max, explicitMax, ignoreLimit := sizeBounds(req)
	return targetSize(ctx, min, max, explicitMax), ignoreLimit, false
}

func buildArray(req genrequest.Request, ctx *gencontext.Context, reentry Reentry, n int) (any, error) {
	out := make([]any, n)
	for i := 0; i < n; i++ {
		v, err := reentry(req.ForElement(req.Type.Element, false), ctx)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *ArrayStrategy) Generate(req genrequest.Request, ctx *gencontext.Context, reentry Reentry) (any, error) {
	n, ignoreLimit, fixed := arrayTargetSize(req, ctx)
	if !fixed {
		if err := checkSizeLimit(n, ignoreLimit); err != nil {
			return nil, err
		}
	}
	return buildArray(req, ctx, reentry, n)
}

func (s *ArrayStrategy) Boundaries(req genrequest.Request, ctx *gencontext.Context, reentry Reentry) ([]any, error) {
	if req.Type.ArrayLen >= 0 {
		v, err := buildArray(req, ctx, reentry, req.Type.ArrayLen)
		if err != nil {
			return nil, err
		}
		return []any{v}, nil
	}

	min, max, explicitMax, ignoreLimit := sizeBounds(req)
	sizes := []int{min}
	if explicitMax && max != min {
		sizes = append(sizes, max)
	}

	var out []any
	for _, n := range sizes {
		if err := checkSizeLimit(n, ignoreLimit); err != nil {
			continue
		}
		v, err := buildArray(req, ctx, reentry, n)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *ArrayStrategy) Invalid(req genrequest.Request, ctx *gencontext.Context, reentry Reentry) ([]any, error) {
	if req.Type.ArrayLen >= 0 {
		return []any{}, nil
	}

	min, max, explicitMax, ignoreLimit := sizeBounds(req)
	var out []any
	if min > 0 {
		v, err := buildArray(req, ctx, reentry, min-1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if explicitMax && (max+1 <= globalSizeLimit || ignoreLimit) {
		v, err := buildArray(req, ctx, reentry, max+1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
