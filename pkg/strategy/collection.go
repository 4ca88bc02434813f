package strategy

import (
	"kontrakt/pkg/constraint"
	"kontrakt/pkg/gencontext"
	"kontrakt/pkg/genrequest"
	"kontrakt/pkg/kerrors"
	"kontrakt/pkg/typedesc"
)

// globalSizeLimit caps container sizes absent an explicit opt-in, per
// spec.md §4.2.5.
const globalSizeLimit = 1000

const defaultContainerSize = 5

// CollectionStrategy implements spec.md §4.2.5 for List/Set/Queue/Map.
type CollectionStrategy struct{}

// NewCollectionStrategy constructs the collection strategy.
func NewCollectionStrategy() *CollectionStrategy { return &CollectionStrategy{} }

func (s *CollectionStrategy) Name() string { return "collection" }

func (s *CollectionStrategy) Supports(req genrequest.Request) bool {
	return req.Type != nil && req.Type.Kind == typedesc.KindContainer
}

// sizeBounds parses the Size constraint per spec.md §4.2.5.
func sizeBounds(req genrequest.Request) (min, max int, explicitMax, ignoreLimit bool) {
	min, max = 0, -1
	if sz, ok := req.Find(constraint.KindSize); ok {
		min = sz.SizeMin
		if sz.SizeMax > 0 {
			max, explicitMax = sz.SizeMax, true
		}
		ignoreLimit = sz.SizeIgnoreLimit
	}
	if req.Has(constraint.KindNotEmpty) && min < 1 {
		min = 1
	}
	return min, max, explicitMax, ignoreLimit
}

// targetSize picks a container size from a small candidate set, biased
// toward the declared Size boundaries rather than drawn uniformly from
// the whole range — the same smart-fuzz spirit as the numeric strategy's
// candidate set, applied to collection/array sizing.
func targetSize(ctx *gencontext.Context, min, max int, explicitMax bool) int {
	if explicitMax {
		if max <= min {
			return min
		}
		candidates := []int{min, max, ctx.RNG.IntRange(min, max)}
		weights := []float64{2, 2, 1}
		return candidates[ctx.RNG.WeightedChoice(weights)]
	}
	if min > defaultContainerSize {
		return min
	}
	return defaultContainerSize
}

func checkSizeLimit(n int, ignoreLimit bool) error {
	if !ignoreLimit && n > globalSizeLimit {
		return &kerrors.CollectionSizeLimitExceeded{Requested: n, Limit: globalSizeLimit}
	}
	return nil
}

func (s *CollectionStrategy) Generate(req genrequest.Request, ctx *gencontext.Context, reentry Reentry) (any, error) {
	min, max, explicitMax, ignoreLimit := sizeBounds(req)
	n := targetSize(ctx, min, max, explicitMax)
	if err := checkSizeLimit(n, ignoreLimit); err != nil {
		return nil, err
	}
	return buildContainer(req, ctx, reentry, n)
}

func buildContainer(req genrequest.Request, ctx *gencontext.Context, reentry Reentry, n int) (any, error) {
	t := req.Type
	if t.Container == typedesc.ContainerMap {
		out := make(map[any]any, n)
		for i := 0; i < n; i++ {
			k, err := reentry(req.ForMapKey(t.MapKey), ctx)
			if err != nil {
				return nil, err
			}
			v, err := reentry(req.ForMapValue(t.Element, false), ctx)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	}

	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		v, err := reentry(req.ForElement(t.Element, false), ctx)
		if err != nil {
			return nil, err
		}
		if t.Container == typedesc.ContainerSet {
			if containsAny(out, v) {
				continue
			}
		}
		out = append(out, v)
	}
	if t.Container == typedesc.ContainerList {
		// Lists carry no ordering contract of their own; shuffle so a
		// generated list's element order doesn't trivially mirror RNG
		// draw order, the one ordering a naive reader might assume.
		ctx.RNG.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out, nil
}

func containsAny(haystack []any, needle any) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

func (s *CollectionStrategy) Boundaries(req genrequest.Request, ctx *gencontext.Context, reentry Reentry) ([]any, error) {
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
		v, err := buildContainer(req, ctx, reentry, n)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *CollectionStrategy) Invalid(req genrequest.Request, ctx *gencontext.Context, reentry Reentry) ([]any, error) {
	min, max, explicitMax, ignoreLimit := sizeBounds(req)

	var out []any
	if min > 0 {
		v, err := buildContainer(req, ctx, reentry, min-1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if explicitMax && (max+1 <= globalSizeLimit || ignoreLimit) {
		v, err := buildContainer(req, ctx, reentry, max+1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
