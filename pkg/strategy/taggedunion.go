package strategy

import (
	"kontrakt/pkg/gencontext"
	"kontrakt/pkg/genrequest"
	"kontrakt/pkg/kerrors"
	"kontrakt/pkg/typedesc"
)

// TaggedUnionStrategy implements spec.md §4.2.7 for closed/sealed
// hierarchies.
type TaggedUnionStrategy struct{}

// NewTaggedUnionStrategy constructs the tagged-union strategy.
func NewTaggedUnionStrategy() *TaggedUnionStrategy { return &TaggedUnionStrategy{} }

func (s *TaggedUnionStrategy) Name() string { return "taggedunion" }

func (s *TaggedUnionStrategy) Supports(req genrequest.Request) bool {
	return req.Type != nil && req.Type.Kind == typedesc.KindTaggedUnion
}

func (s *TaggedUnionStrategy) Generate(req genrequest.Request, ctx *gencontext.Context, reentry Reentry) (any, error) {
	subtypes := req.Type.UnionTypes
	if len(subtypes) == 0 {
		return nil, &kerrors.SealedClassHasNoSubclasses{Type: req.Type.ID}
	}
	pick := subtypes[ctx.RNG.Intn(len(subtypes))]
	return reentry(genrequest.New(pick, req.Slot, nil, false), ctx)
}

func (s *TaggedUnionStrategy) Boundaries(req genrequest.Request, ctx *gencontext.Context, reentry Reentry) ([]any, error) {
	subtypes := req.Type.UnionTypes
	if len(subtypes) == 0 {
		return nil, &kerrors.SealedClassHasNoSubclasses{Type: req.Type.ID}
	}

	out := make([]any, 0, len(subtypes))
	for _, sub := range subtypes {
		v, err := reentry(genrequest.New(sub, req.Slot, nil, false), ctx)
		if err != nil {
			return nil, err
		}
		if v != nil {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *TaggedUnionStrategy) Invalid(req genrequest.Request, _ *gencontext.Context, _ Reentry) ([]any, error) {
	return []any{}, nil
}
