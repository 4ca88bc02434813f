package strategy

import (
	"kontrakt/pkg/gencontext"
	"kontrakt/pkg/genrequest"
	"kontrakt/pkg/kerrors"
	"kontrakt/pkg/typedesc"
)

// EnumStrategy implements spec.md §4.2.6.
type EnumStrategy struct{}

// NewEnumStrategy constructs the enum strategy.
func NewEnumStrategy() *EnumStrategy { return &EnumStrategy{} }

func (s *EnumStrategy) Name() string { return "enum" }

func (s *EnumStrategy) Supports(req genrequest.Request) bool {
	return req.Type != nil && req.Type.Kind == typedesc.KindEnum
}

func (s *EnumStrategy) Generate(req genrequest.Request, ctx *gencontext.Context, _ Reentry) (any, error) {
	variants := req.Type.Variants
	if len(variants) == 0 {
		return nil, &kerrors.GenerationFailed{Type: req.Type.ID, Msg: "enum has no declared constants"}
	}
	pick := variants[ctx.RNG.Intn(len(variants))]
	return req.Type.EnumFactory(pick)
}

func (s *EnumStrategy) Boundaries(req genrequest.Request, _ *gencontext.Context, _ Reentry) ([]any, error) {
	out := make([]any, 0, len(req.Type.Variants))
	for _, v := range req.Type.Variants {
		val, err := req.Type.EnumFactory(v)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

func (s *EnumStrategy) Invalid(req genrequest.Request, _ *gencontext.Context, _ Reentry) ([]any, error) {
	return []any{}, nil
}
