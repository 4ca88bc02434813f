package strategy

import (
	"kontrakt/pkg/gencontext"
	"kontrakt/pkg/genrequest"
	"kontrakt/pkg/kerrors"
	"kontrakt/pkg/typedesc"
)

// ObjectStrategy implements spec.md §4.2.8: generic constructor-based
// recursive generation.
type ObjectStrategy struct{}

// NewObjectStrategy constructs the object strategy.
func NewObjectStrategy() *ObjectStrategy { return &ObjectStrategy{} }

func (s *ObjectStrategy) Name() string { return "object" }

func (s *ObjectStrategy) Supports(req genrequest.Request) bool {
	return req.Type != nil && req.Type.Kind == typedesc.KindObject
}

func (s *ObjectStrategy) Generate(req genrequest.Request, ctx *gencontext.Context, reentry Reentry) (any, error) {
	t := req.Type

	if ctx.OnHistory(t.ID) {
		if req.IsNullable() {
			return nil, nil
		}
		return nil, &kerrors.RecursiveGenerationFailed{Path: append(ctx.HistoryPath(), t.ID)}
	}

	childCtx := ctx.WithType(t.ID)
	args := make([]any, len(t.Fields))
	for i, f := range t.Fields {
		fieldReq := genrequest.ForField(req, f)
		v, err := reentry(fieldReq, childCtx)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	instance, err := t.Construct(args)
	if err != nil {
		return nil, &kerrors.GenerationFailed{Type: t.ID, Msg: "constructor threw", Cause: err}
	}
	return instance, nil
}

func (s *ObjectStrategy) Boundaries(req genrequest.Request, ctx *gencontext.Context, reentry Reentry) ([]any, error) {
	v, err := s.Generate(req, ctx, reentry)
	if err != nil {
		return nil, err
	}
	return []any{v}, nil
}

func (s *ObjectStrategy) Invalid(req genrequest.Request, _ *gencontext.Context, _ Reentry) ([]any, error) {
	return []any{}, nil
}
