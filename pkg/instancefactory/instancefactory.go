// Package instancefactory implements the Test Instance Factory (spec.md
// §4.5 C9): resolves the subject-under-test and its dependency closure
// (real / mock / fake), and picks the entry-point method per mode.
package instancefactory

import (
	"strconv"
	"time"

	"kontrakt/pkg/depgraph"
	"kontrakt/pkg/fixture"
	"kontrakt/pkg/gencontext"
	"kontrakt/pkg/genrequest"
	"kontrakt/pkg/kerrors"
	"kontrakt/pkg/mocking"
	"kontrakt/pkg/spec"
	"kontrakt/pkg/typedesc"
)

// EntryPoint names one callable method resolved for a session's mode,
// per spec.md §4.5 step 4.
type EntryPoint struct {
	Name     string
	Params   []typedesc.Field
	Invoke   func(subject any, args []any) (results []any, err error)
	IsMarker bool // carries the "Test" marker (UserScenario mode)
}

// TypeCatalog describes how to resolve one type ID: its constructor
// shape (Object descriptor) for Real/constructor-injection resolution,
// or its basic-value descriptor for direct Fixture Generator synthesis.
// Exactly one of Constructor/Value is set.
type TypeCatalog struct {
	Constructor *typedesc.Descriptor
	Value       *typedesc.Descriptor
	Methods     []EntryPoint
}

// Factory resolves a dependency graph into live instances, per spec.md
// §4.5.
type Factory struct {
	ctx      *gencontext.Context
	ectx     *spec.EphemeralContext
	catalog  map[string]TypeCatalog
	declared map[string]spec.Dependency
	resolved map[string]any
	walker   *depgraph.Walker
	mockGen  mocking.Generator
}

// New constructs a Factory for one session. seed drives the
// GenerationContext (spec.md §4.5 step 2: "spec.seed ?? wall-clock").
func New(runID string, seed uint64, now time.Time, traceCap int) *Factory {
	ctx := gencontext.New(seed, now)
	f := &Factory{
		ctx:      ctx,
		ectx:     spec.NewEphemeralContext(runID, traceCap),
		catalog:  make(map[string]TypeCatalog),
		declared: make(map[string]spec.Dependency),
		resolved: make(map[string]any),
		walker:   depgraph.NewWalker(),
	}
	f.mockGen = func(t *typedesc.Descriptor, nullable bool, ctx *gencontext.Context) (any, error) {
		return fixture.Generate(genrequest.New(t, t.ID, nil, nullable), ctx)
	}
	return f
}

// Context returns the GenerationContext backing this factory's Fixture
// Generator calls.
func (f *Factory) Context() *gencontext.Context { return f.ctx }

// Ephemeral returns the session's EphemeralContext.
func (f *Factory) Ephemeral() *spec.EphemeralContext { return f.ectx }

// Declare registers how typeID should be resolved: Real, StatelessMock,
// StatefulFake, or Environment, per spec.md §3 Dependency.
func (f *Factory) Declare(typeID string, dep spec.Dependency) {
	f.declared[typeID] = dep
}

// Register adds typeID's shape to the catalog, so Resolve can build it
// when no explicit strategy was declared.
func (f *Factory) Register(typeID string, catalog TypeCatalog) {
	f.catalog[typeID] = catalog
}

// Resolve builds or returns the cached instance of typeID, per spec.md
// §4.5 step 3.
func (f *Factory) Resolve(typeID string) (any, error) {
	if v, ok := f.resolved[typeID]; ok {
		return v, nil
	}
	if err := f.walker.Enter(typeID); err != nil {
		return nil, err
	}
	defer f.walker.Leave(typeID)

	v, err := f.resolveUncached(typeID)
	if err != nil {
		return nil, err
	}
	f.resolved[typeID] = v
	return v, nil
}

func (f *Factory) resolveUncached(typeID string) (any, error) {
	if dep, ok := f.declared[typeID]; ok {
		switch dep.Strategy {
		case spec.StrategyStatelessMock, spec.StrategyEnvironment:
			return mocking.NewMock(f.ctx, f.mockGen, nil), nil
		case spec.StrategyStatefulFake:
			return mocking.NewFake(f.ctx, f.mockGen), nil
		case spec.StrategyReal:
			implID := dep.Impl
			if implID == "" {
				implID = typeID
			}
			return f.resolveConstructor(implID)
		}
	}

	cat, ok := f.catalog[typeID]
	if !ok {
		return mocking.NewMock(f.ctx, f.mockGen, nil), nil
	}
	if cat.Value != nil {
		return fixture.Generate(genrequest.New(cat.Value, typeID, nil, false), f.ctx)
	}
	if cat.Constructor != nil {
		return f.resolveConstructor(typeID)
	}
	return mocking.NewMock(f.ctx, f.mockGen, nil), nil
}

func (f *Factory) resolveConstructor(typeID string) (any, error) {
	cat, ok := f.catalog[typeID]
	if !ok || cat.Constructor == nil {
		return nil, &kerrors.KontraktConfigurationException{Msg: "no constructor registered for " + typeID}
	}
	t := cat.Constructor
	args := make([]any, len(t.Fields))
	for i, field := range t.Fields {
		v, err := f.Resolve(field.Type.ID)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	instance, err := t.Construct(args)
	if err != nil {
		return nil, &kerrors.KontraktConfigurationException{Msg: "constructor threw for " + typeID, Cause: err}
	}
	return instance, nil
}

// EntryPointFor resolves the callable method for mode, per spec.md §4.5
// step 4.
func EntryPointFor(mode spec.Mode, methods []EntryPoint) (EntryPoint, error) {
	switch mode {
	case spec.ModeUserScenario:
		for _, m := range methods {
			if m.IsMarker {
				return m, nil
			}
		}
		if len(methods) > 0 {
			return methods[0], nil
		}
	case spec.ModeContractAuto:
		if len(methods) > 0 {
			return methods[0], nil
		}
	case spec.ModeDataCompliance:
		if len(methods) > 0 {
			return methods[0], nil
		}
	}
	return EntryPoint{}, &kerrors.KontraktConfigurationException{Msg: "no entry point available for mode " + mode.String()}
}

// NextRunID produces a simple monotonic run identifier; sessions don't
// need global uniqueness, only per-process distinctness for trace
// correlation.
func NextRunID(counter uint64) string {
	return "run-" + strconv.FormatUint(counter, 10)
}
