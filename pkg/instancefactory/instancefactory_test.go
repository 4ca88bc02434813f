package instancefactory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kontrakt/pkg/instancefactory"
	"kontrakt/pkg/kerrors"
	"kontrakt/pkg/mocking"
	"kontrakt/pkg/spec"
	"kontrakt/pkg/typedesc"
)

func TestFactory_ResolveConstructorBuildsDependencyClosure(t *testing.T) {
	f := instancefactory.New("run-1", 42, time.Now(), 0)

	leafType := typedesc.ObjectOf("Leaf", nil, func(args []any) (any, error) {
		return "leaf-instance", nil
	})
	rootType := typedesc.ObjectOf("Root", []typedesc.Field{
		{Name: "leaf", Type: leafType},
	}, func(args []any) (any, error) {
		return map[string]any{"leaf": args[0]}, nil
	})

	f.Register("Leaf", instancefactory.TypeCatalog{Constructor: leafType})
	f.Register("Root", instancefactory.TypeCatalog{Constructor: rootType})

	got, err := f.Resolve("Root")
	require.NoError(t, err)
	m := got.(map[string]any)
	require.Equal(t, "leaf-instance", m["leaf"])
}

func TestFactory_ResolveCachesInstances(t *testing.T) {
	f := instancefactory.New("run-1", 1, time.Now(), 0)
	calls := 0
	leafType := typedesc.ObjectOf("Leaf", nil, func(args []any) (any, error) {
		calls++
		return calls, nil
	})
	f.Register("Leaf", instancefactory.TypeCatalog{Constructor: leafType})

	a, err := f.Resolve("Leaf")
	require.NoError(t, err)
	b, err := f.Resolve("Leaf")
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Equal(t, 1, calls)
}

func TestFactory_DeclaredStatelessMockBypassesCatalog(t *testing.T) {
	f := instancefactory.New("run-1", 1, time.Now(), 0)
	f.Declare("Collaborator", spec.Dependency{TypeID: "Collaborator", Strategy: spec.StrategyStatelessMock})

	got, err := f.Resolve("Collaborator")
	require.NoError(t, err)
	_, ok := got.(*mocking.Mock)
	require.True(t, ok)
}

func TestFactory_UnregisteredTypeFallsBackToMock(t *testing.T) {
	f := instancefactory.New("run-1", 1, time.Now(), 0)
	got, err := f.Resolve("Unknown")
	require.NoError(t, err)
	_, ok := got.(*mocking.Mock)
	require.True(t, ok)
}

func TestFactory_CircularConstructorDependencyFails(t *testing.T) {
	f := instancefactory.New("run-1", 1, time.Now(), 0)

	var aType, bType *typedesc.Descriptor
	aType = typedesc.ObjectOf("A", nil, func(args []any) (any, error) { return "a", nil })
	bType = typedesc.ObjectOf("B", nil, func(args []any) (any, error) { return "b", nil })
	aType.Fields = []typedesc.Field{{Name: "b", Type: bType}}
	bType.Fields = []typedesc.Field{{Name: "a", Type: aType}}

	f.Register("A", instancefactory.TypeCatalog{Constructor: aType})
	f.Register("B", instancefactory.TypeCatalog{Constructor: bType})

	_, err := f.Resolve("A")
	require.Error(t, err)
	require.IsType(t, &kerrors.CircularDependency{}, err)
}

func TestEntryPointFor_UserScenarioPrefersMarker(t *testing.T) {
	methods := []instancefactory.EntryPoint{
		{Name: "Helper"},
		{Name: "TestFoo", IsMarker: true},
	}
	entry, err := instancefactory.EntryPointFor(spec.ModeUserScenario, methods)
	require.NoError(t, err)
	require.Equal(t, "TestFoo", entry.Name)
}

func TestEntryPointFor_NoMethodsFails(t *testing.T) {
	_, err := instancefactory.EntryPointFor(spec.ModeContractAuto, nil)
	require.Error(t, err)
	require.IsType(t, &kerrors.KontraktConfigurationException{}, err)
}

func TestNextRunID_IsMonotonicNaming(t *testing.T) {
	require.Equal(t, "run-1", instancefactory.NextRunID(1))
	require.Equal(t, "run-42", instancefactory.NextRunID(42))
}
