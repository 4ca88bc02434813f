package mocking_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kontrakt/pkg/gencontext"
	"kontrakt/pkg/mocking"
	"kontrakt/pkg/typedesc"
)

func stubGen(v any) mocking.Generator {
	return func(t *typedesc.Descriptor, nullable bool, ctx *gencontext.Context) (any, error) {
		return v, nil
	}
}

func TestMock_Invoke_UsesConfiguredStub(t *testing.T) {
	ctx := gencontext.New(1, time.Now())
	stubs := mocking.StubSet{}
	stubs.Every("GetName").Returns("bob")

	m := mocking.NewMock(ctx, stubGen("fallback"), stubs)
	out, err := m.Invoke("GetName", []mocking.ReturnSpec{{Type: typedesc.String()}})
	require.NoError(t, err)
	require.Equal(t, []any{"bob"}, out)
}

func TestMock_Invoke_StubThrows(t *testing.T) {
	ctx := gencontext.New(1, time.Now())
	stubs := mocking.StubSet{}
	boom := errors.New("boom")
	stubs.Every("Save").Throws(boom)

	m := mocking.NewMock(ctx, stubGen(nil), stubs)
	_, err := m.Invoke("Save", nil)
	require.ErrorIs(t, err, boom)
}

func TestMock_Invoke_FallsBackToGenerator(t *testing.T) {
	ctx := gencontext.New(1, time.Now())
	m := mocking.NewMock(ctx, stubGen("generated"), nil)
	out, err := m.Invoke("Whatever", []mocking.ReturnSpec{{Type: typedesc.String()}})
	require.NoError(t, err)
	require.Equal(t, []any{"generated"}, out)
}

func TestFake_InsertLookupRemove(t *testing.T) {
	ctx := gencontext.New(1, time.Now())
	f := mocking.NewFake(ctx, stubGen(nil))

	_, err := f.Invoke("save", []any{"widget"}, nil)
	require.NoError(t, err)
	require.Equal(t, []any{"widget"}, f.Items())

	out, err := f.Invoke("findById", []any{"widget"}, []mocking.ReturnSpec{{Type: typedesc.String(), Nullable: true}})
	require.NoError(t, err)
	require.Equal(t, []any{"widget"}, out)

	out, err = f.Invoke("findById", []any{"missing"}, []mocking.ReturnSpec{{Type: typedesc.String(), Nullable: true}})
	require.NoError(t, err)
	require.Equal(t, []any{nil}, out)

	out, err = f.Invoke("count", nil, nil)
	require.NoError(t, err)
	require.Equal(t, []any{1}, out)

	out, err = f.Invoke("delete", []any{"widget"}, []mocking.ReturnSpec{{Type: typedesc.Bool()}})
	require.NoError(t, err)
	require.Equal(t, []any{true}, out)
	require.Empty(t, f.Items())
}

func TestFake_FindAllListsEverything(t *testing.T) {
	ctx := gencontext.New(1, time.Now())
	f := mocking.NewFake(ctx, stubGen(nil))
	_, _ = f.Invoke("create", []any{"a"}, nil)
	_, _ = f.Invoke("create", []any{"b"}, nil)

	out, err := f.Invoke("findAll", nil, []mocking.ReturnSpec{{Type: typedesc.List(typedesc.String())}})
	require.NoError(t, err)
	require.ElementsMatch(t, []any{"a", "b"}, out[0].([]any))
}

func TestFake_UnclassifiedMethodFallsBackToGenerator(t *testing.T) {
	ctx := gencontext.New(1, time.Now())
	f := mocking.NewFake(ctx, stubGen("plausible"))
	out, err := f.Invoke("doSomethingWeird", nil, []mocking.ReturnSpec{{Type: typedesc.String()}})
	require.NoError(t, err)
	require.Equal(t, []any{"plausible"}, out)
}
