// Package mocking implements the Mocking Port (spec.md §2 C8, §6): the
// external collaborator the Test Instance Factory (C9) and Fixture
// Generator (C6) fall back to when a dependency is declared
// StatelessMock/StatefulFake, or when recursion forces a mock
// substitution.
//
// Go has no runtime dynamic-proxy facility (unlike Java's
// java.lang.reflect.Proxy, which the source system's mocking layer likely
// relies on): a type cannot gain a method set at runtime. Kontrakt's port
// is therefore a Handler each per-interface adapter delegates to by method
// name, rather than a literal runtime-synthesised implementation of an
// arbitrary interface — the adapter (hand-written or generated per mocked
// interface, outside this package's scope) supplies the method name and
// declared parameter/return shapes; Mock/Fake decide the answer.
package mocking

import (
	"reflect"
	"strings"

	"kontrakt/pkg/gencontext"
	"kontrakt/pkg/kerrors"
	"kontrakt/pkg/typedesc"
)

// Generator is the callback used to synthesise a plausible return value
// when no stub applies. It re-enters the Fixture Generator (spec.md
// §4.1) for the declared return type.
type Generator func(t *typedesc.Descriptor, nullable bool, ctx *gencontext.Context) (any, error)

// ReturnSpec describes one return slot of a mocked method.
type ReturnSpec struct {
	Type     *typedesc.Descriptor
	Nullable bool
}

// Stub is one configured `every { method } returns v` or `... throws e`
// entry, matched by method name: argument matchers are an external
// collaborator concern (spec.md §6), out of scope for the core.
type Stub struct {
	Method  string
	Returns []any
	Throws  error
}

// StubSet indexes stubs by method name.
type StubSet map[string]Stub

// Every starts a stub declaration for method; call Returns or Throws on
// the result to finish it.
func (s StubSet) Every(method string) *stubBuilder {
	return &stubBuilder{set: s, method: method}
}

type stubBuilder struct {
	set    StubSet
	method string
}

// Returns finishes the stub: calls to method answer with values.
func (b *stubBuilder) Returns(values ...any) {
	b.set[b.method] = Stub{Method: b.method, Returns: values}
}

// Throws finishes the stub: calls to method answer with err.
func (b *stubBuilder) Throws(err error) {
	b.set[b.method] = Stub{Method: b.method, Throws: err}
}

// Mock is a stateless Mocking Port target: every call either answers a
// configured stub or synthesises a plausible value via the Fixture
// Generator.
type Mock struct {
	ctx   *gencontext.Context
	gen   Generator
	stubs StubSet
}

// NewMock constructs a stateless mock bound to ctx, with gen as the
// fallback value source and stubs as pre-registered answers.
func NewMock(ctx *gencontext.Context, gen Generator, stubs StubSet) *Mock {
	if stubs == nil {
		stubs = StubSet{}
	}
	return &Mock{ctx: ctx, gen: gen, stubs: stubs}
}

// Invoke answers one call to method, returning one value per entry in
// returns, or the stub's configured error.
func (m *Mock) Invoke(method string, returns []ReturnSpec) ([]any, error) {
	if stub, ok := m.stubs[method]; ok {
		if stub.Throws != nil {
			return make([]any, len(returns)), stub.Throws
		}
		if stub.Returns != nil {
			return stub.Returns, nil
		}
	}
	out := make([]any, len(returns))
	for i, r := range returns {
		v, err := m.gen(r.Type, r.Nullable, m.ctx)
		if err != nil {
			return nil, &kerrors.GenerationFailed{Type: r.Type.String(), Msg: "mock return synthesis failed for " + method, Cause: err}
		}
		out[i] = v
	}
	return out, nil
}

// Fake is a stateful Mocking Port target backed by an in-memory store,
// classifying calls by method-name convention: save*/create*/register*
// insert; findById/getById/find<X> (single argument, no further
// qualifier) look up by value equality; findAll/list/*All list
// everything; delete*/remove* delete; count counts. Anything
// unclassifiable falls back to Fixture Generator synthesis, same as Mock.
type Fake struct {
	ctx   *gencontext.Context
	gen   Generator
	items []any
}

// NewFake constructs an empty stateful fake.
func NewFake(ctx *gencontext.Context, gen Generator) *Fake {
	return &Fake{ctx: ctx, gen: gen}
}

// Items returns a snapshot of everything currently stored.
func (f *Fake) Items() []any { return append([]any(nil), f.items...) }

// Invoke dispatches one call against the in-memory store.
func (f *Fake) Invoke(method string, args []any, returns []ReturnSpec) ([]any, error) {
	lower := strings.ToLower(method)
	switch {
	case hasAnyPrefix(lower, "save", "create", "register"):
		return f.insert(args, returns)
	case lower == "count":
		return []any{len(f.items)}, nil
	case hasAnyPrefix(lower, "findall", "listall") || lower == "list":
		return []any{f.Items()}, nil
	case hasAnyPrefix(lower, "delete", "remove"):
		return f.remove(args, returns)
	case strings.HasSuffix(lower, "all"):
		return []any{f.Items()}, nil
	case isSingleLookup(lower):
		return f.lookup(args, returns)
	default:
		return synthesize(f.ctx, f.gen, method, returns)
	}
}

// isSingleLookup recognizes findById/getById and find<Noun> single-key
// lookups whose name carries no further "By" qualifier; the *All family
// is handled above.
func isSingleLookup(lower string) bool {
	if lower == "findbyid" || lower == "getbyid" {
		return true
	}
	return strings.HasPrefix(lower, "find") && !strings.Contains(lower, "by") &&
		!strings.HasSuffix(lower, "all")
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func (f *Fake) insert(args []any, returns []ReturnSpec) ([]any, error) {
	if len(args) == 0 {
		return synthesize(f.ctx, f.gen, "save", returns)
	}
	f.items = append(f.items, args[0])
	if len(returns) == 0 {
		return nil, nil
	}
	return []any{args[0]}, nil
}

func (f *Fake) lookup(args []any, returns []ReturnSpec) ([]any, error) {
	if len(args) == 0 {
		return synthesize(f.ctx, f.gen, "find", returns)
	}
	for _, item := range f.items {
		if reflect.DeepEqual(item, args[0]) {
			return []any{item}, nil
		}
	}
	if len(returns) == 0 {
		return nil, nil
	}
	return []any{nil}, nil
}

func (f *Fake) remove(args []any, returns []ReturnSpec) ([]any, error) {
	if len(args) == 0 {
		return synthesize(f.ctx, f.gen, "delete", returns)
	}
	for i, item := range f.items {
		if reflect.DeepEqual(item, args[0]) {
			f.items = append(f.items[:i], f.items[i+1:]...)
			if len(returns) == 0 {
				return nil, nil
			}
			return []any{true}, nil
		}
	}
	if len(returns) == 0 {
		return nil, nil
	}
	return []any{false}, nil
}

func synthesize(ctx *gencontext.Context, gen Generator, method string, returns []ReturnSpec) ([]any, error) {
	out := make([]any, len(returns))
	for i, r := range returns {
		v, err := gen(r.Type, r.Nullable, ctx)
		if err != nil {
			return nil, &kerrors.GenerationFailed{Type: r.Type.String(), Msg: "fake fallback synthesis failed for " + method, Cause: err}
		}
		out[i] = v
	}
	return out, nil
}
