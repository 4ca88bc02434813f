// Package strategy implements the Type Strategies registry (spec.md §3/§4
// C4): a fixed-priority-ordered set of pluggable per-type synthesisers.
//
// The registry shape — Register/Get/List guarded by a sync.RWMutex, panic
// on duplicate registration — is adapted from the teacher's
// synthesis.GraphSynthesizer registry (pkg/synthesis/synthesizer.go),
// generalized from "one named graph-topology algorithm" to "one type
// kind's synthesiser", and from an unordered name→impl map to the fixed
// priority order spec.md §4.1 step 2 requires (Boolean, Time, Numeric,
// String, Collection, Array, Enum, TaggedUnion, Object).
package strategy

import (
	"sync"

	"kontrakt/pkg/gencontext"
	"kontrakt/pkg/genrequest"
)

// Reentry is the callback a recursive strategy (Object, Collection,
// Array, TaggedUnion) uses to re-enter the Fixture Generator for a
// nested slot. It is passed by the Fixture Generator at call time rather
// than imported, so pkg/strategy never depends on pkg/fixture (spec.md
// Design Notes §9: "Recursive strategies take the re-entry callback by
// reference to avoid ownership gymnastics").
type Reentry func(req genrequest.Request, ctx *gencontext.Context) (any, error)

// Strategy is implemented by every per-type synthesiser in the registry.
type Strategy interface {
	// Name identifies the strategy for registration and diagnostics.
	Name() string

	// Supports reports whether this strategy can handle req. The Fixture
	// Generator dispatches to the first strategy (in priority order)
	// whose Supports returns true.
	Supports(req genrequest.Request) bool

	// Generate produces one valid value.
	Generate(req genrequest.Request, ctx *gencontext.Context, reentry Reentry) (any, error)

	// Boundaries produces values exercising edge cases of the request's
	// applicable constraints. An empty, nil-error result tells the
	// Fixture Generator to fall back to a single Generate call.
	Boundaries(req genrequest.Request, ctx *gencontext.Context, reentry Reentry) ([]any, error)

	// Invalid produces values that violate at least one applicable
	// constraint on req.
	Invalid(req genrequest.Request, ctx *gencontext.Context, reentry Reentry) ([]any, error)
}

var (
	mu       sync.RWMutex
	order    []string
	registry = make(map[string]Strategy)
)

// Register adds a strategy to the registry, appending it to the priority
// order. Panics if name is already registered — strategy identity
// collisions are a programming error, not a runtime condition.
func Register(name string, s Strategy) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := registry[name]; exists {
		panic("strategy: " + name + " already registered")
	}
	registry[name] = s
	order = append(order, name)
}

// Get retrieves a registered strategy by name. Returns nil if not found.
func Get(name string) Strategy {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// List returns all registered strategy names in priority order.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Ordered returns every registered strategy in fixed priority order, the
// sequence the Fixture Generator dispatches through.
func Ordered() []Strategy {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Strategy, 0, len(order))
	for _, name := range order {
		out = append(out, registry[name])
	}
	return out
}

func init() {
	Register("boolean", NewBooleanStrategy())
	Register("time", NewTimeStrategy())
	Register("numeric", NewNumericStrategy())
	Register("string", NewStringStrategy())
	Register("collection", NewCollectionStrategy())
	Register("array", NewArrayStrategy())
	Register("enum", NewEnumStrategy())
	Register("taggedunion", NewTaggedUnionStrategy())
	Register("object", NewObjectStrategy())
}
