// Package depgraph implements cycle detection over the dependency
// resolution graph the Test Instance Factory (spec.md §4.5 C9) walks
// while building a subject and its dependency closure.
//
// The DFS-with-recursion-stack shape is adapted from the teacher's
// graph.Graph.GetCycles (pkg/graph/graph.go): generalized from an
// undirected room-adjacency cycle search to a directed resolution-order
// walk, where the "recursion stack" is exactly the set of types
// currently being resolved on the active call stack (spec.md §4.5 step 3:
// "Type ∈ history → CircularDependency error with path").
package depgraph

import "kontrakt/pkg/kerrors"

// Walker tracks which types are currently being resolved on the active
// stack, detecting cycles as they would be introduced rather than after
// the fact.
type Walker struct {
	onStack map[string]bool
	path    []string
}

// NewWalker constructs an empty resolution walker.
func NewWalker() *Walker {
	return &Walker{onStack: make(map[string]bool)}
}

// Enter pushes typeID onto the active resolution stack. Returns
// CircularDependency if typeID is already being resolved somewhere up the
// stack.
func (w *Walker) Enter(typeID string) error {
	if w.onStack[typeID] {
		return &kerrors.CircularDependency{Path: append(append([]string(nil), w.path...), typeID)}
	}
	w.onStack[typeID] = true
	w.path = append(w.path, typeID)
	return nil
}

// Leave pops the most recently entered type off the stack. Must be
// called exactly once for every successful Enter, typically via defer.
func (w *Walker) Leave(typeID string) {
	if len(w.path) == 0 {
		return
	}
	w.path = w.path[:len(w.path)-1]
	delete(w.onStack, typeID)
}

// Path returns the current resolution stack, outermost first.
func (w *Walker) Path() []string {
	return append([]string(nil), w.path...)
}
