// Package gencontext implements the Generation Context (spec.md §3 C3):
// the per-session state threaded through every call into the Fixture
// Generator — a shared seeded RNG, a clock fixed once at session start,
// and the cycle-history set used to detect recursive object graphs.
package gencontext

import (
	"time"

	"kontrakt/pkg/rng"
)

// Context carries the invariants documented in spec.md §3:
//
//	I-C3.1: rng is shared and advanced in generation order.
//	I-C3.2: history is updated immutably — children see parent ∪
//	        {current}, peers remain isolated.
//	I-C3.3: clock never advances within a session.
type Context struct {
	RNG     *rng.RNG
	clock   time.Time
	history map[string]struct{}
}

// New creates the root Context for a session: a fresh RNG from seed and
// the clock fixed to now.
func New(seed uint64, now time.Time) *Context {
	return &Context{
		RNG:     rng.New(seed),
		clock:   now,
		history: map[string]struct{}{},
	}
}

// Clock returns the fixed wall-clock instant captured at session start.
// Time strategies compute "now" from this, never from the real clock.
func (c *Context) Clock() time.Time { return c.clock }

// OnHistory reports whether typeID is already on the active generation
// stack for this branch.
func (c *Context) OnHistory(typeID string) bool {
	_, ok := c.history[typeID]
	return ok
}

// WithType returns a *new* Context — same RNG and clock, history extended
// by typeID — for re-entering the Fixture Generator on a recursive slot
// (spec.md §3 I-C3.2: "children see parent ∪ {current}, peers remain
// isolated"). The parent's own history is untouched, so sibling fields of
// the same object do not see each other's recursion guards.
func (c *Context) WithType(typeID string) *Context {
	child := make(map[string]struct{}, len(c.history)+1)
	for k := range c.history {
		child[k] = struct{}{}
	}
	child[typeID] = struct{}{}
	return &Context{RNG: c.RNG, clock: c.clock, history: child}
}

// WithRNG returns a *new* Context sharing this one's clock and history but
// drawing from a different RNG — used to isolate a sub-stream (e.g. the
// Constructor Compliance Executor's defensive-fuzz pass, via RNG.Derive)
// so its draws don't perturb the caller's own position in its RNG
// sequence.
func (c *Context) WithRNG(r *rng.RNG) *Context {
	return &Context{RNG: r, clock: c.clock, history: c.history}
}

// HistoryPath returns the current history set as a slice, for embedding
// in RecursiveGenerationFailed error paths. Order is not significant.
func (c *Context) HistoryPath() []string {
	out := make([]string, 0, len(c.history))
	for k := range c.history {
		out = append(out, k)
	}
	return out
}
