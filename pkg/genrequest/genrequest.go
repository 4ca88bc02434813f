// Package genrequest implements the immutable Generation Request (spec.md
// §3 C2): the description of one synthesis target — its type, the slot
// name it fills, and the constraints attached to that slot.
package genrequest

import (
	"fmt"

	"kontrakt/pkg/constraint"
	"kontrakt/pkg/typedesc"
)

// Request is the immutable triple (type, constraints, slot-name). Once
// constructed it is never mutated; derived requests (collection element,
// map key/value, constructor parameter) are built fresh via the For*
// helpers below.
type Request struct {
	Type       *typedesc.Descriptor
	Constraint constraint.Set
	Slot       string
	// Nullable is true when the slot's own type permits null/nil
	// independent of the NotNull/MustBeNull constraints (e.g. a Go
	// pointer or interface parameter without an explicit NotNull tag).
	Nullable bool
}

// New builds a top-level request, as constructed at session entry.
func New(t *typedesc.Descriptor, slot string, cs constraint.Set, nullable bool) Request {
	return Request{Type: t, Constraint: cs, Slot: slot, Nullable: nullable}
}

// Has reports whether the request's slot carries a constraint of kind k.
func (r Request) Has(k constraint.Kind) bool { return r.Constraint.Has(k) }

// Find returns the first constraint of kind k on this slot.
func (r Request) Find(k constraint.Kind) (constraint.Constraint, bool) {
	return r.Constraint.Find(k)
}

// IsNullable reports whether a nil/null value is an acceptable outcome
// for this slot: the slot's own type allows it and MustBeNull/NotNull
// have not pinned the answer, or NotNull is explicitly absent.
func (r Request) IsNullable() bool {
	if r.Has(constraint.KindNotNull) {
		return false
	}
	if r.Has(constraint.KindMustBeNull) {
		return true
	}
	return r.Nullable
}

// MustBeNull reports whether the slot is pinned to null by an explicit
// MustBeNull constraint.
func (r Request) MustBeNull() bool { return r.Has(constraint.KindMustBeNull) }

// ForElement derives a request for one element of a container/array slot.
// Per spec.md §4.2.5, element slots inherit no constraints from their
// parent except nullability of the element type itself.
func (r Request) ForElement(elementType *typedesc.Descriptor, elementNullable bool) Request {
	return Request{
		Type:       elementType,
		Constraint: nil,
		Slot:       fmt.Sprintf("%s[]", r.Slot),
		Nullable:   elementNullable,
	}
}

// ForMapKey derives a request for a map's key type.
func (r Request) ForMapKey(keyType *typedesc.Descriptor) Request {
	return Request{Type: keyType, Slot: fmt.Sprintf("%s.key", r.Slot), Nullable: false}
}

// ForMapValue derives a request for a map's value type.
func (r Request) ForMapValue(valueType *typedesc.Descriptor, nullable bool) Request {
	return Request{Type: valueType, Slot: fmt.Sprintf("%s.value", r.Slot), Nullable: nullable}
}

// ForField derives a request for one constructor parameter / object
// field, carrying that field's own declared constraints.
func ForField(parent Request, field typedesc.Field) Request {
	return Request{
		Type:       field.Type,
		Constraint: field.Constraints,
		Slot:       fmt.Sprintf("%s.%s", parent.Slot, field.Name),
		Nullable:   field.Nullable,
	}
}

// String renders the request for diagnostics and trace records.
func (r Request) String() string {
	return fmt.Sprintf("%s:%s%s", r.Slot, r.Type, r.Constraint)
}
