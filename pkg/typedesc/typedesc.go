// Package typedesc replaces the source system's runtime reflection over
// parameter/type metadata with an explicit, closed TypeDescriptor tagged
// variant (spec.md Design Notes §9). Every strategy, validator, and
// executor in Kontrakt operates on descriptors alone; nothing in the core
// inspects Go's reflect.Type. Descriptors are built by hand with the
// constructor functions in this package.
package typedesc

import (
	"fmt"

	"kontrakt/pkg/constraint"
)

// Kind discriminates the tagged variant.
type Kind int

const (
	KindPrimitive Kind = iota
	KindContainer
	KindArray
	KindEnum
	KindTaggedUnion
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindContainer:
		return "Container"
	case KindArray:
		return "Array"
	case KindEnum:
		return "Enum"
	case KindTaggedUnion:
		return "TaggedUnion"
	case KindObject:
		return "Object"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Primitive enumerates the leaf value kinds strategies dispatch on.
type Primitive int

const (
	PrimitiveBool Primitive = iota
	PrimitiveInt
	PrimitiveLong
	PrimitiveDouble
	PrimitiveFloat
	PrimitiveBigDecimal
	PrimitiveString
	PrimitiveInstant
	PrimitiveLocalDate
	PrimitiveLocalDateTime
	PrimitiveZonedDateTime
	PrimitiveEpochDate
)

func (p Primitive) String() string {
	names := [...]string{
		"Bool", "Int", "Long", "Double", "Float", "BigDecimal", "String",
		"Instant", "LocalDate", "LocalDateTime", "ZonedDateTime", "EpochDate",
	}
	if int(p) < 0 || int(p) >= len(names) {
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
	return names[p]
}

// ContainerKind distinguishes the shapes a Container descriptor can take.
type ContainerKind int

const (
	ContainerList ContainerKind = iota
	ContainerSet
	ContainerQueue
	ContainerMap
)

func (c ContainerKind) String() string {
	switch c {
	case ContainerList:
		return "List"
	case ContainerSet:
		return "Set"
	case ContainerQueue:
		return "Queue"
	case ContainerMap:
		return "Map"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Field describes one constructor parameter or struct field of an Object
// descriptor: its name (the "slot name" from spec.md §3), its own nested
// descriptor, and whether the slot is allowed to be nil.
type Field struct {
	Name        string
	Type        *Descriptor
	Nullable    bool
	Constraints constraint.Set
}

// Descriptor is the closed tagged-union TypeDescriptor. Exactly one of
// Element/Fields/Variants/UnionTypes is meaningful per Kind, selected by
// Kind — callers must switch on Kind rather than guess from which fields
// are populated.
type Descriptor struct {
	Kind Kind

	// ID is a stable identifier for the concrete type this descriptor
	// names, used as the key in GenerationContext.history for recursion
	// detection (spec.md §3 I-C3.2).
	ID string

	// Primitive is meaningful when Kind == KindPrimitive.
	Primitive Primitive

	// Container is meaningful when Kind == KindContainer.
	Container ContainerKind
	// Element is the element descriptor for KindContainer/KindArray
	// (for KindContainer with Container == ContainerMap, Element is the
	// value type and MapKey is the key type).
	Element *Descriptor
	MapKey  *Descriptor

	// ArrayLen, when >= 0, pins an array to a fixed length (Go [N]T);
	// -1 means a slice (no fixed length).
	ArrayLen int

	// Variants lists the enum constant names (KindEnum), which
	// EnumFactory turns into values; UnionTypes lists the subtype
	// descriptors of a closed hierarchy (KindTaggedUnion).
	Variants     []string
	UnionTypes   []*Descriptor
	EnumFactory  func(constant string) (any, error)

	// Fields and Construct describe a KindObject descriptor: the
	// constructor's parameter list, and a factory that builds a real
	// instance from the generated arguments (positional, matching
	// Fields order).
	Fields    []Field
	Construct func(args []any) (any, error)
}

// IsRecursive reports whether synthesising this descriptor may need to
// re-enter the Fixture Generator (Object, Container element, Array
// element, TaggedUnion variant) as opposed to producing a terminal leaf
// value directly.
func (d *Descriptor) IsRecursive() bool {
	switch d.Kind {
	case KindObject, KindContainer, KindArray, KindTaggedUnion:
		return true
	default:
		return false
	}
}

// String gives a short human-readable rendering, used in error messages
// and trace records.
func (d *Descriptor) String() string {
	switch d.Kind {
	case KindPrimitive:
		return d.Primitive.String()
	case KindContainer:
		if d.Container == ContainerMap {
			return fmt.Sprintf("Map<%s,%s>", d.MapKey, d.Element)
		}
		return fmt.Sprintf("%s<%s>", d.Container, d.Element)
	case KindArray:
		return fmt.Sprintf("Array<%s>", d.Element)
	case KindEnum:
		return fmt.Sprintf("Enum(%s)", d.ID)
	case KindTaggedUnion:
		return fmt.Sprintf("TaggedUnion(%s)", d.ID)
	case KindObject:
		return fmt.Sprintf("Object(%s)", d.ID)
	default:
		return "Descriptor(?)"
	}
}

// Primitive constructors for common leaf descriptors.

func Bool() *Descriptor       { return &Descriptor{Kind: KindPrimitive, ID: "bool", Primitive: PrimitiveBool} }
func Int() *Descriptor        { return &Descriptor{Kind: KindPrimitive, ID: "int", Primitive: PrimitiveInt} }
func Long() *Descriptor       { return &Descriptor{Kind: KindPrimitive, ID: "long", Primitive: PrimitiveLong} }
func Double() *Descriptor     { return &Descriptor{Kind: KindPrimitive, ID: "double", Primitive: PrimitiveDouble} }
func Float() *Descriptor      { return &Descriptor{Kind: KindPrimitive, ID: "float", Primitive: PrimitiveFloat} }
func BigDecimal() *Descriptor { return &Descriptor{Kind: KindPrimitive, ID: "bigdecimal", Primitive: PrimitiveBigDecimal} }
func String() *Descriptor     { return &Descriptor{Kind: KindPrimitive, ID: "string", Primitive: PrimitiveString} }

// Time builds a descriptor for one of the temporal representations.
func Time(p Primitive) *Descriptor {
	return &Descriptor{Kind: KindPrimitive, ID: p.String(), Primitive: p}
}

// List builds a KindContainer/ContainerList descriptor over element.
func List(element *Descriptor) *Descriptor {
	return &Descriptor{Kind: KindContainer, ID: "list", Container: ContainerList, Element: element, ArrayLen: -1}
}

// SetOf builds a KindContainer/ContainerSet descriptor over element.
func SetOf(element *Descriptor) *Descriptor {
	return &Descriptor{Kind: KindContainer, ID: "set", Container: ContainerSet, Element: element, ArrayLen: -1}
}

// Queue builds a KindContainer/ContainerQueue descriptor over element.
func Queue(element *Descriptor) *Descriptor {
	return &Descriptor{Kind: KindContainer, ID: "queue", Container: ContainerQueue, Element: element, ArrayLen: -1}
}

// MapOf builds a KindContainer/ContainerMap descriptor.
func MapOf(key, value *Descriptor) *Descriptor {
	return &Descriptor{Kind: KindContainer, ID: "map", Container: ContainerMap, MapKey: key, Element: value, ArrayLen: -1}
}

// ArrayOf builds a KindArray descriptor; length < 0 means unbounded (a Go
// slice standing in for a dynamically-sized array).
func ArrayOf(element *Descriptor, length int) *Descriptor {
	return &Descriptor{Kind: KindArray, ID: "array", Element: element, ArrayLen: length}
}

// EnumOf builds a KindEnum descriptor from declared constant names.
func EnumOf(id string, variants []string, factory func(string) (any, error)) *Descriptor {
	return &Descriptor{Kind: KindEnum, ID: id, Variants: append([]string(nil), variants...), EnumFactory: factory}
}

// TaggedUnionOf builds a KindTaggedUnion descriptor from a closed set of
// subtype descriptors. An empty subtypes slice is valid to construct but
// will be rejected at generation time with SealedClassHasNoSubclasses.
func TaggedUnionOf(id string, subtypes []*Descriptor) *Descriptor {
	return &Descriptor{Kind: KindTaggedUnion, ID: id, UnionTypes: subtypes}
}

// ObjectOf builds a KindObject descriptor for a constructor-based type.
func ObjectOf(id string, fields []Field, construct func([]any) (any, error)) *Descriptor {
	return &Descriptor{Kind: KindObject, ID: id, Fields: fields, Construct: construct}
}
