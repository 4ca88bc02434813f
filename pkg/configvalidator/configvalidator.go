// Package configvalidator implements the Configuration Validator (spec.md
// §3 C5): pre-flight rejection of logically impossible constraint
// combinations, before any fixture synthesis is attempted.
//
// The rule-registry shape — independent check* functions, each returning an
// error, which Validate runs in order until the first failure — is grounded on the teacher's
// pkg/validation constraint checks (CheckConnectivity, CheckKeyReachability,
// CheckPathBounds in constraints.go), generalized from "one dungeon layout
// invariant" to "one constraint-declaration rule category" per spec.md §4.3.
package configvalidator

import (
	"fmt"

	"kontrakt/pkg/constraint"
	"kontrakt/pkg/genrequest"
	"kontrakt/pkg/kerrors"
	"kontrakt/pkg/typedesc"
)

// mutuallyExclusiveGroups lists constraint kinds of which at most one may
// appear on a single slot, per spec.md §4.3 rule 1.
var mutuallyExclusiveGroups = [][]constraint.Kind{
	{constraint.KindAssertTrue, constraint.KindAssertFalse},
	{constraint.KindNotNull, constraint.KindMustBeNull},
	{constraint.KindPast, constraint.KindPastOrPresent, constraint.KindFuture, constraint.KindFutureOrPresent},
	{constraint.KindPositive, constraint.KindPositiveOrZero, constraint.KindNegative, constraint.KindNegativeOrZero},
	{constraint.KindEmail, constraint.KindURL, constraint.KindUUID},
}

// checkMutuallyExclusive enforces spec.md §4.3 rule 1.
func checkMutuallyExclusive(req genrequest.Request) error {
	for _, group := range mutuallyExclusiveGroups {
		present := req.Constraint.FindAll(group...)
		if len(present) > 1 {
			names := make([]string, len(present))
			for i, c := range present {
				names[i] = c.Kind.String()
			}
			return &kerrors.ConflictingAnnotations{
				Field:       req.Slot,
				Annotations: names,
				Reason:      "at most one of these may be declared on the same slot",
			}
		}
	}
	return nil
}

// checkForbiddenCombination enforces spec.md §4.3 rule 2: MustBeNull
// forbids any value constraint (a null slot cannot also be constrained to
// a particular shape).
func checkForbiddenCombination(req genrequest.Request) error {
	if !req.Has(constraint.KindMustBeNull) {
		return nil
	}
	for _, c := range req.Constraint {
		if c.Kind == constraint.KindMustBeNull {
			continue
		}
		return &kerrors.ConflictingAnnotations{
			Field:       req.Slot,
			Annotations: []string{constraint.KindMustBeNull.String(), c.Kind.String()},
			Reason:      "MustBeNull forbids any value constraint on the same slot",
		}
	}
	return nil
}

// typeCompatible reports whether kind k may be attached to a slot of the
// given descriptor, per spec.md §4.3 rule 3.
func typeCompatible(k constraint.Kind, t *typedesc.Descriptor) bool {
	if t == nil {
		return true
	}
	switch k {
	case constraint.KindPattern, constraint.KindEmail, constraint.KindURL, constraint.KindUUID,
		constraint.KindNotBlank, constraint.KindStringLength:
		return t.Kind == typedesc.KindPrimitive && t.Primitive == typedesc.PrimitiveString
	case constraint.KindPositive, constraint.KindPositiveOrZero, constraint.KindNegative,
		constraint.KindNegativeOrZero, constraint.KindIntRange, constraint.KindLongRange,
		constraint.KindDoubleRange, constraint.KindDecimalMin, constraint.KindDecimalMax, constraint.KindDigits:
		return t.Kind == typedesc.KindPrimitive && isNumericPrimitive(t.Primitive)
	case constraint.KindPast, constraint.KindPastOrPresent, constraint.KindFuture, constraint.KindFutureOrPresent:
		return t.Kind == typedesc.KindPrimitive && isTemporalPrimitive(t.Primitive)
	case constraint.KindSize, constraint.KindNotEmpty:
		return t.Kind == typedesc.KindContainer || t.Kind == typedesc.KindArray ||
			(t.Kind == typedesc.KindPrimitive && t.Primitive == typedesc.PrimitiveString)
	case constraint.KindAssertTrue, constraint.KindAssertFalse:
		return t.Kind == typedesc.KindPrimitive && t.Primitive == typedesc.PrimitiveBool
	default:
		return true
	}
}

func isNumericPrimitive(p typedesc.Primitive) bool {
	switch p {
	case typedesc.PrimitiveInt, typedesc.PrimitiveLong, typedesc.PrimitiveDouble,
		typedesc.PrimitiveFloat, typedesc.PrimitiveBigDecimal:
		return true
	default:
		return false
	}
}

func isTemporalPrimitive(p typedesc.Primitive) bool {
	switch p {
	case typedesc.PrimitiveInstant, typedesc.PrimitiveLocalDate, typedesc.PrimitiveLocalDateTime,
		typedesc.PrimitiveZonedDateTime, typedesc.PrimitiveEpochDate:
		return true
	default:
		return false
	}
}

func checkTypeCompatibility(req genrequest.Request) error {
	for _, c := range req.Constraint {
		if !typeCompatible(c.Kind, req.Type) {
			return &kerrors.InvalidAnnotationValue{
				Field:  req.Slot,
				Value:  req.Type.String(),
				Reason: fmt.Sprintf("%s is not applicable to type %s", c.Kind, req.Type),
			}
		}
	}
	return nil
}

// checkAnnotationValue enforces spec.md §4.3 rule 4: each constraint's own
// internal parameters must be well-formed.
func checkAnnotationValue(req genrequest.Request) error {
	for _, c := range req.Constraint {
		switch c.Kind {
		case constraint.KindSize:
			if c.SizeMin < 0 {
				return &kerrors.InvalidAnnotationValue{Field: req.Slot, Value: c.SizeMin, Reason: "Size.min must be >= 0"}
			}
			if c.SizeMax > 0 && c.SizeMin > c.SizeMax {
				return &kerrors.InvalidAnnotationValue{Field: req.Slot, Value: c, Reason: "Size.min must be <= Size.max"}
			}
		case constraint.KindStringLength:
			if c.StringMin < 0 {
				return &kerrors.InvalidAnnotationValue{Field: req.Slot, Value: c.StringMin, Reason: "StringLength.min must be >= 0"}
			}
			if c.StringMax > 0 && c.StringMin > c.StringMax {
				return &kerrors.InvalidAnnotationValue{Field: req.Slot, Value: c, Reason: "StringLength.min must be <= StringLength.max"}
			}
		case constraint.KindIntRange:
			if c.IntMin > c.IntMax {
				return &kerrors.InvalidAnnotationValue{Field: req.Slot, Value: c, Reason: "IntRange.min must be <= IntRange.max"}
			}
		case constraint.KindLongRange:
			if c.LongMin > c.LongMax {
				return &kerrors.InvalidAnnotationValue{Field: req.Slot, Value: c, Reason: "LongRange.min must be <= LongRange.max"}
			}
		case constraint.KindDoubleRange:
			if c.DoubleMin > c.DoubleMax {
				return &kerrors.InvalidAnnotationValue{Field: req.Slot, Value: c, Reason: "DoubleRange.min must be <= DoubleRange.max"}
			}
		case constraint.KindDigits:
			if c.DigitsInteger < 0 || c.DigitsFraction < 0 {
				return &kerrors.InvalidAnnotationValue{Field: req.Slot, Value: c, Reason: "Digits.integer and Digits.fraction must be >= 0"}
			}
		case constraint.KindPast, constraint.KindPastOrPresent, constraint.KindFuture, constraint.KindFutureOrPresent:
			if c.TimeValue <= 0 {
				return &kerrors.InvalidAnnotationValue{Field: req.Slot, Value: c.TimeValue, Reason: "time window value must be > 0"}
			}
		}
	}
	return nil
}

// Validate runs every rule category in spec.md §4.3 order and returns the
// first violation found, or nil if req is well-formed.
func Validate(req genrequest.Request) error {
	checks := []func(genrequest.Request) error{
		checkMutuallyExclusive,
		checkForbiddenCombination,
		checkTypeCompatibility,
		checkAnnotationValue,
	}
	for _, check := range checks {
		if err := check(req); err != nil {
			return err
		}
	}
	return nil
}
