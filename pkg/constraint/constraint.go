// Package constraint implements the Constraint Model (spec.md §3 C1): a
// tagged variant over the declarative rules that can be attached to a
// slot (parameter, field, or return value).
//
// The tagged-enum-plus-String() shape mirrors the teacher's
// graph.ConstraintKind / graph.Constraint pair, generalized from one
// closed set of dungeon-layout constraint kinds to the full constraint
// algebra spec.md §3 requires.
package constraint

import "fmt"

// Kind discriminates which variant of Constraint is populated. Exactly one
// meaningful payload field on Constraint corresponds to each Kind; callers
// must switch on Kind rather than infer the variant from zero values.
type Kind int

const (
	KindNotNull Kind = iota
	KindMustBeNull

	KindAssertTrue
	KindAssertFalse

	KindIntRange
	KindLongRange
	KindDoubleRange
	KindDecimalMin
	KindDecimalMax
	KindDigits

	KindPositive
	KindPositiveOrZero
	KindNegative
	KindNegativeOrZero

	KindNotBlank
	KindStringLength
	KindPattern
	KindEmail
	KindURL
	KindUUID

	KindSize
	KindNotEmpty

	KindPast
	KindPastOrPresent
	KindFuture
	KindFutureOrPresent
)

var kindNames = [...]string{
	"NotNull", "MustBeNull",
	"AssertTrue", "AssertFalse",
	"IntRange", "LongRange", "DoubleRange", "DecimalMin", "DecimalMax", "Digits",
	"Positive", "PositiveOrZero", "Negative", "NegativeOrZero",
	"NotBlank", "StringLength", "Pattern", "Email", "Url", "Uuid",
	"Size", "NotEmpty",
	"Past", "PastOrPresent", "Future", "FutureOrPresent",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
	return kindNames[k]
}

// TimeBase names the anchor for a time constraint: either the session
// clock or a literal ISO value, per spec.md §3.
type TimeBase struct {
	// Now is true when the annotation's base is the literal "NOW".
	Now bool
	// Literal holds the raw ISO date/datetime/instant string when Now is
	// false.
	Literal string
}

// TimeUnit enumerates the duration units a Past/Future window may use.
type TimeUnit int

const (
	UnitSeconds TimeUnit = iota
	UnitMinutes
	UnitHours
	UnitDays
	UnitYears
)

// Seconds returns the number of seconds one unit of u represents.
func (u TimeUnit) Seconds() int64 {
	switch u {
	case UnitSeconds:
		return 1
	case UnitMinutes:
		return 60
	case UnitHours:
		return 3600
	case UnitDays:
		return 86400
	case UnitYears:
		return 365 * 86400
	default:
		return 1
	}
}

// Constraint is the tagged variant described by spec.md §3. Only the
// fields relevant to Kind are populated; all others are zero.
type Constraint struct {
	Kind Kind

	// Numeric ranges / sign / digits.
	IntMin, IntMax       int
	LongMin, LongMax     int64
	DoubleMin, DoubleMax float64
	DecimalValue         float64
	DecimalInclusive     bool
	DigitsInteger        int
	DigitsFraction       int

	// String.
	StringMin, StringMax int
	Regex                string
	EmailAllow           []string
	EmailBlock           []string
	URLProtocol          []string
	URLHostAllow         []string
	URLHostBlock         []string

	// Size.
	SizeMin, SizeMax int
	SizeIgnoreLimit  bool

	// Time.
	TimeBaseValue TimeBase
	TimeValue     int64
	TimeUnitValue TimeUnit
	TimeZone      string
}

// String renders a human-readable form used in violation messages and
// trace records.
func (c Constraint) String() string {
	switch c.Kind {
	case KindIntRange:
		return fmt.Sprintf("IntRange[min=%d,max=%d]", c.IntMin, c.IntMax)
	case KindLongRange:
		return fmt.Sprintf("LongRange[min=%d,max=%d]", c.LongMin, c.LongMax)
	case KindDoubleRange:
		return fmt.Sprintf("DoubleRange[min=%g,max=%g]", c.DoubleMin, c.DoubleMax)
	case KindDecimalMin:
		return fmt.Sprintf("DecimalMin[value=%g,inclusive=%t]", c.DecimalValue, c.DecimalInclusive)
	case KindDecimalMax:
		return fmt.Sprintf("DecimalMax[value=%g,inclusive=%t]", c.DecimalValue, c.DecimalInclusive)
	case KindDigits:
		return fmt.Sprintf("Digits[integer=%d,fraction=%d]", c.DigitsInteger, c.DigitsFraction)
	case KindStringLength:
		return fmt.Sprintf("StringLength[min=%d,max=%d]", c.StringMin, c.StringMax)
	case KindPattern:
		return fmt.Sprintf("Pattern[%s]", c.Regex)
	case KindEmail:
		return fmt.Sprintf("Email[allow=%v,block=%v]", c.EmailAllow, c.EmailBlock)
	case KindURL:
		return fmt.Sprintf("Url[protocol=%v,hostAllow=%v,hostBlock=%v]", c.URLProtocol, c.URLHostAllow, c.URLHostBlock)
	case KindSize:
		return fmt.Sprintf("Size[min=%d,max=%d,ignoreLimit=%t]", c.SizeMin, c.SizeMax, c.SizeIgnoreLimit)
	case KindPast, KindPastOrPresent, KindFuture, KindFutureOrPresent:
		return fmt.Sprintf("%s[base=%+v,value=%d,unit=%d,zone=%s]", c.Kind, c.TimeBaseValue, c.TimeValue, c.TimeUnitValue, c.TimeZone)
	default:
		return c.Kind.String()
	}
}

// Constructors. Each mirrors exactly one clause of spec.md §3.

func NotNull() Constraint    { return Constraint{Kind: KindNotNull} }
func MustBeNull() Constraint { return Constraint{Kind: KindMustBeNull} }

func AssertTrue() Constraint  { return Constraint{Kind: KindAssertTrue} }
func AssertFalse() Constraint { return Constraint{Kind: KindAssertFalse} }

func IntRange(min, max int) Constraint {
	return Constraint{Kind: KindIntRange, IntMin: min, IntMax: max}
}

func LongRange(min, max int64) Constraint {
	return Constraint{Kind: KindLongRange, LongMin: min, LongMax: max}
}

func DoubleRange(min, max float64) Constraint {
	return Constraint{Kind: KindDoubleRange, DoubleMin: min, DoubleMax: max}
}

func DecimalMin(value float64, inclusive bool) Constraint {
	return Constraint{Kind: KindDecimalMin, DecimalValue: value, DecimalInclusive: inclusive}
}

func DecimalMax(value float64, inclusive bool) Constraint {
	return Constraint{Kind: KindDecimalMax, DecimalValue: value, DecimalInclusive: inclusive}
}

func Digits(integer, fraction int) Constraint {
	return Constraint{Kind: KindDigits, DigitsInteger: integer, DigitsFraction: fraction}
}

func Positive() Constraint       { return Constraint{Kind: KindPositive} }
func PositiveOrZero() Constraint { return Constraint{Kind: KindPositiveOrZero} }
func Negative() Constraint       { return Constraint{Kind: KindNegative} }
func NegativeOrZero() Constraint { return Constraint{Kind: KindNegativeOrZero} }

func NotBlank() Constraint { return Constraint{Kind: KindNotBlank} }

func StringLength(min, max int) Constraint {
	return Constraint{Kind: KindStringLength, StringMin: min, StringMax: max}
}

func Pattern(regex string) Constraint { return Constraint{Kind: KindPattern, Regex: regex} }

func Email(allow, block []string) Constraint {
	return Constraint{Kind: KindEmail, EmailAllow: allow, EmailBlock: block}
}

func URL(protocol, hostAllow, hostBlock []string) Constraint {
	return Constraint{Kind: KindURL, URLProtocol: protocol, URLHostAllow: hostAllow, URLHostBlock: hostBlock}
}

func UUID() Constraint { return Constraint{Kind: KindUUID} }

func Size(min, max int, ignoreLimit bool) Constraint {
	return Constraint{Kind: KindSize, SizeMin: min, SizeMax: max, SizeIgnoreLimit: ignoreLimit}
}

func NotEmpty() Constraint { return Constraint{Kind: KindNotEmpty} }

func Past(base TimeBase, value int64, unit TimeUnit, zone string) Constraint {
	return Constraint{Kind: KindPast, TimeBaseValue: base, TimeValue: value, TimeUnitValue: unit, TimeZone: zone}
}

func PastOrPresent(base TimeBase, value int64, unit TimeUnit, zone string) Constraint {
	return Constraint{Kind: KindPastOrPresent, TimeBaseValue: base, TimeValue: value, TimeUnitValue: unit, TimeZone: zone}
}

func Future(base TimeBase, value int64, unit TimeUnit, zone string) Constraint {
	return Constraint{Kind: KindFuture, TimeBaseValue: base, TimeValue: value, TimeUnitValue: unit, TimeZone: zone}
}

func FutureOrPresent(base TimeBase, value int64, unit TimeUnit, zone string) Constraint {
	return Constraint{Kind: KindFutureOrPresent, TimeBaseValue: base, TimeValue: value, TimeUnitValue: unit, TimeZone: zone}
}

// Set is an ordered collection of constraints attached to one slot. Order
// is preserved because some diagnostics (first-violation reporting) are
// defined in terms of declaration order.
type Set []Constraint

// Find returns the first constraint of Kind k, and whether one exists.
func (s Set) Find(k Kind) (Constraint, bool) {
	for _, c := range s {
		if c.Kind == k {
			return c, true
		}
	}
	return Constraint{}, false
}

// Has reports whether any constraint of Kind k is present.
func (s Set) Has(k Kind) bool {
	_, ok := s.Find(k)
	return ok
}

// FindAll returns every constraint matching any of the given kinds, in
// declaration order.
func (s Set) FindAll(kinds ...Kind) Set {
	want := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	out := make(Set, 0, len(s))
	for _, c := range s {
		if want[c.Kind] {
			out = append(out, c)
		}
	}
	return out
}
