// Package valuevalidator implements the Value Contract Validator (spec.md
// §3 C7): checks a concrete value against the constraints attached to a
// slot, used both for standalone validation and to confirm return-value
// compliance in the Scenario Executor (spec.md §4.6 ContractAuto).
package valuevalidator

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"kontrakt/pkg/constraint"
	"kontrakt/pkg/genrequest"
	"kontrakt/pkg/kerrors"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// formatValidator backs the Email/Url well-formedness checks, used only
// for ad hoc single-value checks via Var; no struct tags are read.
var formatValidator = validator.New()

// Validate checks value against every constraint attached to req, per
// spec.md §4.4. Returns the first ContractViolation encountered, or nil.
func Validate(req genrequest.Request, value any, clock time.Time) error {
	if value == nil {
		if !req.IsNullable() {
			return &kerrors.ContractViolation{Rule: "NotNull", Message: fmt.Sprintf("%s: value is null", req.Slot)}
		}
		return nil
	}
	if req.Has(constraint.KindMustBeNull) {
		return &kerrors.ContractViolation{Rule: "MustBeNull", Message: fmt.Sprintf("%s: expected null, got %v", req.Slot, value)}
	}

	for _, c := range req.Constraint {
		if err := checkOne(req, c, value, clock); err != nil {
			return err
		}
	}
	return nil
}

func checkOne(req genrequest.Request, c constraint.Constraint, value any, clock time.Time) error {
	switch c.Kind {
	case constraint.KindAssertTrue:
		if b, ok := value.(bool); ok && !b {
			return violation(req, c, "value must be true", value)
		}
	case constraint.KindAssertFalse:
		if b, ok := value.(bool); ok && b {
			return violation(req, c, "value must be false", value)
		}
	case constraint.KindIntRange, constraint.KindLongRange, constraint.KindDoubleRange,
		constraint.KindDecimalMin, constraint.KindDecimalMax, constraint.KindPositive,
		constraint.KindPositiveOrZero, constraint.KindNegative, constraint.KindNegativeOrZero, constraint.KindDigits:
		return checkNumeric(req, c, value)
	case constraint.KindNotBlank:
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			return violation(req, c, "value must not be blank", value)
		}
	case constraint.KindStringLength:
		if s, ok := value.(string); ok {
			n := len(s)
			if n < c.StringMin || (c.StringMax > 0 && n > c.StringMax) {
				return violation(req, c, fmt.Sprintf("length %d out of [%d,%d]", n, c.StringMin, c.StringMax), value)
			}
		}
	case constraint.KindPattern:
		if s, ok := value.(string); ok {
			re, err := regexp.Compile(`^(?:` + c.Regex + `)$`)
			if err == nil && !re.MatchString(s) {
				return violation(req, c, fmt.Sprintf("%q does not fully match /%s/", s, c.Regex), value)
			}
		}
	case constraint.KindEmail:
		if s, ok := value.(string); ok {
			if err := checkEmail(req, c, s); err != nil {
				return err
			}
		}
	case constraint.KindURL:
		if s, ok := value.(string); ok {
			if err := checkURL(req, c, s); err != nil {
				return err
			}
		}
	case constraint.KindUUID:
		if s, ok := value.(string); ok && !uuidPattern.MatchString(s) {
			return violation(req, c, fmt.Sprintf("%q is not a canonical UUID", s), value)
		}
	case constraint.KindSize, constraint.KindNotEmpty:
		return checkSize(req, c, value)
	case constraint.KindPast, constraint.KindPastOrPresent, constraint.KindFuture, constraint.KindFutureOrPresent:
		return checkTime(req, c, value, clock)
	}
	return nil
}

func violation(req genrequest.Request, c constraint.Constraint, msg string, value any) error {
	return &kerrors.ContractViolation{
		Rule:    c.Kind.String(),
		Message: fmt.Sprintf("%s: %s (got %v)", req.Slot, msg, value),
	}
}

// asDecimal renders any supported numeric Go value as a float64 "common
// BigDecimal view", per spec.md §4.4 ("exact for all integral/BigDecimal
// inputs; lossy-but-consistent for float/double").
func asDecimal(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func checkNumeric(req genrequest.Request, c constraint.Constraint, value any) error {
	v, ok := asDecimal(value)
	if !ok {
		return nil
	}
	switch c.Kind {
	case constraint.KindIntRange:
		if v < float64(c.IntMin) || v > float64(c.IntMax) {
			return violation(req, c, "out of IntRange", value)
		}
	case constraint.KindLongRange:
		if v < float64(c.LongMin) || v > float64(c.LongMax) {
			return violation(req, c, "out of LongRange", value)
		}
	case constraint.KindDoubleRange:
		if v < c.DoubleMin || v > c.DoubleMax {
			return violation(req, c, "out of DoubleRange", value)
		}
	case constraint.KindDecimalMin:
		if (c.DecimalInclusive && v < c.DecimalValue) || (!c.DecimalInclusive && v <= c.DecimalValue) {
			return violation(req, c, "below DecimalMin", value)
		}
	case constraint.KindDecimalMax:
		if (c.DecimalInclusive && v > c.DecimalValue) || (!c.DecimalInclusive && v >= c.DecimalValue) {
			return violation(req, c, "above DecimalMax", value)
		}
	case constraint.KindPositive:
		if v <= 0 {
			return violation(req, c, "must be positive", value)
		}
	case constraint.KindPositiveOrZero:
		if v < 0 {
			return violation(req, c, "must be positive or zero", value)
		}
	case constraint.KindNegative:
		if v >= 0 {
			return violation(req, c, "must be negative", value)
		}
	case constraint.KindNegativeOrZero:
		if v > 0 {
			return violation(req, c, "must be negative or zero", value)
		}
	case constraint.KindDigits:
		limit := math.Pow(10, float64(c.DigitsInteger)) - math.Pow(10, -float64(c.DigitsFraction))
		if math.Abs(v) > limit {
			return violation(req, c, "exceeds Digits magnitude", value)
		}
	}
	return nil
}

func checkEmail(req genrequest.Request, c constraint.Constraint, s string) error {
	if !strings.Contains(s, "@") || !strings.Contains(s, ".") {
		return violation(req, c, "not a well-formed email", s)
	}
	if err := formatValidator.Var(s, "email"); err != nil {
		return violation(req, c, "not a well-formed email", s)
	}
	domain := s[strings.LastIndex(s, "@")+1:]
	if len(c.EmailAllow) > 0 && !contains(c.EmailAllow, domain) {
		return violation(req, c, fmt.Sprintf("domain %q not in allow list", domain), s)
	}
	if contains(c.EmailBlock, domain) {
		return violation(req, c, fmt.Sprintf("domain %q is blocked", domain), s)
	}
	return nil
}

func checkURL(req genrequest.Request, c constraint.Constraint, s string) error {
	if err := formatValidator.Var(s, "url"); err != nil {
		return violation(req, c, "not a well-formed URL", s)
	}
	idx := strings.Index(s, "://")
	if idx < 0 {
		return violation(req, c, "not a well-formed URL", s)
	}
	scheme := s[:idx]
	hostAndRest := s[idx+3:]
	host := hostAndRest
	if slash := strings.IndexAny(hostAndRest, "/?"); slash >= 0 {
		host = hostAndRest[:slash]
	}
	if len(c.URLProtocol) > 0 && !contains(c.URLProtocol, scheme) {
		return violation(req, c, fmt.Sprintf("scheme %q not allowed", scheme), s)
	}
	if len(c.URLHostAllow) > 0 && !contains(c.URLHostAllow, host) {
		return violation(req, c, fmt.Sprintf("host %q not in allow list", host), s)
	}
	if contains(c.URLHostBlock, host) {
		return violation(req, c, fmt.Sprintf("host %q is blocked", host), s)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func sizeOf(value any) (int, bool) {
	switch v := value.(type) {
	case string:
		return len(v), true
	case []any:
		return len(v), true
	case map[any]any:
		return len(v), true
	default:
		return 0, false
	}
}

func checkSize(req genrequest.Request, c constraint.Constraint, value any) error {
	n, ok := sizeOf(value)
	if !ok {
		return nil
	}
	if c.Kind == constraint.KindNotEmpty {
		if n == 0 {
			return violation(req, c, "must not be empty", value)
		}
		return nil
	}
	if n < c.SizeMin || (c.SizeMax > 0 && n > c.SizeMax) {
		return violation(req, c, fmt.Sprintf("size %d out of [%d,%d]", n, c.SizeMin, c.SizeMax), value)
	}
	return nil
}

func checkTime(req genrequest.Request, c constraint.Constraint, value any, clock time.Time) error {
	t, ok := value.(time.Time)
	if !ok {
		return nil
	}
	now := clock
	switch c.Kind {
	case constraint.KindPast:
		if !t.Before(now) {
			return violation(req, c, "must be strictly before now", value)
		}
	case constraint.KindPastOrPresent:
		if t.After(now) {
			return violation(req, c, "must not be after now", value)
		}
	case constraint.KindFuture:
		if !t.After(now) {
			return violation(req, c, "must be strictly after now", value)
		}
	case constraint.KindFutureOrPresent:
		if t.Before(now) {
			return violation(req, c, "must not be before now", value)
		}
	}
	return nil
}
