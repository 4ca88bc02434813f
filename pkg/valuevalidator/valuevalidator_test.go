package valuevalidator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kontrakt/pkg/constraint"
	"kontrakt/pkg/genrequest"
	"kontrakt/pkg/kerrors"
	"kontrakt/pkg/typedesc"
	"kontrakt/pkg/valuevalidator"
)

var clock = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestValidate_NullOnNotNullSlotViolates(t *testing.T) {
	req := genrequest.New(typedesc.String(), "name", constraint.Set{constraint.NotNull()}, false)
	err := valuevalidator.Validate(req, nil, clock)
	require.Error(t, err)
	require.IsType(t, &kerrors.ContractViolation{}, err)
}

func TestValidate_NullWithoutNotNullIsFine(t *testing.T) {
	req := genrequest.New(typedesc.String(), "name", nil, true)
	require.NoError(t, valuevalidator.Validate(req, nil, clock))
}

func TestValidate_NonNullOnMustBeNullSlotViolates(t *testing.T) {
	req := genrequest.New(typedesc.String(), "name", constraint.Set{constraint.MustBeNull()}, true)
	err := valuevalidator.Validate(req, "present", clock)
	require.Error(t, err)
}

func TestValidate_IntRange(t *testing.T) {
	req := genrequest.New(typedesc.Int(), "count", constraint.Set{constraint.IntRange(1, 10)}, false)
	require.NoError(t, valuevalidator.Validate(req, 5, clock))
	require.Error(t, valuevalidator.Validate(req, 11, clock))
	require.Error(t, valuevalidator.Validate(req, 0, clock))
}

func TestValidate_StringLength(t *testing.T) {
	req := genrequest.New(typedesc.String(), "name", constraint.Set{constraint.StringLength(2, 4)}, false)
	require.NoError(t, valuevalidator.Validate(req, "abc", clock))
	require.Error(t, valuevalidator.Validate(req, "a", clock))
	require.Error(t, valuevalidator.Validate(req, "abcde", clock))
}

func TestValidate_Pattern(t *testing.T) {
	req := genrequest.New(typedesc.String(), "code", constraint.Set{constraint.Pattern(`^[A-Z]{3}$`)}, false)
	require.NoError(t, valuevalidator.Validate(req, "ABC", clock))
	require.Error(t, valuevalidator.Validate(req, "abc", clock))
}

func TestValidate_Email(t *testing.T) {
	req := genrequest.New(typedesc.String(), "email", constraint.Set{constraint.Email(nil, []string{"blocked.com"})}, false)
	require.NoError(t, valuevalidator.Validate(req, "user@example.com", clock))
	require.Error(t, valuevalidator.Validate(req, "not-an-email", clock))
	require.Error(t, valuevalidator.Validate(req, "user@blocked.com", clock))
}

func TestValidate_URL(t *testing.T) {
	req := genrequest.New(typedesc.String(), "link", constraint.Set{constraint.URL([]string{"https"}, nil, nil)}, false)
	require.NoError(t, valuevalidator.Validate(req, "https://example.com/path", clock))
	require.Error(t, valuevalidator.Validate(req, "ftp://example.com", clock))
}

func TestValidate_UUID(t *testing.T) {
	req := genrequest.New(typedesc.String(), "id", constraint.Set{constraint.UUID()}, false)
	require.NoError(t, valuevalidator.Validate(req, "123e4567-e89b-12d3-a456-426614174000", clock))
	require.Error(t, valuevalidator.Validate(req, "not-a-uuid", clock))
}

func TestValidate_SizeAndNotEmpty(t *testing.T) {
	req := genrequest.New(typedesc.List(typedesc.Int()), "items", constraint.Set{constraint.Size(1, 3, false)}, false)
	require.NoError(t, valuevalidator.Validate(req, []any{1, 2}, clock))
	require.Error(t, valuevalidator.Validate(req, []any{}, clock))
	require.Error(t, valuevalidator.Validate(req, []any{1, 2, 3, 4}, clock))
}

func TestValidate_PastAndFuture(t *testing.T) {
	req := genrequest.New(typedesc.Time(typedesc.PrimitiveInstant), "at", constraint.Set{constraint.Past(constraint.TimeBase{Now: true}, 1, constraint.UnitDays, "")}, false)
	require.NoError(t, valuevalidator.Validate(req, clock.Add(-time.Hour), clock))
	require.Error(t, valuevalidator.Validate(req, clock.Add(time.Hour), clock))

	futureReq := genrequest.New(typedesc.Time(typedesc.PrimitiveInstant), "at", constraint.Set{constraint.Future(constraint.TimeBase{Now: true}, 1, constraint.UnitDays, "")}, false)
	require.NoError(t, valuevalidator.Validate(futureReq, clock.Add(time.Hour), clock))
	require.Error(t, valuevalidator.Validate(futureReq, clock.Add(-time.Hour), clock))
}

func TestValidate_AssertTrueFalse(t *testing.T) {
	trueReq := genrequest.New(typedesc.Bool(), "flag", constraint.Set{constraint.AssertTrue()}, false)
	require.NoError(t, valuevalidator.Validate(trueReq, true, clock))
	require.Error(t, valuevalidator.Validate(trueReq, false, clock))
}
