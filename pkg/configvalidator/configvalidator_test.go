package configvalidator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kontrakt/pkg/configvalidator"
	"kontrakt/pkg/constraint"
	"kontrakt/pkg/genrequest"
	"kontrakt/pkg/kerrors"
	"kontrakt/pkg/typedesc"
)

func TestValidate_RejectsMutuallyExclusive(t *testing.T) {
	req := genrequest.New(typedesc.Bool(), "flag", constraint.Set{constraint.AssertTrue(), constraint.AssertFalse()}, false)
	err := configvalidator.Validate(req)
	require.Error(t, err)
	require.IsType(t, &kerrors.ConflictingAnnotations{}, err)
}

func TestValidate_RejectsMustBeNullWithValueConstraint(t *testing.T) {
	req := genrequest.New(typedesc.String(), "name", constraint.Set{constraint.MustBeNull(), constraint.NotBlank()}, true)
	err := configvalidator.Validate(req)
	require.Error(t, err)
	require.IsType(t, &kerrors.ConflictingAnnotations{}, err)
}

func TestValidate_RejectsTypeIncompatibleConstraint(t *testing.T) {
	req := genrequest.New(typedesc.Bool(), "flag", constraint.Set{constraint.NotBlank()}, false)
	err := configvalidator.Validate(req)
	require.Error(t, err)
	require.IsType(t, &kerrors.InvalidAnnotationValue{}, err)
}

func TestValidate_RejectsInvertedIntRange(t *testing.T) {
	req := genrequest.New(typedesc.Int(), "count", constraint.Set{constraint.IntRange(10, 1)}, false)
	err := configvalidator.Validate(req)
	require.Error(t, err)
	require.IsType(t, &kerrors.InvalidAnnotationValue{}, err)
}

func TestValidate_AcceptsWellFormedRequest(t *testing.T) {
	req := genrequest.New(typedesc.Int(), "count", constraint.Set{constraint.IntRange(1, 10)}, false)
	require.NoError(t, configvalidator.Validate(req))
}

func TestValidate_AcceptsNoConstraints(t *testing.T) {
	req := genrequest.New(typedesc.String(), "name", nil, true)
	require.NoError(t, configvalidator.Validate(req))
}
