package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RingSense/pkg/errors"
)

func TestNewAndError(t *testing.T) {
	t.Parallel()

	err := errors.New(errors.CodeValenceViolation, "molecule 3: atom 2 has 5 expanded neighbours, ceiling 4")
	assert.Equal(t, errors.CodeValenceViolation, err.Code)
	assert.Contains(t, err.Error(), "VALENCE_VIOLATION")
	assert.Contains(t, err.Error(), "atom 2")
	assert.NotEmpty(t, err.Stack)
}

func TestWithDetail(t *testing.T) {
	t.Parallel()

	base := errors.SDFParse("bad counts line")
	detailed := base.WithDetail("file molecules.sdf, line 4")

	assert.Empty(t, base.Detail, "the receiver must not be mutated")
	assert.Contains(t, detailed.Error(), "line 4")

	var nilErr *errors.AppError
	assert.Nil(t, nilErr.WithDetail("x"))
}

func TestWrap(t *testing.T) {
	t.Parallel()

	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "ignored"))

	cause := fmt.Errorf("disk gone")
	err := errors.Wrap(cause, errors.CodeSDFParseError, "stream read failed")
	assert.ErrorIs(t, err, cause)

	// Wrapping with CodeUnknown preserves the inner classification.
	rewrapped := errors.Wrap(err, errors.CodeUnknown, "while reading batch")
	assert.Equal(t, errors.CodeSDFParseError, rewrapped.Code)
}

func TestIsCodeAndGetCode(t *testing.T) {
	t.Parallel()

	inner := errors.DuplicateAttribute("molecule 1: attribute \"name\" already present")
	outer := fmt.Errorf("adding tag: %w", inner)

	assert.True(t, errors.IsCode(outer, errors.CodeDuplicateAttribute))
	assert.False(t, errors.IsCode(outer, errors.CodeValenceViolation))
	assert.Equal(t, errors.CodeDuplicateAttribute, errors.GetCode(outer))

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
}

func TestFactories(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  *errors.AppError
		code errors.ErrorCode
	}{
		{errors.InvalidArgument("x"), errors.CodeInvalidArgument},
		{errors.NotFound("x"), errors.CodeNotFound},
		{errors.Internal("x"), errors.CodeInternal},
		{errors.ValenceViolation("x"), errors.CodeValenceViolation},
		{errors.DuplicateAttribute("x"), errors.CodeDuplicateAttribute},
		{errors.Immutability("x"), errors.CodeImmutability},
		{errors.StateInconsistency("x"), errors.CodeStateInconsistency},
		{errors.UnknownElement("x"), errors.CodeUnknownElement},
		{errors.SDFParse("x"), errors.CodeSDFParseError},
	}
	for _, tc := range cases {
		require.NotNil(t, tc.err)
		assert.Equal(t, tc.code, tc.err.Code)
		assert.NotEqual(t, "UNKNOWN_CODE", tc.code.String())
	}
}
