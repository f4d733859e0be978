package element_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RingSense/internal/domain/element"
	"github.com/turtacn/RingSense/pkg/errors"
)

func TestBySymbol(t *testing.T) {
	t.Parallel()

	c, mass, err := element.BySymbol("C")
	require.NoError(t, err)
	assert.Equal(t, uint8(6), c.Number)
	assert.Equal(t, int8(4), c.Valence)
	assert.Equal(t, 0, mass)

	n, _, err := element.BySymbol("N")
	require.NoError(t, err)
	assert.Equal(t, int8(3), n.Valence)
}

func TestBySymbol_Isotope(t *testing.T) {
	t.Parallel()

	c, mass, err := element.BySymbol("C_13")
	require.NoError(t, err)
	assert.Equal(t, uint8(6), c.Number)
	assert.Equal(t, 13, mass)

	_, _, err = element.BySymbol("C_abc")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnknownElement))
}

func TestBySymbol_Unknown(t *testing.T) {
	t.Parallel()

	_, _, err := element.BySymbol("Qq")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnknownElement))
}

func TestByNumberAndSymbol(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "S", element.Symbol(16))
	assert.Equal(t, "?", element.Symbol(200))

	e := element.ByNumber(8)
	require.NotNil(t, e)
	assert.Equal(t, "O", e.Symbol)
	assert.Nil(t, element.ByNumber(201))
}
