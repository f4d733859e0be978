package molecule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RingSense/pkg/errors"
)

func TestDistance_Chain(t *testing.T) {
	t.Parallel()

	m, _ := normalised(t, carbons(5), []bondSpec{
		single(1, 2), single(2, 3), single(3, 4), single(4, 5),
	})

	d, err := m.DistanceBetween(1, 5)
	require.NoError(t, err)
	assert.Equal(t, 4, d)

	d, err = m.DistanceBetween(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, d)

	// Symmetry.
	d1, _ := m.DistanceBetween(2, 5)
	d2, _ := m.DistanceBetween(5, 2)
	assert.Equal(t, d1, d2)
}

func TestDistance_Ring(t *testing.T) {
	t.Parallel()

	m, _ := normalised(t, carbons(6), cycleBonds(6))

	// Around a six-ring the far side is three bonds away either way.
	d, err := m.DistanceBetween(1, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, d)

	d, err = m.DistanceBetween(1, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, d)
}

func TestDistance_TriangleInequality(t *testing.T) {
	t.Parallel()

	m, atoms := norbornane(t)

	for _, a := range atoms {
		for _, b := range atoms {
			for _, c := range atoms {
				ab, _ := m.DistanceBetween(a.InputId(), b.InputId())
				bc, _ := m.DistanceBetween(b.InputId(), c.InputId())
				ac, _ := m.DistanceBetween(a.InputId(), c.InputId())
				assert.LessOrEqual(t, ac, ab+bc)
			}
		}
	}
}

func TestDistance_UnknownAtom(t *testing.T) {
	t.Parallel()

	m, _ := normalised(t, carbons(2), []bondSpec{single(1, 2)})
	_, err := m.DistanceBetween(1, 9)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidArgument))
}

func TestDistance_BeforeNormalise(t *testing.T) {
	t.Parallel()

	m, _ := buildMolecule(t, carbons(2), []bondSpec{single(1, 2)})
	_, err := m.DistanceBetween(1, 2)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeStateInconsistency))
}

func TestDistance_Disconnected(t *testing.T) {
	t.Parallel()

	m, _ := buildMolecule(t, carbons(4), []bondSpec{single(1, 2), single(3, 4)})
	require.NoError(t, m.Normalise())

	_, err := m.DistanceBetween(1, 3)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))

	_, err = m.ShortestPathBetween(1, 3)
	assert.Error(t, err)
}

func TestShortestPath_IntermediatesOnly(t *testing.T) {
	t.Parallel()

	m, _ := normalised(t, carbons(5), []bondSpec{
		single(1, 2), single(2, 3), single(3, 4), single(4, 5),
	})

	// Directly bonded: no intermediates.
	p, err := m.ShortestPathBetween(1, 2)
	require.NoError(t, err)
	assert.Empty(t, p)

	p, err = m.ShortestPathBetween(1, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint16{2, 3, 4}, p)

	// Length always equals distance minus one.
	for a := uint16(1); a <= 5; a++ {
		for b := uint16(1); b <= 5; b++ {
			if a == b {
				continue
			}
			d, err := m.DistanceBetween(a, b)
			require.NoError(t, err)
			p, err := m.ShortestPathBetween(a, b)
			require.NoError(t, err)
			assert.Len(t, p, d-1)
		}
	}
}

func TestShortestPath_OnRing(t *testing.T) {
	t.Parallel()

	m, _ := normalised(t, carbons(6), cycleBonds(6))

	p, err := m.ShortestPathBetween(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint16{2}, p)

	p, err = m.ShortestPathBetween(1, 4)
	require.NoError(t, err)
	assert.Len(t, p, 2)
}
