// Package molecule_test exercises the molecule container, the perception
// pipeline, and the derived classifications through the public API only.
package molecule_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RingSense/internal/domain/molecule"
	"github.com/turtacn/RingSense/pkg/errors"
	"github.com/turtacn/RingSense/pkg/types/chem"
)

// bondSpec names a bond by the 1-based input IDs of its endpoints.
type bondSpec struct {
	a1, a2 int
	order  chem.BondOrder
}

func single(a1, a2 int) bondSpec { return bondSpec{a1, a2, chem.BondOrderSingle} }
func double(a1, a2 int) bondSpec { return bondSpec{a1, a2, chem.BondOrderDouble} }

// buildMolecule assembles a molecule from element symbols and bond specs.
func buildMolecule(t *testing.T, symbols []string, bonds []bondSpec) (*molecule.Molecule, []*molecule.Atom) {
	t.Helper()

	m := molecule.New()
	atoms := make([]*molecule.Atom, len(symbols))
	for i, sym := range symbols {
		a, err := m.AddAtom(sym)
		require.NoError(t, err)
		atoms[i] = a
	}
	for _, bs := range bonds {
		_, err := m.AddBond(atoms[bs.a1-1], atoms[bs.a2-1], bs.order)
		require.NoError(t, err)
	}
	return m, atoms
}

// normalised builds and normalises in one step.
func normalised(t *testing.T, symbols []string, bonds []bondSpec) (*molecule.Molecule, []*molecule.Atom) {
	t.Helper()
	m, atoms := buildMolecule(t, symbols, bonds)
	require.NoError(t, m.Normalise())
	return m, atoms
}

// carbons answers n carbon symbols.
func carbons(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "C"
	}
	return out
}

// cycleBonds answers the single bonds of one n-cycle over atoms 1..n.
func cycleBonds(n int) []bondSpec {
	out := make([]bondSpec, 0, n)
	for i := 1; i < n; i++ {
		out = append(out, single(i, i+1))
	}
	return append(out, single(n, 1))
}

// ringSizes answers the sorted ring sizes of a normalised molecule.
func ringSizes(m *molecule.Molecule) []int {
	sizes := make([]int, 0, m.RingCount())
	for _, r := range m.Rings() {
		sizes = append(sizes, r.Size())
	}
	sort.Ints(sizes)
	return sizes
}

// ─────────────────────────────────────────────────────────────────────────────
// Construction
// ─────────────────────────────────────────────────────────────────────────────

func TestAddAtom_AssignsSequentialInputIds(t *testing.T) {
	t.Parallel()

	m := molecule.New()
	for want := 1; want <= 5; want++ {
		a, err := m.AddAtom("C")
		require.NoError(t, err)
		assert.Equal(t, uint16(want), a.InputId())
	}
	assert.Equal(t, 5, m.AtomCount())
}

func TestAddAtom_UnknownElement(t *testing.T) {
	t.Parallel()

	m := molecule.New()
	_, err := m.AddAtom("Xx")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnknownElement))
}

func TestAddAtom_IsotopeSuffix(t *testing.T) {
	t.Parallel()

	m := molecule.New()
	a, err := m.AddAtom("C_13")
	require.NoError(t, err)
	assert.Equal(t, uint8(6), a.AtomicNumber())
	assert.Equal(t, 13, a.MassNumber())
}

func TestAddBond_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	m, atoms := buildMolecule(t, carbons(2), []bondSpec{single(1, 2)})
	b, err := m.AddBond(atoms[0], atoms[1], chem.BondOrderSingle)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidArgument))
	require.NotNil(t, b, "the existing bond is answered alongside the error")
	assert.Equal(t, 1, m.BondCount())
}

func TestAddBond_RejectsForeignAtoms(t *testing.T) {
	t.Parallel()

	m1 := molecule.New()
	m2 := molecule.New()
	a1, err := m1.AddAtom("C")
	require.NoError(t, err)
	a2, err := m2.AddAtom("C")
	require.NoError(t, err)

	_, err = m1.AddBond(a1, a2, chem.BondOrderSingle)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidArgument))
}

func TestAddBond_RejectsNonCreatableOrders(t *testing.T) {
	t.Parallel()

	for _, order := range []chem.BondOrder{
		chem.BondOrderNone,
		chem.BondOrderSingleOrDouble,
		chem.BondOrderSingleOrAromatic,
		chem.BondOrderDoubleOrAromatic,
		chem.BondOrderAny,
	} {
		m, atoms := buildMolecule(t, carbons(2), nil)
		_, err := m.AddBond(atoms[0], atoms[1], order)
		require.Error(t, err, "order %v", order)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidArgument))
	}
}

func TestAddBond_ValenceCeiling(t *testing.T) {
	t.Parallel()

	// An oxygen holds two single bonds; a third violates its ceiling.
	m, atoms := buildMolecule(t, []string{"O", "C", "C", "C"}, []bondSpec{
		single(1, 2), single(1, 3),
	})
	_, err := m.AddBond(atoms[0], atoms[3], chem.BondOrderSingle)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValenceViolation))

	// Raising the ceiling admits the bond.
	atoms[0].SetValence(3)
	_, err = m.AddBond(atoms[0], atoms[3], chem.BondOrderSingle)
	assert.NoError(t, err)
}

func TestBreakBond_CascadesRingDestruction(t *testing.T) {
	t.Parallel()

	m, _ := normalised(t, carbons(6), cycleBonds(6))
	require.Equal(t, 1, m.RingCount())

	require.NoError(t, m.BreakBond(m.Bonds()[0]))
	assert.Equal(t, 0, m.RingCount())
	assert.Equal(t, 5, m.BondCount())
	for _, a := range m.Atoms() {
		assert.Empty(t, a.Rings())
	}
}

func TestRemoveAtom_RoundTrip(t *testing.T) {
	t.Parallel()

	m, atoms := buildMolecule(t, carbons(4), []bondSpec{
		single(1, 2), single(2, 3), single(3, 4),
	})
	wantAtoms, wantBonds := m.AtomCount(), m.BondCount()

	extra, err := m.AddAtom("N")
	require.NoError(t, err)
	_, err = m.AddBond(atoms[3], extra, chem.BondOrderSingle)
	require.NoError(t, err)

	require.NoError(t, m.RemoveAtom(extra))
	assert.Equal(t, wantAtoms, m.AtomCount())
	assert.Equal(t, wantBonds, m.BondCount())
}

// ─────────────────────────────────────────────────────────────────────────────
// Lookups
// ─────────────────────────────────────────────────────────────────────────────

func TestLookups(t *testing.T) {
	t.Parallel()

	m, atoms := normalised(t, []string{"C", "N", "O"}, []bondSpec{
		single(1, 2), single(2, 3),
	})

	assert.Same(t, atoms[1], m.AtomWithIid(2))
	assert.Nil(t, m.AtomWithIid(9))

	for _, a := range atoms {
		assert.Same(t, a, m.AtomWithNid(a.NormalisedId()))
	}

	assert.NotNil(t, m.BondBetween(atoms[0], atoms[1]))
	assert.NotNil(t, m.BondBetween(atoms[1], atoms[0]))
	assert.Nil(t, m.BondBetween(atoms[0], atoms[2]))
}

func TestNormalisedIds_UniqueAndStable(t *testing.T) {
	t.Parallel()

	m, atoms := normalised(t, carbons(5), []bondSpec{
		single(1, 2), single(2, 3), single(3, 4), single(3, 5),
	})

	seen := map[uint16]bool{}
	for _, a := range atoms {
		nid := a.NormalisedId()
		assert.False(t, seen[nid], "normalised id %d assigned twice", nid)
		seen[nid] = true
	}
	// The branch point has the most neighbours and leads the ordering.
	assert.Equal(t, uint16(1), atoms[2].NormalisedId())

	require.NoError(t, m.Normalise())
	assert.Equal(t, uint16(1), atoms[2].NormalisedId())
}

// ─────────────────────────────────────────────────────────────────────────────
// Attributes
// ─────────────────────────────────────────────────────────────────────────────

func TestAttributes(t *testing.T) {
	t.Parallel()

	m := molecule.New()

	require.NoError(t, m.AddAttribute("source", "chembl"))
	require.NoError(t, m.AddAttribute("assay", "binding"))

	err := m.AddAttribute("source", "pubchem")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeDuplicateAttribute))

	err = m.AddAttribute("", "x")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidArgument))

	v, err := m.Attribute("source")
	require.NoError(t, err)
	assert.Equal(t, "chembl", v)

	_, err = m.Attribute("missing")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))

	require.NoError(t, m.UpdateAttribute("source", "pubchem"))
	v, _ = m.Attribute("source")
	assert.Equal(t, "pubchem", v)

	require.NoError(t, m.RemoveAttribute("assay"))
	_, err = m.Attribute("assay")
	assert.Error(t, err)

	// Input order is preserved.
	attrs := m.Attributes()
	require.Len(t, attrs, 1)
	assert.Equal(t, "source", attrs[0].Name)
}

// ─────────────────────────────────────────────────────────────────────────────
// Normalisation invariants
// ─────────────────────────────────────────────────────────────────────────────

func TestNormalise_Idempotent(t *testing.T) {
	t.Parallel()

	m, _ := normalised(t, carbons(10), []bondSpec{
		// Adamantane: CH atoms 1-4, CH2 bridges 5-10.
		single(1, 5), single(5, 2), single(1, 6), single(6, 3),
		single(1, 7), single(7, 4), single(2, 8), single(8, 3),
		single(2, 9), single(9, 4), single(3, 10), single(10, 4),
	})

	firstSizes := ringSizes(m)
	firstSystems := m.RingSystemCount()

	require.NoError(t, m.Normalise())
	assert.Equal(t, firstSizes, ringSizes(m))
	assert.Equal(t, firstSystems, m.RingSystemCount())
}

func TestNormalise_ExpandedNeighbourSum(t *testing.T) {
	t.Parallel()

	m, atoms := normalised(t, carbons(10), []bondSpec{
		single(1, 5), single(5, 2), single(1, 6), single(6, 3),
		single(1, 7), single(7, 4), single(2, 8), single(8, 3),
		single(2, 9), single(9, 4), single(3, 10), single(10, 4),
	})

	sum := 0
	for _, a := range atoms {
		sum += a.NeighbourCount()
	}
	assert.Equal(t, 2*m.BondCount(), sum)
}

func TestNormalise_RingBackReferences(t *testing.T) {
	t.Parallel()

	m, _ := normalised(t, carbons(6), cycleBonds(6))

	for _, r := range m.Rings() {
		assert.GreaterOrEqual(t, r.Size(), 3)
		atoms := r.Atoms()
		bonds := r.Bonds()
		assert.Equal(t, len(atoms), len(bonds))

		for i, aid := range atoms {
			next := atoms[(i+1)%len(atoms)]
			b := m.BondBetween(m.AtomWithIid(aid), m.AtomWithIid(next))
			require.NotNil(t, b, "consecutive ring atoms %d and %d must be bonded", aid, next)
			assert.True(t, b.IsCyclic())

			found := false
			for _, ar := range m.AtomWithIid(aid).Rings() {
				if ar.Id() == r.Id() {
					found = true
				}
			}
			assert.True(t, found, "atom %d does not list ring %d", aid, r.Id())
		}
	}
}

func TestNormalise_UnsaturationMismatchFails(t *testing.T) {
	t.Parallel()

	m, atoms := buildMolecule(t, carbons(2), []bondSpec{single(1, 2)})
	// Forcing an impossible ceiling breaks the valence arithmetic.
	atoms[0].SetValence(1)
	_, err := m.AddBond(atoms[0], atoms[1], chem.BondOrderSingle)
	require.Error(t, err) // Already bonded; ceiling untouched by this call.

	atoms[0].SetRadical(chem.RadicalTriplet)
	atoms[0].SetValence(2)
	err = m.Normalise()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeStateInconsistency))
}

func TestUnsaturationTags(t *testing.T) {
	t.Parallel()

	// Propene (C1=C2-C3), acetonitrile-like N, and a charged carbon.
	m, atoms := buildMolecule(t, []string{"C", "C", "C", "N", "C"}, []bondSpec{
		double(1, 2), single(2, 3), {3, 4, chem.BondOrderTriple}, single(2, 5),
	})
	atoms[4].SetCharge(-1)
	require.NoError(t, m.Normalise())

	assert.Equal(t, chem.UnsaturationDoubleBondC, atoms[0].Unsaturation())
	assert.Equal(t, chem.UnsaturationDoubleBondC, atoms[1].Unsaturation())
	assert.Equal(t, chem.UnsaturationTripleBondW, atoms[2].Unsaturation())
	assert.Equal(t, chem.UnsaturationNone.String(), "NONE")
	assert.Equal(t, chem.UnsaturationCharged, atoms[4].Unsaturation())

	// Hash: 1000*atomicNumber + 10*unsaturation + hCount.
	// Propene CH2= carbon: unsaturation DBOND_C (2), 2 hydrogens.
	assert.Equal(t, uint32(1000*6+10*2+2), atoms[0].Hash())
}

func TestFrerejacque(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		atoms []string
		bonds []bondSpec
		want  int
	}{
		{"chain", carbons(4), []bondSpec{single(1, 2), single(2, 3), single(3, 4)}, 0},
		{"cyclohexane", carbons(6), cycleBonds(6), 1},
		{"norbornane", carbons(7), []bondSpec{
			single(1, 2), single(2, 3), single(3, 4), single(4, 5),
			single(5, 6), single(6, 1), single(1, 7), single(7, 4),
		}, 2},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m, _ := buildMolecule(t, tc.atoms, tc.bonds)
			assert.Equal(t, tc.want, m.Frerejacque())
		})
	}
}

func TestFrerejacqueLimit_SkipsRingPhase(t *testing.T) {
	t.Parallel()

	m, _ := buildMolecule(t, carbons(6), cycleBonds(6))
	m.SetFrerejacqueLimit(0) // Ignored: below 1.
	m.SetFrerejacqueLimit(1)
	require.NoError(t, m.Normalise())
	assert.Equal(t, 1, m.RingCount())

	m2, _ := buildMolecule(t, carbons(8), []bondSpec{
		// Cubane exceeds a limit of 2.
		single(1, 2), single(1, 3), single(1, 5), single(2, 4),
		single(2, 6), single(3, 4), single(3, 7), single(4, 8),
		single(5, 6), single(5, 7), single(6, 8), single(7, 8),
	})
	m2.SetFrerejacqueLimit(2)
	require.NoError(t, m2.Normalise())
	assert.Equal(t, 0, m2.RingCount())
	assert.Equal(t, 0, m2.RingSystemCount())
}

func TestMoleculeIds_Monotonic(t *testing.T) {
	t.Parallel()

	m1 := molecule.New()
	m2 := molecule.New()
	assert.Greater(t, m2.Id(), m1.Id())
}
