// Package molecule holds the molecular graph model of RingSense: atoms,
// bonds, rings, ring systems, the all-pairs distance matrix, the ring
// detector, and aromaticity classification.  A molecule is a single
// connected component; the only mutators after construction are AddAtom,
// AddBond, BreakBond, RemoveAtom, AddAttribute, and Normalise.
package molecule

import (
	"fmt"

	bits "github.com/bits-and-blooms/bitset"

	"github.com/turtacn/RingSense/internal/domain/element"
	"github.com/turtacn/RingSense/pkg/errors"
	"github.com/turtacn/RingSense/pkg/types/chem"
)

// Pre-sizing hints for the per-atom collections.
const (
	maxBondsHint = 8
	maxRingsHint = 16
)

// Atom represents a chemical atom.
//
// Atoms carry two identifiers: the serial input ID assigned at AddAtom time,
// which bonds and bit-sets are keyed by, and the normalised ID assigned by
// Normalise, which downstream graph queries use.
type Atom struct {
	mol    *Molecule // Containing molecule of this atom.
	atNum  uint8     // Atomic number of this atom's element.
	symbol string    // Symbol, including any isotope suffix.
	mass   int       // Mass number for isotopes; 0 when unspecified.
	iId    uint16    // Serial input ID of this atom.
	nId    uint16    // Normalised ID of this atom.

	X float32 // X-coordinate of this atom.
	Y float32 // Y-coordinate of this atom.
	Z float32 // Z-coordinate of this atom.

	hCount  uint8 // Number of implicit + folded-in explicit H atoms.
	charge  int8  // Residual net charge of this atom.
	valence int8  // Valence ceiling of this atom.

	chirality chem.Chirality
	radical   chem.Radical

	unsaturation chem.Unsaturation // Composite state, set during Normalise.
	hash         uint32            // Compact pattern hash, set during Normalise.

	bonds           *bits.BitSet // Bitmap of IDs of bonds of this atom.
	nbrs            []uint16     // Expanded neighbour list: one entry per bond-order unit.
	singleBondCount uint8
	doubleBondCount uint8
	tripleBondCount uint8

	rings *bits.BitSet // Bitmap of IDs of rings this atom participates in.

	// Does this atom participate in at least one aromatic ring?
	isInAroRing bool
	// Is this atom outside every aromatic ring, H-bearing, and bonded to an
	// aromatic-ring atom?
	isBenzylicFlag bool
	// Is this atom a bridgehead of a bridged system of rings?
	isBridgeHead bool
	// Is this atom the sole common atom of two of its rings?
	isSpiroFlag bool
}

// newAtom constructs and initialises a new atom of the given element,
// belonging to the given molecule.
func newAtom(mol *Molecule, el *element.Element, symbol string, mass int, iId uint16) *Atom {
	return &Atom{
		mol:     mol,
		atNum:   el.Number,
		symbol:  symbol,
		mass:    mass,
		iId:     iId,
		valence: el.Valence,
		bonds:   bits.New(maxBondsHint),
		nbrs:    make([]uint16, 0, maxBondsHint),
		rings:   bits.New(maxRingsHint),
	}
}

// AtomicNumber answers the atomic number of this atom.
func (a *Atom) AtomicNumber() uint8 { return a.atNum }

// Symbol answers the element symbol of this atom, isotope suffix included.
func (a *Atom) Symbol() string { return a.symbol }

// InputId answers the 1-based serial input ID of this atom.
func (a *Atom) InputId() uint16 { return a.iId }

// NormalisedId answers the 1-based normalised ID of this atom.  It is valid
// only after the containing molecule has been normalised.
func (a *Atom) NormalisedId() uint16 { return a.nId }

// Parent answers the containing molecule of this atom.
func (a *Atom) Parent() *Molecule { return a.mol }

// Charge answers the residual net charge of this atom.
func (a *Atom) Charge() int { return int(a.charge) }

// SetCharge sets the residual net charge of this atom.
func (a *Atom) SetCharge(ch int) { a.charge = int8(ch) }

// ImplicitHCount answers the hydrogen count of this atom.
func (a *Atom) ImplicitHCount() int { return int(a.hCount) }

// SetImplicitHCount overrides the hydrogen count of this atom.  For
// uncharged, non-radical atoms Normalise recomputes the count from the
// valence ceiling, so explicit overrides matter only for charged or radical
// atoms.
func (a *Atom) SetImplicitHCount(h int) { a.hCount = uint8(h) }

// Valence answers the valence ceiling of this atom.
func (a *Atom) Valence() int { return int(a.valence) }

// SetValence overrides the valence ceiling, for hypervalent configurations
// the natural valence does not cover.
func (a *Atom) SetValence(v int) {
	if v > 0 && v < 15 {
		a.valence = int8(v)
	}
}

// MassNumber answers the isotope mass number, 0 when unspecified.
func (a *Atom) MassNumber() int { return a.mass }

// SetMassNumber records the isotope mass number.
func (a *Atom) SetMassNumber(m int) { a.mass = m }

// SetCoordinates sets the X-, Y- and Z-coordinates of this atom.
func (a *Atom) SetCoordinates(x, y, z float32) {
	a.X, a.Y, a.Z = x, y, z
}

// Chirality answers the stored chirality tag.
func (a *Atom) Chirality() chem.Chirality { return a.chirality }

// SetChirality stores the chirality tag; it is never interpreted.
func (a *Atom) SetChirality(c chem.Chirality) { a.chirality = c }

// Radical answers the stored radical tag.
func (a *Atom) Radical() chem.Radical { return a.radical }

// SetRadical stores the radical tag.
func (a *Atom) SetRadical(r chem.Radical) { a.radical = r }

// Unsaturation answers the composite unsaturation state of this atom, valid
// after Normalise.
func (a *Atom) Unsaturation() chem.Unsaturation { return a.unsaturation }

// Hash answers the compact pattern hash of this atom, valid after
// Normalise: 1000*atomicNumber + 10*unsaturation + hydrogenCount.
func (a *Atom) Hash() uint32 { return a.hash }

// NeighbourCount answers the expanded neighbour count: each neighbour is
// counted once per bond-order unit.
func (a *Atom) NeighbourCount() int { return len(a.nbrs) }

// DistinctNeighbourCount answers the number of distinct bonded partners.
func (a *Atom) DistinctNeighbourCount() int { return int(a.bonds.Count()) }

// IsAromatic answers if this atom is part of an aromatic ring.  The actual
// determination is handled during Normalise; this merely answers the flag.
func (a *Atom) IsAromatic() bool { return a.isInAroRing }

// IsBenzylic answers if this atom is flagged benzylic.
func (a *Atom) IsBenzylic() bool { return a.isBenzylicFlag }

// IsBridgeHead answers if this atom is flagged as a bridgehead.
func (a *Atom) IsBridgeHead() bool { return a.isBridgeHead }

// IsSpiro answers if this atom is flagged as a spiro centre.
func (a *Atom) IsSpiro() bool { return a.isSpiroFlag }

// isCyclic answers if this atom participates in at least one ring.
func (a *Atom) isCyclic() bool { return a.rings.Count() > 0 }

// isJunction answers if this atom has more than 2 distinct neighbours.
func (a *Atom) isJunction() bool { return a.bonds.Count() > 2 }

// ─────────────────────────────────────────────────────────────────────────────
// Bond bookkeeping
// ─────────────────────────────────────────────────────────────────────────────

// addBond adds the given bond to this atom and expands the neighbour list by
// the bond's multiplicity.  It is idempotent and performs no valence check;
// the molecule is responsible for that.
func (a *Atom) addBond(b *Bond) {
	if a.bonds.Test(uint(b.id)) {
		return
	}
	a.bonds.Set(uint(b.id))

	nbrId := b.otherAtomIid(a.iId)
	n := b.order.Multiplicity()
	for i := 0; i < n; i++ {
		a.nbrs = append(a.nbrs, nbrId)
	}

	switch b.order {
	case chem.BondOrderSingle, chem.BondOrderAromatic:
		a.singleBondCount++
	case chem.BondOrderDouble:
		a.doubleBondCount++
	case chem.BondOrderTriple:
		a.tripleBondCount++
	}
}

// removeBond removes the given bond from this atom and contracts the
// neighbour list.
func (a *Atom) removeBond(b *Bond) {
	if !a.bonds.Test(uint(b.id)) {
		return
	}
	a.bonds.Clear(uint(b.id))

	nbrId := b.otherAtomIid(a.iId)
	wid := 0
	for _, nid := range a.nbrs {
		if nid == nbrId {
			continue
		}
		a.nbrs[wid] = nid
		wid++
	}
	a.nbrs = a.nbrs[:wid]

	switch b.order {
	case chem.BondOrderSingle, chem.BondOrderAromatic:
		a.singleBondCount--
	case chem.BondOrderDouble:
		a.doubleBondCount--
	case chem.BondOrderTriple:
		a.tripleBondCount--
	}
}

// bondTo answers the bond that binds this atom to the atom with the given
// input ID, if one exists.  Answers nil otherwise.
func (a *Atom) bondTo(other uint16) *Bond {
	mol := a.mol
	for bid, ok := a.bonds.NextSet(0); ok; bid, ok = a.bonds.NextSet(bid + 1) {
		b := mol.bondWithId(uint16(bid))
		if b != nil && b.otherAtomIid(a.iId) == other {
			return b
		}
	}
	return nil
}

// FirstMultiplyBondedNbr answers the input ID of this atom's first
// neighbour, in ascending bond-ID order, bound by a double or triple bond.
// Answers 0 when there is none.  The molecule must be normalised.
func (a *Atom) FirstMultiplyBondedNbr() uint16 {
	if a.doubleBondCount == 0 && a.tripleBondCount == 0 {
		return 0
	}
	mol := a.mol
	for bid, ok := a.bonds.NextSet(0); ok; bid, ok = a.bonds.NextSet(bid + 1) {
		b := mol.bondWithId(uint16(bid))
		if b != nil && (b.order == chem.BondOrderDouble || b.order == chem.BondOrderTriple) {
			return b.otherAtomIid(a.iId)
		}
	}
	return 0
}

// ─────────────────────────────────────────────────────────────────────────────
// Ring bookkeeping
// ─────────────────────────────────────────────────────────────────────────────

// addRing adds the given ring to the set of this atom's rings.
func (a *Atom) addRing(r *Ring) { a.rings.Set(uint(r.id)) }

// removeRing removes the given ring from the set of this atom's rings.
func (a *Atom) removeRing(r *Ring) { a.rings.Clear(uint(r.id)) }

// Rings answers the rings this atom participates in.  The molecule must be
// normalised.
func (a *Atom) Rings() []*Ring {
	out := make([]*Ring, 0, a.rings.Count())
	for rid, ok := a.rings.NextSet(0); ok; rid, ok = a.rings.NextSet(rid + 1) {
		if r := a.mol.ringWithId(uint8(rid)); r != nil {
			out = append(out, r)
		}
	}
	return out
}

// IsInRingOfSize answers if this atom participates in at least one ring of
// the given size.
func (a *Atom) IsInRingOfSize(n int) bool {
	for _, r := range a.Rings() {
		if r.Size() == n {
			return true
		}
	}
	return false
}

// IsInRingLargerThan answers if this atom participates in at least one ring
// larger than the given size.
func (a *Atom) IsInRingLargerThan(n int) bool {
	for _, r := range a.Rings() {
		if r.Size() > n {
			return true
		}
	}
	return false
}

// SmallestRing answers the smallest ring this atom participates in.  It is
// an error if the atom is acyclic or if two rings tie for smallest.
func (a *Atom) SmallestRing() (*Ring, error) {
	rs := a.Rings()
	if len(rs) == 0 {
		return nil, errors.Newf(errors.CodeStateInconsistency,
			"molecule %d: atom %d is not cyclic", a.mol.id, a.iId)
	}

	min := -1
	c := 0
	var ret *Ring
	for _, r := range rs {
		switch {
		case min == -1 || r.Size() < min:
			min = r.Size()
			ret = r
			c = 1
		case r.Size() == min:
			c++
		}
	}
	if c > 1 {
		return nil, errors.Newf(errors.CodeStateInconsistency,
			"molecule %d: atom %d has %d rings tied at smallest size %d", a.mol.id, a.iId, c, min)
	}
	return ret, nil
}

// IsInHeteroAromaticRing answers if this atom is part of an aromatic ring
// with at least one hetero atom.
func (a *Atom) IsInHeteroAromaticRing() bool {
	if a.isInAroRing && a.atNum != 6 {
		return true
	}
	for _, r := range a.Rings() {
		if r.IsHeteroAromatic() {
			return true
		}
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Unsaturation, pi electrons, hash
// ─────────────────────────────────────────────────────────────────────────────

// determineUnsaturation computes the composite unsaturation state of this
// atom from its incident bond orders and partner elements.  It is invoked
// during Normalise only.
func (a *Atom) determineUnsaturation() error {
	if a.charge != 0 {
		a.unsaturation = chem.UnsaturationCharged
		return nil
	}

	// For an uncharged atom the valence arithmetic must close.
	deficit := int(a.valence) - len(a.nbrs)
	switch a.radical {
	case chem.RadicalDoublet:
		deficit--
	case chem.RadicalSinglet, chem.RadicalTriplet:
		deficit -= 2
	}
	if deficit < 0 {
		return errors.Newf(errors.CodeStateInconsistency,
			"molecule %d: atom %d (%s) has %d expanded neighbours, valence ceiling %d",
			a.mol.id, a.iId, a.symbol, len(a.nbrs), a.valence)
	}
	if a.radical == chem.RadicalNone {
		a.hCount = uint8(deficit)
	}

	if a.doubleBondCount == 0 && a.tripleBondCount == 0 {
		a.unsaturation = chem.UnsaturationNone
		return nil
	}

	ndb, nhdb, ntb, nhtb := 0, 0, 0, 0
	mol := a.mol
	for bid, ok := a.bonds.NextSet(0); ok; bid, ok = a.bonds.NextSet(bid + 1) {
		b := mol.bondWithId(uint16(bid))
		oa := mol.AtomWithIid(b.otherAtomIid(a.iId))
		switch b.order {
		case chem.BondOrderDouble:
			ndb++
			if oa.atNum != 6 {
				nhdb++
			}
		case chem.BondOrderTriple:
			ntb++
			if oa.atNum != 6 {
				nhtb++
			}
		}
	}

	if ntb > 0 {
		if nhtb > 0 {
			a.unsaturation = chem.UnsaturationTripleBondW
		} else {
			a.unsaturation = chem.UnsaturationTripleBondC
		}
		return nil
	}

	switch {
	case ndb == 1 && nhdb == 0:
		a.unsaturation = chem.UnsaturationDoubleBondC
	case ndb == 1 && nhdb == 1:
		a.unsaturation = chem.UnsaturationDoubleBondW
	case ndb == 2 && nhdb == 0:
		a.unsaturation = chem.UnsaturationDoubleBondCC
	case ndb == 2 && nhdb == 1:
		a.unsaturation = chem.UnsaturationDoubleBondCW
	case ndb == 2 && nhdb == 2:
		a.unsaturation = chem.UnsaturationDoubleBondWW
	}
	return nil
}

// computeHash derives the compact pattern hash used for ring matching.
func (a *Atom) computeHash() {
	a.hash = 1000*uint32(a.atNum) + 10*uint32(a.unsaturation) + uint32(a.hCount)
}

// PiElectronCount answers the number of delocalised pi electrons contributed
// by this atom, following standard Hückel accounting.  The case keys are
// 100*doubleBonds + 10*singleBonds + charge; only C, N, O and S contribute.
func (a *Atom) PiElectronCount() int {
	mol := a.mol
	wtSum := 100*int16(a.doubleBondCount) + 10*int16(a.singleBondCount) + int16(a.charge)

	switch a.atNum {
	case 6:
		switch wtSum {
		case 19: // Carbanion with two single bonds.
			return 2
		case 110:
			return 1
		case 120:
			// sp2 carbon: contributes only when the double bond is
			// endocyclic.
			if b := a.firstDoubleBond(); b != nil && b.isCyclic() {
				return 1
			}
			return 0
		default:
			return 0
		}

	case 7:
		switch wtSum {
		case 20, 30: // Pyrrole-type lone pair.
			return 2
		case 110: // Pyridine-type.
			return 1
		case 121: // N-oxide style cationic sp2 nitrogen.
			return 1
		default:
			return 0
		}

	case 8:
		switch wtSum {
		case 20: // Furan-type lone pair.
			return 2
		case 111:
			return 1
		default:
			return 0
		}

	case 16:
		switch wtSum {
		case 20: // Thiophene-type lone pair.
			return 2
		case 111:
			return 1
		case 120:
			// S with one exocyclic double bond to O keeps its lone pair.
			b := a.firstDoubleBond()
			if b == nil {
				return 0
			}
			oa := mol.AtomWithIid(b.otherAtomIid(a.iId))
			if oa.atNum == 8 && !oa.isCyclic() {
				return 2
			}
			return 0
		case 220:
			// Sulfone-like: two exocyclic double bonds withdraw.
			c := 0
			for bid, ok := a.bonds.NextSet(0); ok; bid, ok = a.bonds.NextSet(bid + 1) {
				b := mol.bondWithId(uint16(bid))
				if b.order == chem.BondOrderDouble && !mol.AtomWithIid(b.otherAtomIid(a.iId)).isCyclic() {
					c++
				}
			}
			if c > 1 {
				return -1
			}
			return 0
		default:
			return 0
		}
	}

	return 0
}

// firstDoubleBond answers this atom's first double bond in ascending bond-ID
// order, or nil.
func (a *Atom) firstDoubleBond() *Bond {
	mol := a.mol
	for bid, ok := a.bonds.NextSet(0); ok; bid, ok = a.bonds.NextSet(bid + 1) {
		b := mol.bondWithId(uint16(bid))
		if b.order == chem.BondOrderDouble {
			return b
		}
	}
	return nil
}

// isCarbonylC answers if this atom is a carbon doubly bonded to an oxygen.
func (a *Atom) isCarbonylC() bool {
	if a.atNum != 6 || a.doubleBondCount != 1 {
		return false
	}
	b := a.firstDoubleBond()
	return b != nil && a.mol.AtomWithIid(b.otherAtomIid(a.iId)).atNum == 8
}

// String answers a short diagnostic representation of the atom.
func (a *Atom) String() string {
	return fmt.Sprintf("%s(%d)", a.symbol, a.iId)
}
