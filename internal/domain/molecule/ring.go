package molecule

import (
	bits "github.com/bits-and-blooms/bitset"

	"github.com/turtacn/RingSense/pkg/errors"
	"github.com/turtacn/RingSense/pkg/types/chem"
)

// Ring represents a simple cycle in a molecule.
//
// A ring holds the ordered atoms and bonds it comprises, plus bit-sets over
// atom input IDs and bond IDs for fast set algebra.  Rings are immutable
// once completed: their composition never changes.  A broken member bond
// destroys the ring instead.
type Ring struct {
	mol  *Molecule // Containing molecule of this ring.
	id   uint8     // Unique ID of this ring in its molecule; 0 until attached.
	rsId uint8     // ID of the ring system this ring belongs to.

	atoms []uint16 // Input IDs of atoms in cycle order.
	bonds []uint16 // Bond IDs in cycle order, wrap-around bond last.

	atomBitSet *bits.BitSet
	bondBitSet *bits.BitSet

	isAro    bool // Is this ring aromatic?
	isHetAro bool // Aromatic with at least one hetero atom?

	isComplete bool // Has this ring been frozen?
}

// newRing creates an empty, incomplete ring in the given molecule.
func newRing(mol *Molecule) *Ring {
	return &Ring{
		mol:        mol,
		atoms:      make([]uint16, 0, maxRingsHint),
		bonds:      make([]uint16, 0, maxRingsHint),
		atomBitSet: bits.New(maxRingsHint),
		bondBitSet: bits.New(maxRingsHint),
	}
}

// Id answers the unique ID of this ring in its molecule.
func (r *Ring) Id() uint8 { return r.id }

// RingSystemId answers the ID of the ring system this ring belongs to.
func (r *Ring) RingSystemId() uint8 { return r.rsId }

// Size answers the number of atoms (equivalently bonds) in this ring.
func (r *Ring) Size() int { return len(r.atoms) }

// Atoms answers the input IDs of the member atoms in cycle order.
func (r *Ring) Atoms() []uint16 {
	out := make([]uint16, len(r.atoms))
	copy(out, r.atoms)
	return out
}

// Bonds answers the member bond IDs in cycle order.
func (r *Ring) Bonds() []uint16 {
	out := make([]uint16, len(r.bonds))
	copy(out, r.bonds)
	return out
}

// HasAtom answers if this ring includes the atom with the given input ID.
func (r *Ring) HasAtom(aid uint16) bool { return r.atomBitSet.Test(uint(aid)) }

// HasBond answers if this ring includes the bond with the given ID.
func (r *Ring) HasBond(bid uint16) bool { return r.bondBitSet.Test(uint(bid)) }

// IsAromatic answers if this ring is aromatic.  The determination happens
// during Normalise; this merely answers the flag.
func (r *Ring) IsAromatic() bool { return r.isAro }

// IsHeteroAromatic answers if this ring is aromatic with at least one
// hetero atom.
func (r *Ring) IsHeteroAromatic() bool { return r.isHetAro }

// addAtom extends the ring by one atom.  A bond must exist between the
// most recently added atom and the new one.  Errors once the ring is
// complete; idempotent for an atom already present.
func (r *Ring) addAtom(aid uint16) error {
	if r.isComplete {
		return errors.Newf(errors.CodeImmutability,
			"molecule %d: ring %d is already complete", r.mol.id, r.id)
	}
	if r.HasAtom(aid) {
		return nil
	}

	if size := len(r.atoms); size > 0 {
		prev := r.atoms[size-1]
		b := r.mol.bondBetweenIids(prev, aid)
		if b == nil {
			return errors.Newf(errors.CodeStateInconsistency,
				"molecule %d: no bond between atom %d and atom %d", r.mol.id, prev, aid)
		}
		r.bonds = append(r.bonds, b.id)
		r.bondBitSet.Set(uint(b.id))
	}
	r.atoms = append(r.atoms, aid)
	r.atomBitSet.Set(uint(aid))
	return nil
}

// complete closes the link between the last atom and the first, freezing
// the ring.  It is idempotent.
func (r *Ring) complete() error {
	if r.isComplete {
		return nil
	}

	size := len(r.atoms)
	if size < 3 {
		return errors.Newf(errors.CodeStateInconsistency,
			"molecule %d: a ring needs at least 3 atoms, got %d", r.mol.id, size)
	}

	b := r.mol.bondBetweenIids(r.atoms[0], r.atoms[size-1])
	if b == nil {
		return errors.Newf(errors.CodeStateInconsistency,
			"molecule %d: no closing bond between atom %d and atom %d",
			r.mol.id, r.atoms[0], r.atoms[size-1])
	}
	r.bonds = append(r.bonds, b.id)
	r.bondBitSet.Set(uint(b.id))

	r.isComplete = true
	return nil
}

// normalise rotates the cycle so that the atom with the lowest normalised
// ID sits at position 0.  The bond list is rotated in step so that
// bonds[i] still joins atoms[i] and atoms[i+1].
func (r *Ring) normalise() {
	l := len(r.atoms)
	if l == 0 {
		return
	}

	min := -1
	idx := 0
	for i, aiid := range r.atoms {
		nid := int(r.mol.AtomWithIid(aiid).nId)
		if min == -1 || nid < min {
			min = nid
			idx = i
		}
	}
	if idx == 0 {
		return
	}

	r.atoms = append(r.atoms[idx:], r.atoms[:idx]...)
	r.bonds = append(r.bonds[idx:], r.bonds[:idx]...)
}

// commonAtoms answers the atoms shared by this ring and the other, as a
// bit-set over input IDs.
func (r *Ring) commonAtoms(other *Ring) *bits.BitSet {
	return r.atomBitSet.Intersection(other.atomBitSet)
}

// commonBonds answers the bonds shared by this ring and the other, as a
// bit-set over bond IDs.
func (r *Ring) commonBonds(other *Ring) *bits.BitSet {
	return r.bondBitSet.Intersection(other.bondBitSet)
}

// DistanceBetweenAtoms answers the shorter in-ring distance, in bonds,
// between the two given member atoms.
func (r *Ring) DistanceBetweenAtoms(aid1, aid2 uint16) (int, error) {
	if !r.HasAtom(aid1) {
		return 0, errors.Newf(errors.CodeInvalidArgument,
			"molecule %d: atom %d is not a member of ring %d", r.mol.id, aid1, r.id)
	}
	if !r.HasAtom(aid2) {
		return 0, errors.Newf(errors.CodeInvalidArgument,
			"molecule %d: atom %d is not a member of ring %d", r.mol.id, aid2, r.id)
	}
	if aid1 == aid2 {
		return 0, nil
	}

	i1, i2 := -1, -1
	for i, aid := range r.atoms {
		switch aid {
		case aid1:
			i1 = i
		case aid2:
			i2 = i
		}
	}

	d := i1 - i2
	if d < 0 {
		d = -d
	}
	if alt := r.Size() - d; alt < d {
		return alt, nil
	}
	return d, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Aromaticity
// ─────────────────────────────────────────────────────────────────────────────

// PiElectronCount answers the total number of delocalised pi electrons over
// this ring's atoms.
func (r *Ring) PiElectronCount() int {
	n := 0
	for _, aiid := range r.atoms {
		n += r.mol.AtomWithIid(aiid).PiElectronCount()
	}
	return n
}

// determineAromaticity classifies this ring by Hückel's rule: the ring is
// aromatic iff its pi total is 4n+2 and it carries no saturated carbon.
// An aromatic ring marks all member atoms and bonds.
func (r *Ring) determineAromaticity() {
	n := r.PiElectronCount()
	if n < 2 || (n-2)%4 != 0 {
		return
	}

	mol := r.mol
	for _, aiid := range r.atoms {
		a := mol.AtomWithIid(aiid)
		if a.atNum == 6 && a.unsaturation == chem.UnsaturationNone {
			return // No sp3 carbons in an aromatic ring.
		}
	}

	r.markAromatic()
}

// markAromatic flags this ring, its atoms and its bonds as aromatic.
func (r *Ring) markAromatic() {
	r.isAro = true

	mol := r.mol
	for _, aiid := range r.atoms {
		a := mol.AtomWithIid(aiid)
		a.isInAroRing = true
		if a.atNum != 6 {
			r.isHetAro = true
		}
	}
	for _, bid := range r.bonds {
		mol.bondWithId(bid).isAro = true
	}
}

// IsAromaticOfSize6 answers if this ring is a six-membered aromatic ring.
func (r *Ring) IsAromaticOfSize6() bool {
	return r.Size() == 6 && r.isAro
}

// IsSemiAromaticOfSize6 answers if this six-membered non-aromatic ring
// satisfies
//
//	aromaticAtoms + 2*ringDoubleBonds + NHAtoms + exocyclicC=X == 6
//
// with the NH count equal to the exocyclic C=X count (the 2-pyridone
// pattern).
func (r *Ring) IsSemiAromaticOfSize6() bool {
	if r.Size() != 6 || r.isAro {
		return false
	}

	nAro := r.aromaticAtomCount()
	nDbly := r.doubleBondCount() * 2

	nNH := 0
	nExo := 0
	mol := r.mol
	for _, aiid := range r.atoms {
		a := mol.AtomWithIid(aiid)
		switch a.atNum {
		case 6:
			for bid, ok := a.bonds.NextSet(0); ok; bid, ok = a.bonds.NextSet(bid + 1) {
				b := mol.bondWithId(uint16(bid))
				if !r.HasBond(b.id) && b.order == chem.BondOrderDouble {
					if mol.AtomWithIid(b.otherAtomIid(aiid)).atNum != 6 {
						nExo++
						break // A carbon can have only one.
					}
				}
			}
		case 7:
			if a.hCount == 1 {
				nNH++
			}
		}
	}

	return nAro+nDbly+nNH+nExo == 6 && nNH == nExo
}

// aromaticAtomCount answers the number of member atoms flagged aromatic.
// A non-aromatic ring can still contain aromatic atoms via fused
// neighbours.
func (r *Ring) aromaticAtomCount() int {
	c := 0
	for _, aiid := range r.atoms {
		if r.mol.AtomWithIid(aiid).isInAroRing {
			c++
		}
	}
	return c
}

// doubleBondCount answers the number of double bonds in this ring.
func (r *Ring) doubleBondCount() int {
	c := 0
	for _, bid := range r.bonds {
		if r.mol.bondWithId(bid).order == chem.BondOrderDouble {
			c++
		}
	}
	return c
}
