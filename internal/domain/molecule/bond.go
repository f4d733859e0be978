package molecule

import (
	"github.com/turtacn/RingSense/pkg/errors"
	"github.com/turtacn/RingSense/pkg/types/chem"
)

// Bond represents a chemical bond, strictly between two atoms.
//
// Bonds always relate atoms by their input IDs, not their normalised IDs:
// they are constructed while reading the input molecule, and keeping the
// input numbering makes debugging against the source record direct.
type Bond struct {
	mol *Molecule // Containing molecule of this bond.
	id  uint16    // Unique ID of this bond within its molecule.

	a1     uint16          // Input ID of the first atom in the bond.
	a2     uint16          // Input ID of the second atom in the bond.
	order  chem.BondOrder  // Single, double, triple or aromatic.
	stereo chem.BondStereo // Stored passively.

	isAro bool   // Is this bond part of an aromatic ring?
	hash  uint32 // Pair hash, for fast endpoint comparisons.

	rings []uint8 // IDs of the rings this bond participates in.
}

// pairHash answers the canonical endpoint hash of an atom pair:
// 10000*min(a1,a2) + max(a1,a2).  It is a function of the input IDs only.
func pairHash(a1, a2 uint16) uint32 {
	if a1 > a2 {
		a1, a2 = a2, a1
	}
	return 10000*uint32(a1) + uint32(a2)
}

// newBond constructs a new bond between the two given atoms.
func newBond(mol *Molecule, id, a1, a2 uint16, order chem.BondOrder) *Bond {
	return &Bond{
		mol:   mol,
		id:    id,
		a1:    a1,
		a2:    a2,
		order: order,
		hash:  pairHash(a1, a2),
		rings: make([]uint8, 0, 2),
	}
}

// Id answers the unique ID of this bond within its molecule.
func (b *Bond) Id() uint16 { return b.id }

// Order answers the bond order.
func (b *Bond) Order() chem.BondOrder { return b.order }

// Stereo answers the stored stereo tag.
func (b *Bond) Stereo() chem.BondStereo { return b.stereo }

// SetStereo stores the stereo tag; it is never interpreted.
func (b *Bond) SetStereo(s chem.BondStereo) { b.stereo = s }

// Atoms answers the input IDs of the two endpoints, in construction order.
func (b *Bond) Atoms() (uint16, uint16) { return b.a1, b.a2 }

// IsAromatic answers if this bond is part of an aromatic ring.
func (b *Bond) IsAromatic() bool { return b.isAro }

// otherAtomIid answers the endpoint other than the given one.  Answers 0 if
// the given atom does not participate in this bond at all.
func (b *Bond) otherAtomIid(aid uint16) uint16 {
	if b.a1 == aid {
		return b.a2
	}
	if b.a2 == aid {
		return b.a1
	}
	return 0
}

// isCyclic answers if this bond participates in at least one ring.
func (b *Bond) isCyclic() bool { return len(b.rings) > 0 }

// IsCyclic answers if this bond participates in at least one ring.  The
// molecule must be normalised.
func (b *Bond) IsCyclic() bool { return b.isCyclic() }

// addRing adds the given ring to the list of rings this bond participates
// in, idempotently.
func (b *Bond) addRing(rid uint8) {
	for _, id := range b.rings {
		if id == rid {
			return
		}
	}
	b.rings = append(b.rings, rid)
}

// removeRing removes the given ring from this bond's ring list.
func (b *Bond) removeRing(rid uint8) {
	for i, id := range b.rings {
		if id == rid {
			b.rings = append(b.rings[:i], b.rings[i+1:]...)
			return
		}
	}
}

// isInRing answers if this bond participates in the given ring.
func (b *Bond) isInRing(rid uint8) bool {
	for _, id := range b.rings {
		if id == rid {
			return true
		}
	}
	return false
}

// IsInRingOfSize answers if this bond participates in at least one ring of
// the given size.
func (b *Bond) IsInRingOfSize(n int) bool {
	for _, rid := range b.rings {
		if r := b.mol.ringWithId(rid); r != nil && r.Size() == n {
			return true
		}
	}
	return false
}

// SmallestRing answers the smallest ring this bond participates in.  It is
// an error if the bond is acyclic or if two rings tie for smallest.
func (b *Bond) SmallestRing() (*Ring, error) {
	if !b.isCyclic() {
		return nil, errors.Newf(errors.CodeStateInconsistency,
			"molecule %d: bond %d is not cyclic", b.mol.id, b.id)
	}

	min := -1
	c := 0
	var ret *Ring
	for _, rid := range b.rings {
		r := b.mol.ringWithId(rid)
		if r == nil {
			continue
		}
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
			"molecule %d: bond %d has %d rings tied at smallest size %d", b.mol.id, b.id, c, min)
	}
	return ret, nil
}
