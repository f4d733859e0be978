package molecule

import (
	bits "github.com/bits-and-blooms/bitset"

	"github.com/turtacn/RingSense/pkg/types/chem"
)

// RingSystem represents a maximal set of physically joined rings.  Two
// rings belong to the same system when they share at least one bond
// (fusion or bridge) or at least one atom (spiro).
//
// Unlike a ring, a ring system is mutable: its composition changes as the
// detector admits and prunes rings.
type RingSystem struct {
	mol *Molecule // Containing molecule of this ring system.
	id  uint8     // Unique ID of this ring system in its molecule.

	rings      []uint8      // IDs of member rings, in admission order.
	atomBitSet *bits.BitSet // Union of member rings' atom bit-sets.
	bondBitSet *bits.BitSet // Union of member rings' bond bit-sets.

	isAro bool // Is this ring system aromatic as a whole?
}

// newRingSystem creates an empty ring system with the given ID.
func newRingSystem(mol *Molecule, id uint8) *RingSystem {
	return &RingSystem{
		mol:        mol,
		id:         id,
		rings:      make([]uint8, 0, maxRingsHint),
		atomBitSet: bits.New(maxRingsHint),
		bondBitSet: bits.New(maxRingsHint),
	}
}

// Id answers the unique ID of this ring system in its molecule.
func (rs *RingSystem) Id() uint8 { return rs.id }

// Size answers the number of rings in this system.
func (rs *RingSystem) Size() int { return len(rs.rings) }

// Rings answers the member rings in admission order.
func (rs *RingSystem) Rings() []*Ring {
	out := make([]*Ring, 0, len(rs.rings))
	for _, rid := range rs.rings {
		if r := rs.mol.ringWithId(rid); r != nil {
			out = append(out, r)
		}
	}
	return out
}

// IsAromatic answers if this ring system is aromatic as a whole.
func (rs *RingSystem) IsAromatic() bool { return rs.isAro }

// HasAtom answers if any member ring includes the atom with the given
// input ID.
func (rs *RingSystem) HasAtom(aid uint16) bool { return rs.atomBitSet.Test(uint(aid)) }

// HasBond answers if any member ring includes the bond with the given ID.
func (rs *RingSystem) HasBond(bid uint16) bool { return rs.bondBitSet.Test(uint(bid)) }

// sharesBondWith answers if the given ring shares at least one bond with
// this system.
func (rs *RingSystem) sharesBondWith(r *Ring) bool {
	return rs.bondBitSet.IntersectionCardinality(r.bondBitSet) > 0
}

// sharesAtomWith answers if the given ring shares at least one atom with
// this system.
func (rs *RingSystem) sharesAtomWith(r *Ring) bool {
	return rs.atomBitSet.IntersectionCardinality(r.atomBitSet) > 0
}

// addRing admits the given ring and folds its bit-sets into the
// aggregates.  Idempotent.
func (rs *RingSystem) addRing(r *Ring) {
	for _, rid := range rs.rings {
		if rid == r.id {
			return
		}
	}
	rs.rings = append(rs.rings, r.id)
	rs.atomBitSet.InPlaceUnion(r.atomBitSet)
	rs.bondBitSet.InPlaceUnion(r.bondBitSet)
	r.rsId = rs.id
}

// removeRing drops the given ring and rebuilds the aggregate bit-sets from
// the remaining members.  Idempotent.
func (rs *RingSystem) removeRing(r *Ring) {
	idx := -1
	for i, rid := range rs.rings {
		if rid == r.id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	rs.rings = append(rs.rings[:idx], rs.rings[idx+1:]...)

	rs.atomBitSet.ClearAll()
	rs.bondBitSet.ClearAll()
	for _, rid := range rs.rings {
		if m := rs.mol.ringWithId(rid); m != nil {
			rs.atomBitSet.InPlaceUnion(m.atomBitSet)
			rs.bondBitSet.InPlaceUnion(m.bondBitSet)
		}
	}
}

// absorb merges the other system's rings into this one.
func (rs *RingSystem) absorb(other *RingSystem) {
	for _, rid := range other.rings {
		if r := rs.mol.ringWithId(rid); r != nil {
			rs.addRing(r)
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Aromaticity
// ─────────────────────────────────────────────────────────────────────────────

// PiElectronCount answers the total number of delocalised pi electrons over
// all atoms of this system.
func (rs *RingSystem) PiElectronCount() int {
	n := 0
	abs := rs.atomBitSet
	for aiid, ok := abs.NextSet(0); ok; aiid, ok = abs.NextSet(aiid + 1) {
		n += rs.mol.AtomWithIid(uint16(aiid)).PiElectronCount()
	}
	return n
}

// determineAromaticity classifies this system as a whole first: if the full
// atom set passes Hückel's rule with no saturated carbon, the system and
// every member ring are aromatic.  Otherwise each member ring is classified
// individually.
func (rs *RingSystem) determineAromaticity() {
	whole := true

	n := rs.PiElectronCount()
	if n < 2 || (n-2)%4 != 0 {
		whole = false
	}

	mol := rs.mol
	if whole {
		abs := rs.atomBitSet
		for aiid, ok := abs.NextSet(0); ok; aiid, ok = abs.NextSet(aiid + 1) {
			a := mol.AtomWithIid(uint16(aiid))
			if a.atNum == 6 && a.unsaturation == chem.UnsaturationNone {
				whole = false // No sp3 carbons in an aromatic system.
				break
			}
		}
	}

	if whole {
		rs.isAro = true
		for _, r := range rs.Rings() {
			r.markAromatic()
		}
		return
	}

	for _, r := range rs.Rings() {
		r.determineAromaticity()
	}
}
