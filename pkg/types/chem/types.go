// Package chem defines the shared chemical enumerations used across the
// RingSense core: bond orders, stereo descriptors, chirality and radical
// tags, and the per-atom unsaturation classification.  Only plain types and
// their string forms live here; all behaviour belongs to the domain packages.
package chem

// ─────────────────────────────────────────────────────────────────────────────
// BondOrder
// ─────────────────────────────────────────────────────────────────────────────

// BondOrder is the typed order of a bond.  The first four non-zero values are
// the only ones a bond may be created with; the remaining tags exist so that
// tolerant readers can represent MDL query bonds without losing information.
// The numeric values follow the MDL CTAB bond-type codes.
type BondOrder uint8

const (
	BondOrderNone     BondOrder = 0
	BondOrderSingle   BondOrder = 1
	BondOrderDouble   BondOrder = 2
	BondOrderTriple   BondOrder = 3
	BondOrderAromatic BondOrder = 4

	// Query-only tags, valid in inputs but never on a constructed bond.
	BondOrderSingleOrDouble   BondOrder = 5
	BondOrderSingleOrAromatic BondOrder = 6
	BondOrderDoubleOrAromatic BondOrder = 7
	BondOrderAny              BondOrder = 8
)

// IsCreatable reports whether a bond may be constructed with this order.
func (o BondOrder) IsCreatable() bool {
	return o >= BondOrderSingle && o <= BondOrderAromatic
}

// Multiplicity answers the number of expanded-neighbour slots a bond of this
// order occupies on each of its endpoints.  An aromatic bond counts as one;
// perception expects Kekulé structures, and the aromatic flag carries the
// delocalisation instead.
func (o BondOrder) Multiplicity() int {
	switch o {
	case BondOrderSingle, BondOrderAromatic:
		return 1
	case BondOrderDouble:
		return 2
	case BondOrderTriple:
		return 3
	default:
		return 0
	}
}

// String answers the lower-case name of the bond order.
func (o BondOrder) String() string {
	switch o {
	case BondOrderNone:
		return "none"
	case BondOrderSingle:
		return "single"
	case BondOrderDouble:
		return "double"
	case BondOrderTriple:
		return "triple"
	case BondOrderAromatic:
		return "aromatic"
	case BondOrderSingleOrDouble:
		return "single-or-double"
	case BondOrderSingleOrAromatic:
		return "single-or-aromatic"
	case BondOrderDoubleOrAromatic:
		return "double-or-aromatic"
	case BondOrderAny:
		return "any"
	default:
		return "unknown"
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// BondStereo
// ─────────────────────────────────────────────────────────────────────────────

// BondStereo is the wedge/hash stereo descriptor of a bond, stored passively.
// Values follow the MDL CTAB single-bond stereo codes.
type BondStereo uint8

const (
	BondStereoNone     BondStereo = 0
	BondStereoUp       BondStereo = 1
	BondStereoCisTrans BondStereo = 3
	BondStereoUpOrDown BondStereo = 4
	BondStereoDown     BondStereo = 6
)

// ─────────────────────────────────────────────────────────────────────────────
// Chirality
// ─────────────────────────────────────────────────────────────────────────────

// Chirality is the per-atom chirality tag, stored passively.
type Chirality uint8

const (
	ChiralityNone Chirality = iota
	ChiralityR
	ChiralityS
	ChiralityEither
)

// ─────────────────────────────────────────────────────────────────────────────
// Radical
// ─────────────────────────────────────────────────────────────────────────────

// Radical represents the possible radical configurations of an atom.
type Radical uint8

const (
	RadicalNone Radical = iota
	RadicalSinglet
	RadicalDoublet
	RadicalTriplet
)

// ─────────────────────────────────────────────────────────────────────────────
// Unsaturation
// ─────────────────────────────────────────────────────────────────────────────

// Unsaturation is the composite per-atom state derived from the multiset of
// incident bond orders and the element kind of the partners (C vs hetero,
// written W below).  The numeric values are load-bearing: the compact atom
// hash is 1000*atomicNumber + 10*unsaturation + implicitHCount.
type Unsaturation uint8

const (
	UnsaturationNone         Unsaturation = 0 // All single bonds.
	UnsaturationAromatic     Unsaturation = 1 // Member of an aromatic ring.
	UnsaturationDoubleBondC  Unsaturation = 2 // One C=C.
	UnsaturationDoubleBondW  Unsaturation = 3 // One C=X.
	UnsaturationDoubleBondCC Unsaturation = 4 // Two double bonds, both to C.
	UnsaturationDoubleBondCW Unsaturation = 5 // Two double bonds, one to X.
	UnsaturationDoubleBondWW Unsaturation = 6 // Two double bonds, both to X.
	UnsaturationTripleBondC  Unsaturation = 7 // One triple bond, to C.
	UnsaturationTripleBondW  Unsaturation = 8 // One triple bond, to X.
	UnsaturationCharged      Unsaturation = 9 // Non-zero residual charge.
)

// String answers the canonical tag name of the unsaturation state.
func (u Unsaturation) String() string {
	switch u {
	case UnsaturationNone:
		return "NONE"
	case UnsaturationAromatic:
		return "AROMATIC"
	case UnsaturationDoubleBondC:
		return "DBOND_C"
	case UnsaturationDoubleBondW:
		return "DBOND_X"
	case UnsaturationDoubleBondCC:
		return "DBOND_C_C"
	case UnsaturationDoubleBondCW:
		return "DBOND_C_X"
	case UnsaturationDoubleBondWW:
		return "DBOND_X_X"
	case UnsaturationTripleBondC:
		return "TBOND_C"
	case UnsaturationTripleBondW:
		return "TBOND_X"
	case UnsaturationCharged:
		return "CHARGED"
	default:
		return "UNKNOWN"
	}
}
