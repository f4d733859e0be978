package molecule

import (
	"sort"
	"sync"

	"github.com/turtacn/RingSense/internal/domain/element"
	"github.com/turtacn/RingSense/pkg/errors"
	"github.com/turtacn/RingSense/pkg/types/chem"
)

// DefaultFrerejacqueLimit caps the ring phase: molecules whose Frèrejacque
// number exceeds it are treated as having no detectable rings.
const DefaultFrerejacqueLimit = 15

// maxRingId bounds the number of rings a molecule can carry; candidates
// beyond it make the detector bail out with an empty result.
const maxRingId = 255

// nextMolIdHolder is a synchronised struct used to assign a
// globally-unique ID to each molecule.
type nextMolIdHolder struct {
	mu     sync.Mutex
	nextId uint64
}

var nextMolId nextMolIdHolder

func nextMoleculeId() uint64 {
	nextMolId.mu.Lock()
	defer nextMolId.mu.Unlock()

	nextMolId.nextId++
	return nextMolId.nextId
}

// Attribute is a (name, value) pair annotating a molecule.  Input order is
// preserved; names are unique.
type Attribute struct {
	Name  string
	Value string
}

// Molecule represents a chemical molecule.
//
// It owns its atoms, bonds, rings and ring systems, and is expected to be a
// single connected component.  A molecule must not be mutated and queried
// concurrently: a caller owns it exclusively for the duration of Normalise.
type Molecule struct {
	id uint64 // The globally-unique ID of this molecule.

	atoms       []*Atom
	bonds       []*Bond
	rings       []*Ring
	ringSystems []*RingSystem

	byNid      []*Atom          // Index nId -> atom, built by Normalise.
	bondByPair map[uint32]*Bond // Pair-hash -> bond.

	nextAtomIid      uint16 // Peak counter for atom input IDs.
	nextBondId       uint16 // Peak counter for bond IDs.
	nextRingId       uint8  // Peak counter for ring IDs.
	nextRingSystemId uint8  // Peak counter for ring system IDs.

	vendor           string // Optional string identifying the supplier.
	vendorMoleculeId string // Optional supplier-specified ID.

	attributes []Attribute

	dists [][]int // Pair-wise distances, indexed by input IDs.
	paths [][]int // Intermediate atoms for shortest-path reconstruction.

	frerejacqueLimit int
	normalised       bool
}

// New creates and initialises an empty molecule.
func New() *Molecule {
	return &Molecule{
		id:               nextMoleculeId(),
		atoms:            make([]*Atom, 0, 32),
		bonds:            make([]*Bond, 0, 32),
		bondByPair:       make(map[uint32]*Bond, 32),
		attributes:       make([]Attribute, 0, 4),
		frerejacqueLimit: DefaultFrerejacqueLimit,
	}
}

// Id answers the globally-unique ID of this molecule.
func (m *Molecule) Id() uint64 { return m.id }

// Vendor answers the optional supplier name.
func (m *Molecule) Vendor() string { return m.vendor }

// SetVendor records the supplier name.
func (m *Molecule) SetVendor(v string) { m.vendor = v }

// VendorMoleculeId answers the optional supplier-specified ID.
func (m *Molecule) VendorMoleculeId() string { return m.vendorMoleculeId }

// SetVendorMoleculeId records the supplier-specified ID.
func (m *Molecule) SetVendorMoleculeId(v string) { m.vendorMoleculeId = v }

// SetFrerejacqueLimit overrides the ring-phase cap.  Values below 1 are
// ignored.
func (m *Molecule) SetFrerejacqueLimit(n int) {
	if n >= 1 {
		m.frerejacqueLimit = n
	}
}

// AtomCount answers the number of atoms in this molecule.
func (m *Molecule) AtomCount() int { return len(m.atoms) }

// BondCount answers the number of bonds in this molecule.
func (m *Molecule) BondCount() int { return len(m.bonds) }

// RingCount answers the number of rings, valid after Normalise.
func (m *Molecule) RingCount() int { return len(m.rings) }

// RingSystemCount answers the number of ring systems, valid after
// Normalise.
func (m *Molecule) RingSystemCount() int { return len(m.ringSystems) }

// Frerejacque answers |bonds| - |atoms| + 1, an upper bound on the number
// of independent cycles of a connected graph.
func (m *Molecule) Frerejacque() int {
	return len(m.bonds) - len(m.atoms) + 1
}

// ─────────────────────────────────────────────────────────────────────────────
// Mutators
// ─────────────────────────────────────────────────────────────────────────────

// AddAtom creates a fresh atom of the given element symbol (an isotope
// suffix like "C_13" is accepted), assigns its input ID, and appends it at
// list index inputId-1.
func (m *Molecule) AddAtom(symbol string) (*Atom, error) {
	el, mass, err := element.BySymbol(symbol)
	if err != nil {
		return nil, err
	}

	m.nextAtomIid++
	a := newAtom(m, el, symbol, mass, m.nextAtomIid)
	m.atoms = append(m.atoms, a)
	m.normalised = false
	return a, nil
}

// AddBond creates a bond of the given order between two atoms of this
// molecule.  If a bond between the pair already exists it is answered
// together with an error.  The order must be creatable (single, double,
// triple or aromatic), and the expanded neighbour count of neither endpoint
// may exceed its valence ceiling.
func (m *Molecule) AddBond(a1, a2 *Atom, order chem.BondOrder) (*Bond, error) {
	if a1 == nil || a2 == nil {
		return nil, errors.Newf(errors.CodeInvalidArgument,
			"molecule %d: nil atom passed to AddBond", m.id)
	}
	if a1.mol != m || a2.mol != m {
		return nil, errors.Newf(errors.CodeInvalidArgument,
			"molecule %d: atom %d or %d belongs to a different molecule", m.id, a1.iId, a2.iId)
	}
	if a1 == a2 {
		return nil, errors.Newf(errors.CodeInvalidArgument,
			"molecule %d: cannot bond atom %d to itself", m.id, a1.iId)
	}
	if !order.IsCreatable() {
		return nil, errors.Newf(errors.CodeInvalidArgument,
			"molecule %d: bond order %q is not creatable", m.id, order.String())
	}

	if b := m.bondByPair[pairHash(a1.iId, a2.iId)]; b != nil {
		return b, errors.Newf(errors.CodeInvalidArgument,
			"molecule %d: bond between atoms %d and %d already exists", m.id, a1.iId, a2.iId)
	}

	mult := order.Multiplicity()
	if len(a1.nbrs)+mult > int(a1.valence) {
		return nil, errors.Newf(errors.CodeValenceViolation,
			"molecule %d: atom %d would have %d expanded neighbours, valence ceiling %d",
			m.id, a1.iId, len(a1.nbrs)+mult, a1.valence)
	}
	if len(a2.nbrs)+mult > int(a2.valence) {
		return nil, errors.Newf(errors.CodeValenceViolation,
			"molecule %d: atom %d would have %d expanded neighbours, valence ceiling %d",
			m.id, a2.iId, len(a2.nbrs)+mult, a2.valence)
	}

	m.nextBondId++
	b := newBond(m, m.nextBondId, a1.iId, a2.iId, order)
	m.bonds = append(m.bonds, b)
	m.bondByPair[b.hash] = b
	a1.addBond(b)
	a2.addBond(b)
	m.normalised = false
	return b, nil
}

// BreakBond removes the given bond and cascades the destruction of every
// ring whose bond set contains it.
func (m *Molecule) BreakBond(b *Bond) error {
	if b == nil || b.mol != m {
		return errors.Newf(errors.CodeInvalidArgument,
			"molecule %d: bond does not belong to this molecule", m.id)
	}

	for _, r := range m.ringsSnapshot() {
		if r.HasBond(b.id) {
			m.removeRing(r)
		}
	}

	if a := m.AtomWithIid(b.a1); a != nil {
		a.removeBond(b)
	}
	if a := m.AtomWithIid(b.a2); a != nil {
		a.removeBond(b)
	}

	delete(m.bondByPair, b.hash)
	for i, ob := range m.bonds {
		if ob == b {
			m.bonds = append(m.bonds[:i], m.bonds[i+1:]...)
			break
		}
	}
	b.mol = nil
	m.normalised = false
	return nil
}

// RemoveAtom breaks all of the given atom's bonds and removes it from the
// molecule.
func (m *Molecule) RemoveAtom(a *Atom) error {
	if a == nil || a.mol != m {
		return errors.Newf(errors.CodeInvalidArgument,
			"molecule %d: atom does not belong to this molecule", m.id)
	}

	for {
		bid, ok := a.bonds.NextSet(0)
		if !ok {
			break
		}
		b := m.bondWithId(uint16(bid))
		if b == nil {
			a.bonds.Clear(bid)
			continue
		}
		if err := m.BreakBond(b); err != nil {
			return err
		}
	}

	for i, oa := range m.atoms {
		if oa == a {
			m.atoms = append(m.atoms[:i], m.atoms[i+1:]...)
			break
		}
	}
	a.mol = nil
	m.normalised = false
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Attributes
// ─────────────────────────────────────────────────────────────────────────────

// AddAttribute appends a named string attribute.  Names are unique; both
// name and value must be non-empty.
func (m *Molecule) AddAttribute(name, value string) error {
	if name == "" || value == "" {
		return errors.Newf(errors.CodeInvalidArgument,
			"molecule %d: attribute name and value must be non-empty", m.id)
	}
	for _, at := range m.attributes {
		if at.Name == name {
			return errors.Newf(errors.CodeDuplicateAttribute,
				"molecule %d: attribute %q already present", m.id, name)
		}
	}
	m.attributes = append(m.attributes, Attribute{Name: name, Value: value})
	return nil
}

// Attribute answers the value of the named attribute.
func (m *Molecule) Attribute(name string) (string, error) {
	for _, at := range m.attributes {
		if at.Name == name {
			return at.Value, nil
		}
	}
	return "", errors.Newf(errors.CodeNotFound,
		"molecule %d: no attribute named %q", m.id, name)
}

// UpdateAttribute replaces the value of the named attribute.
func (m *Molecule) UpdateAttribute(name, value string) error {
	if value == "" {
		return errors.Newf(errors.CodeInvalidArgument,
			"molecule %d: attribute value must be non-empty", m.id)
	}
	for i := range m.attributes {
		if m.attributes[i].Name == name {
			m.attributes[i].Value = value
			return nil
		}
	}
	return errors.Newf(errors.CodeNotFound,
		"molecule %d: no attribute named %q", m.id, name)
}

// RemoveAttribute deletes the named attribute.
func (m *Molecule) RemoveAttribute(name string) error {
	for i := range m.attributes {
		if m.attributes[i].Name == name {
			m.attributes = append(m.attributes[:i], m.attributes[i+1:]...)
			return nil
		}
	}
	return errors.Newf(errors.CodeNotFound,
		"molecule %d: no attribute named %q", m.id, name)
}

// Attributes answers all attributes in input order.
func (m *Molecule) Attributes() []Attribute {
	out := make([]Attribute, len(m.attributes))
	copy(out, m.attributes)
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Lookups
// ─────────────────────────────────────────────────────────────────────────────

// AtomWithIid answers the atom with the given input ID, or nil.  This is a
// linear scan: input IDs stay sparse once atoms have been removed.
func (m *Molecule) AtomWithIid(id uint16) *Atom {
	for _, a := range m.atoms {
		if a.iId == id {
			return a
		}
	}
	return nil
}

// AtomWithNid answers the atom with the given normalised ID in O(1), or
// nil.  Valid only after Normalise.
func (m *Molecule) AtomWithNid(id uint16) *Atom {
	if int(id) >= len(m.byNid) {
		return nil
	}
	return m.byNid[id]
}

// Atoms answers the atoms of this molecule in input order.
func (m *Molecule) Atoms() []*Atom {
	out := make([]*Atom, len(m.atoms))
	copy(out, m.atoms)
	return out
}

// Bonds answers the bonds of this molecule in creation order.
func (m *Molecule) Bonds() []*Bond {
	out := make([]*Bond, len(m.bonds))
	copy(out, m.bonds)
	return out
}

// bondWithId answers the bond with the given ID, or nil.
func (m *Molecule) bondWithId(id uint16) *Bond {
	for _, b := range m.bonds {
		if b.id == id {
			return b
		}
	}
	return nil
}

// BondBetween answers the bond between the two given atoms, or nil.
func (m *Molecule) BondBetween(a1, a2 *Atom) *Bond {
	if a1 == nil || a2 == nil {
		return nil
	}
	return m.bondByPair[pairHash(a1.iId, a2.iId)]
}

// bondBetweenIids answers the bond between the two atoms with the given
// input IDs, or nil.
func (m *Molecule) bondBetweenIids(a1, a2 uint16) *Bond {
	return m.bondByPair[pairHash(a1, a2)]
}

// ringWithId answers the ring with the given ID, or nil.
func (m *Molecule) ringWithId(id uint8) *Ring {
	for _, r := range m.rings {
		if r.id == id {
			return r
		}
	}
	return nil
}

// Rings answers the rings of this molecule, valid after Normalise.
func (m *Molecule) Rings() []*Ring {
	return m.ringsSnapshot()
}

func (m *Molecule) ringsSnapshot() []*Ring {
	out := make([]*Ring, len(m.rings))
	copy(out, m.rings)
	return out
}

// RingSystems answers the ring systems of this molecule, valid after
// Normalise.
func (m *Molecule) RingSystems() []*RingSystem {
	out := make([]*RingSystem, len(m.ringSystems))
	copy(out, m.ringSystems)
	return out
}

// bondOrderCount answers the number of bonds with the given order.
func (m *Molecule) bondOrderCount(o chem.BondOrder) int {
	c := 0
	for _, b := range m.bonds {
		if b.order == o {
			c++
		}
	}
	return c
}

// SingleBondCount answers the number of single bonds in this molecule.
func (m *Molecule) SingleBondCount() int { return m.bondOrderCount(chem.BondOrderSingle) }

// DoubleBondCount answers the number of double bonds in this molecule.
func (m *Molecule) DoubleBondCount() int { return m.bondOrderCount(chem.BondOrderDouble) }

// TripleBondCount answers the number of triple bonds in this molecule.
func (m *Molecule) TripleBondCount() int { return m.bondOrderCount(chem.BondOrderTriple) }

// AromaticRingCount answers the number of aromatic rings, valid after
// Normalise.
func (m *Molecule) AromaticRingCount() int {
	c := 0
	for _, r := range m.rings {
		if r.isAro {
			c++
		}
	}
	return c
}

// AromaticRingSystemCount answers the number of ring systems that are
// aromatic as a whole, valid after Normalise.
func (m *Molecule) AromaticRingSystemCount() int {
	c := 0
	for _, rs := range m.ringSystems {
		if rs.isAro {
			c++
		}
	}
	return c
}

// ─────────────────────────────────────────────────────────────────────────────
// Ring attachment
// ─────────────────────────────────────────────────────────────────────────────

// attachRing assigns the ring its ID and wires back-references into its
// member atoms and bonds.  The ring must be complete.
func (m *Molecule) attachRing(r *Ring) error {
	if !r.isComplete {
		return errors.Newf(errors.CodeStateInconsistency,
			"molecule %d: cannot attach an incomplete ring", m.id)
	}
	if int(m.nextRingId) >= maxRingId {
		return errors.Newf(errors.CodeInternal,
			"molecule %d: ring capacity %d exhausted", m.id, maxRingId)
	}

	m.nextRingId++
	r.id = m.nextRingId
	m.rings = append(m.rings, r)

	for _, aiid := range r.atoms {
		m.AtomWithIid(aiid).addRing(r)
	}
	for _, bid := range r.bonds {
		m.bondWithId(bid).addRing(r.id)
	}
	return nil
}

// removeRing detaches the ring from its member atoms, bonds, and ring
// system, and drops it from the ring list.
func (m *Molecule) removeRing(r *Ring) {
	for _, aiid := range r.atoms {
		if a := m.AtomWithIid(aiid); a != nil {
			a.removeRing(r)
		}
	}
	for _, bid := range r.bonds {
		if b := m.bondWithId(bid); b != nil {
			b.removeRing(r.id)
		}
	}

	if r.rsId != 0 {
		for _, rs := range m.ringSystems {
			if rs.id == r.rsId {
				rs.removeRing(r)
				break
			}
		}
	}

	for i, or := range m.rings {
		if or == r {
			m.rings = append(m.rings[:i], m.rings[i+1:]...)
			break
		}
	}
}

// newRingSystem creates, registers, and answers a fresh ring system.
func (m *Molecule) newRingSystem() *RingSystem {
	m.nextRingSystemId++
	rs := newRingSystem(m, m.nextRingSystemId)
	m.ringSystems = append(m.ringSystems, rs)
	return rs
}

// dropEmptyRingSystems removes systems whose rings were all pruned.
func (m *Molecule) dropEmptyRingSystems() {
	wid := 0
	for _, rs := range m.ringSystems {
		if rs.Size() > 0 {
			m.ringSystems[wid] = rs
			wid++
		}
	}
	m.ringSystems = m.ringSystems[:wid]
}

// mergeRingSystems folds together systems that share an atom, so that
// systems stay maximal even when a late ring connected two of them.
func (m *Molecule) mergeRingSystems() {
	for i := 0; i < len(m.ringSystems); i++ {
		for j := i + 1; j < len(m.ringSystems); {
			a, b := m.ringSystems[i], m.ringSystems[j]
			if a.atomBitSet.IntersectionCardinality(b.atomBitSet) > 0 {
				a.absorb(b)
				m.ringSystems = append(m.ringSystems[:j], m.ringSystems[j+1:]...)
			} else {
				j++
			}
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Normalisation
// ─────────────────────────────────────────────────────────────────────────────

// Normalise brings the molecule into the canonical state every downstream
// query assumes.  It is idempotent.  In order it: assigns normalised IDs,
// computes the distance and path matrices, resets prior ring state,
// recomputes per-atom unsaturation, runs ring perception (skipped for trees
// and for molecules past the Frèrejacque cap), classifies aromaticity, and
// recomputes hashes and the benzylic/spiro/bridgehead flags.
func (m *Molecule) Normalise() error {
	m.assignNormalisedIds()
	m.computeDistanceMatrices()
	m.resetRingState()

	for _, a := range m.atoms {
		if err := a.determineUnsaturation(); err != nil {
			return err
		}
	}

	f := m.Frerejacque()
	if len(m.atoms) > 0 && f > 0 && f <= m.frerejacqueLimit && m.isConnected() {
		det := newRingDetector(m)
		if err := det.detect(); err != nil {
			return err
		}

		for _, r := range m.rings {
			r.normalise()
		}
		for _, rs := range m.ringSystems {
			rs.determineAromaticity()
		}
		for _, a := range m.atoms {
			if a.isInAroRing {
				a.unsaturation = chem.UnsaturationAromatic
			}
		}
	}

	for _, a := range m.atoms {
		a.computeHash()
	}

	m.markBenzylic()
	m.markSpiro()
	m.markBridgeheads()

	m.normalised = true
	return nil
}

// IsNormalised answers if the molecule is in the normalised state.
func (m *Molecule) IsNormalised() bool { return m.normalised }

// assignNormalisedIds orders atoms by descending expanded-neighbour count,
// input ID breaking ties, and assigns 1-based normalised IDs in that order.
func (m *Molecule) assignNormalisedIds() {
	order := make([]*Atom, len(m.atoms))
	copy(order, m.atoms)
	sort.SliceStable(order, func(i, j int) bool {
		if len(order[i].nbrs) != len(order[j].nbrs) {
			return len(order[i].nbrs) > len(order[j].nbrs)
		}
		return order[i].iId < order[j].iId
	})

	m.byNid = make([]*Atom, len(m.atoms)+1)
	for i, a := range order {
		a.nId = uint16(i + 1)
		m.byNid[i+1] = a
	}
}

// resetRingState clears every ring-derived flag and collection, so that
// repeated Normalise calls start from a clean slate.
func (m *Molecule) resetRingState() {
	m.rings = nil
	m.ringSystems = nil
	m.nextRingId = 0
	m.nextRingSystemId = 0

	for _, a := range m.atoms {
		a.rings.ClearAll()
		a.isInAroRing = false
		a.isBenzylicFlag = false
		a.isBridgeHead = false
		a.isSpiroFlag = false
	}
	for _, b := range m.bonds {
		b.rings = b.rings[:0]
		b.isAro = false
	}
}

// isConnected answers if every atom is reachable from the first one.
func (m *Molecule) isConnected() bool {
	if len(m.atoms) < 2 {
		return true
	}
	first := m.atoms[0].iId
	for _, a := range m.atoms[1:] {
		if m.dists[first][a.iId] >= infDistance {
			return false
		}
	}
	return true
}

// ─────────────────────────────────────────────────────────────────────────────
// Post-perception atom flags
// ─────────────────────────────────────────────────────────────────────────────

// markBenzylic flags atoms that are outside every aromatic ring, carry at
// least one hydrogen, and are directly bonded to an aromatic-ring atom.
func (m *Molecule) markBenzylic() {
	for _, a := range m.atoms {
		if a.isInAroRing || a.hCount == 0 {
			continue
		}
		for bid, ok := a.bonds.NextSet(0); ok; bid, ok = a.bonds.NextSet(bid + 1) {
			b := m.bondWithId(uint16(bid))
			if m.AtomWithIid(b.otherAtomIid(a.iId)).isInAroRing {
				a.isBenzylicFlag = true
				break
			}
		}
	}
}

// markSpiro flags atoms that are the single shared atom of two of their
// rings.
func (m *Molecule) markSpiro() {
	for _, a := range m.atoms {
		rs := a.Rings()
		if len(rs) < 2 {
			continue
		}
	pairs:
		for i := 0; i < len(rs); i++ {
			for j := i + 1; j < len(rs); j++ {
				if rs[i].atomBitSet.IntersectionCardinality(rs[j].atomBitSet) == 1 {
					a.isSpiroFlag = true
					break pairs
				}
			}
		}
	}
}

// markBridgeheads flags junction atoms shared by two rings of a bridged
// system, i.e. two of their rings have three or more atoms in common.
func (m *Molecule) markBridgeheads() {
	for _, a := range m.atoms {
		if !a.isJunction() {
			continue
		}
		rs := a.Rings()
		if len(rs) < 2 {
			continue
		}
	pairs:
		for i := 0; i < len(rs); i++ {
			for j := i + 1; j < len(rs); j++ {
				if rs[i].atomBitSet.IntersectionCardinality(rs[j].atomBitSet) >= 3 {
					a.isBridgeHead = true
					break pairs
				}
			}
		}
	}
}
