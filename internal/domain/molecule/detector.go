package molecule

import (
	"sort"

	bits "github.com/bits-and-blooms/bitset"

	"github.com/turtacn/RingSense/pkg/errors"
)

// maxSearchPaths bounds the candidate enumeration.  The Frèrejacque cap
// keeps realistic inputs far below it; pathological graphs that still blow
// past it are reported as having no rings.
const maxSearchPaths = 1 << 20

// ringDetector perceives the chemically meaningful set of simple cycles of
// a normalised molecule and groups them into ring systems.
//
// The pipeline is: terminal-chain pruning, breadth-first candidate
// enumeration with inner-junction validation, bond-set deduplication,
// size-ascending ordering, ring-system grouping, basis selection per
// system, and spurious-ring pruning against the basis.
type ringDetector struct {
	mol *Molecule

	// adj is the pruned adjacency: distinct neighbours by atom input ID.
	// Terminal chains are deleted from it before enumeration; junction
	// tests during spurious pruning read degrees from it.
	adj map[uint16][]uint16
}

// newRingDetector prepares a detector over the given molecule.
func newRingDetector(m *Molecule) *ringDetector {
	return &ringDetector{mol: m}
}

// sameBits answers if the two bit-sets have identical members.  BitSet.Equal
// compares capacities as well, which differ across independently grown sets,
// so it cannot be used for this.
func sameBits(a, b *bits.BitSet) bool {
	return a.SymmetricDifference(b).Count() == 0
}

// detect runs the full perception pipeline.  Degenerate inputs that exhaust
// a capacity produce an empty ring list; internal inconsistencies (a cycle
// whose consecutive atoms carry no bond) are fatal.
func (d *ringDetector) detect() error {
	d.buildAdjacency()
	d.pruneTerminalChains()
	if len(d.adj) == 0 {
		return nil
	}

	var err error
	if d.allDegreeTwo() {
		err = d.emitSingleCycle()
	} else {
		err = d.enumerate()
	}
	if err != nil {
		if errors.GetCode(err) == errors.CodeInternal {
			// Capacity bailout: usable molecules simply have no rings.
			d.mol.resetRingState()
			return nil
		}
		return err
	}

	d.sortRingsBySize()
	d.groupIntoSystems()

	for _, rs := range d.mol.RingSystems() {
		if err := d.pruneSystem(rs); err != nil {
			return err
		}
	}

	d.mol.dropEmptyRingSystems()
	d.mol.mergeRingSystems()
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Stage (a): terminal-chain pruning
// ─────────────────────────────────────────────────────────────────────────────

// buildAdjacency snapshots the molecule's distinct-neighbour adjacency.
func (d *ringDetector) buildAdjacency() {
	d.adj = make(map[uint16][]uint16, len(d.mol.atoms))
	for _, a := range d.mol.atoms {
		d.adj[a.iId] = []uint16{}
	}
	for _, b := range d.mol.bonds {
		d.adj[b.a1] = append(d.adj[b.a1], b.a2)
		d.adj[b.a2] = append(d.adj[b.a2], b.a1)
	}
}

// pruneTerminalChains repeatedly deletes atoms with at most one neighbour,
// mirroring each removal in the neighbour's list, until every surviving
// atom has degree two or more.
func (d *ringDetector) pruneTerminalChains() {
	for {
		removed := false
		for aid, nbrs := range d.adj {
			if len(nbrs) > 1 {
				continue
			}
			for _, nb := range nbrs {
				list := d.adj[nb]
				for i, v := range list {
					if v == aid {
						d.adj[nb] = append(list[:i], list[i+1:]...)
						break
					}
				}
			}
			delete(d.adj, aid)
			removed = true
		}
		if !removed {
			return
		}
	}
}

// allDegreeTwo answers if every surviving atom has exactly two neighbours,
// i.e. the pruned graph is one simple cycle.
func (d *ringDetector) allDegreeTwo() bool {
	for _, nbrs := range d.adj {
		if len(nbrs) != 2 {
			return false
		}
	}
	return true
}

// sortedSurvivors answers the surviving atom IDs in ascending order, for
// deterministic seeding and walking.
func (d *ringDetector) sortedSurvivors() []uint16 {
	out := make([]uint16, 0, len(d.adj))
	for aid := range d.adj {
		out = append(out, aid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// emitSingleCycle walks the lone cycle of the pruned graph and records it
// as the only ring.
func (d *ringDetector) emitSingleCycle() error {
	start := d.sortedSurvivors()[0]

	cycle := []uint16{start}
	prev, cur := uint16(0), start
	for {
		next := d.adj[cur][0]
		if next == prev {
			next = d.adj[cur][1]
		}
		if next == start {
			break
		}
		cycle = append(cycle, next)
		prev, cur = cur, next
	}

	return d.recordCandidate(cycle)
}

// ─────────────────────────────────────────────────────────────────────────────
// Stage (b): candidate enumeration
// ─────────────────────────────────────────────────────────────────────────────

// chooseSeed answers the lowest-ID non-junction survivor when one exists,
// the lowest-ID survivor otherwise.
func (d *ringDetector) chooseSeed() uint16 {
	ids := d.sortedSurvivors()
	for _, aid := range ids {
		if len(d.adj[aid]) == 2 {
			return aid
		}
	}
	return ids[0]
}

// enumerate grows simple paths breadth-first from a single seed.  A path
// closes into a candidate cycle when a neighbour of its tip re-enters the
// path: at position 0 the whole path closes, at a later position the tail
// from that position closes.
func (d *ringDetector) enumerate() error {
	queue := [][]uint16{{d.chooseSeed()}}

	processed := 0
	for len(queue) > 0 {
		processed++
		if processed > maxSearchPaths {
			return errors.Newf(errors.CodeInternal,
				"molecule %d: ring search exceeded %d paths", d.mol.id, maxSearchPaths)
		}

		path := queue[0]
		queue = queue[1:]
		last := path[len(path)-1]

		var prev uint16
		hasPrev := len(path) > 1
		if hasPrev {
			prev = path[len(path)-2]
		}

		for _, u := range d.adj[last] {
			if hasPrev && u == prev {
				continue
			}

			pos := -1
			for i, v := range path {
				if v == u {
					pos = i
					break
				}
			}

			switch {
			case pos == 0:
				if len(path) >= 3 {
					if err := d.recordCandidate(path); err != nil {
						return err
					}
				}
			case pos > 0:
				if tail := path[pos:]; len(tail) >= 3 {
					if err := d.recordCandidate(tail); err != nil {
						return err
					}
				}
			default:
				np := make([]uint16, len(path)+1)
				copy(np, path)
				np[len(path)] = u
				queue = append(queue, np)
			}
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Stages (c) and (d): validation and deduplication
// ─────────────────────────────────────────────────────────────────────────────

// isValidCycle rejects candidates with an inner junction: an atom whose
// pruned-graph neighbours appear more than twice on the cycle closes over
// an inner ring and is not a simple chemical cycle.  Length-3 cycles are
// always valid.
func (d *ringDetector) isValidCycle(cycle []uint16) bool {
	if len(cycle) == 3 {
		return true
	}

	onCycle := make(map[uint16]bool, len(cycle))
	for _, aid := range cycle {
		onCycle[aid] = true
	}

	for _, aid := range cycle {
		nbrs := d.adj[aid]
		if len(nbrs) < 3 {
			continue
		}
		c := 0
		for _, nb := range nbrs {
			if onCycle[nb] {
				c++
			}
		}
		if c > 2 {
			return false
		}
	}
	return true
}

// recordCandidate validates the cycle, builds a ring from it, drops it if
// an equal bond set is already present, and attaches it to the molecule
// otherwise.
func (d *ringDetector) recordCandidate(cycle []uint16) error {
	if !d.isValidCycle(cycle) {
		return nil
	}

	r := newRing(d.mol)
	for _, aid := range cycle {
		if err := r.addAtom(aid); err != nil {
			return err
		}
	}
	if err := r.complete(); err != nil {
		return err
	}

	for _, or := range d.mol.rings {
		if sameBits(or.bondBitSet, r.bondBitSet) {
			return nil
		}
	}

	return d.mol.attachRing(r)
}

// ─────────────────────────────────────────────────────────────────────────────
// Stages (e) and (f): ordering and grouping
// ─────────────────────────────────────────────────────────────────────────────

// sortRingsBySize orders the ring list ascending by size, stably.
func (d *ringDetector) sortRingsBySize() {
	sort.SliceStable(d.mol.rings, func(i, j int) bool {
		return d.mol.rings[i].Size() < d.mol.rings[j].Size()
	})
}

// groupIntoSystems walks the size-ordered rings, admitting each into the
// first system it shares a bond with (fusion or bridge), failing that the
// first it shares an atom with (spiro), and a fresh system otherwise.
func (d *ringDetector) groupIntoSystems() {
	for _, r := range d.mol.rings {
		var target *RingSystem
		for _, rs := range d.mol.ringSystems {
			if rs.sharesBondWith(r) {
				target = rs
				break
			}
		}
		if target == nil {
			for _, rs := range d.mol.ringSystems {
				if rs.sharesAtomWith(r) {
					target = rs
					break
				}
			}
		}
		if target == nil {
			target = d.mol.newRingSystem()
		}
		target.addRing(r)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Stages (g) and (h): basis selection and spurious-ring pruning
// ─────────────────────────────────────────────────────────────────────────────

// pruneSystem selects the system's basis and tests every ring beyond it.
// A ring whose bond set is the symmetric difference of two basis rings is
// the outer rim of a fused pair: it survives only when it is a genuine
// bridged-system cycle, which the junction-distance test decides.  A ring
// matching no pair survives only when it contributes a bond no basis ring
// covers.
func (d *ringDetector) pruneSystem(rs *RingSystem) error {
	rids := make([]uint8, len(rs.rings))
	copy(rids, rs.rings)
	if len(rids) < 2 {
		return nil
	}

	mol := d.mol

	// (g) Freeze the basis at the first size increase after the running
	// bond union has reached the system's aggregate.
	B := bits.New(uint(mol.nextBondId) + 1)
	lastSize := mol.ringWithId(rids[0]).Size()
	basisEnd := len(rids)
	for idx, rid := range rids {
		r := mol.ringWithId(rid)
		if r.Size() > lastSize {
			if sameBits(B, rs.bondBitSet) {
				basisEnd = idx
				break
			}
			lastSize = r.Size()
		}
		B.InPlaceUnion(r.bondBitSet)
	}

	basis := make([]uint8, basisEnd, len(rids))
	copy(basis, rids[:basisEnd])

	for _, rid := range rids[basisEnd:] {
		r := mol.ringWithId(rid)
		if r == nil {
			continue
		}

		decided := false
		prune := false

		for i := 0; i < len(basis) && !decided; i++ {
			for j := i + 1; j < len(basis) && !decided; j++ {
				ri := mol.ringWithId(basis[i])
				rj := mol.ringWithId(basis[j])

				u := ri.bondBitSet.SymmetricDifference(rj.bondBitSet)
				if !sameBits(u, r.bondBitSet) {
					continue
				}

				shared := ri.commonAtoms(rj).Intersection(r.atomBitSet)
				if shared.Count() > 2 {
					continue // Convoluted overlap; try the next pair.
				}

				junctions := d.junctionsOutside(r, shared)
				if len(junctions) >= 2 {
					var err error
					prune, err = d.hasShorterOutsidePath(r, junctions)
					if err != nil {
						return err
					}
				}
				decided = true
			}
		}

		if !decided {
			// No basis pair composes this ring: it is genuinely new only
			// when it covers a bond the basis does not.
			ub := bits.New(uint(mol.nextBondId) + 1)
			for _, bid := range basis {
				ub.InPlaceUnion(mol.ringWithId(bid).bondBitSet)
			}
			prune = r.bondBitSet.DifferenceCardinality(ub) == 0
		}

		if prune {
			mol.removeRing(r)
		} else {
			basis = append(basis, rid)
		}
	}
	return nil
}

// junctionsOutside answers the atoms of r, outside the shared set, whose
// pruned-graph degree is three or more.
func (d *ringDetector) junctionsOutside(r *Ring, shared *bits.BitSet) []uint16 {
	var out []uint16
	for _, aid := range r.atoms {
		if shared.Test(uint(aid)) {
			continue
		}
		if len(d.adj[aid]) >= 3 {
			out = append(out, aid)
		}
	}
	return out
}

// hasShorterOutsidePath answers if any junction pair is closer through the
// molecule at large than along the ring, which means the ring only
// restates a detour the basis already covers.
func (d *ringDetector) hasShorterOutsidePath(r *Ring, junctions []uint16) (bool, error) {
	for i := 0; i < len(junctions); i++ {
		for j := i + 1; j < len(junctions); j++ {
			dRing, err := r.DistanceBetweenAtoms(junctions[i], junctions[j])
			if err != nil {
				return false, err
			}
			if d.mol.distanceBetween(junctions[i], junctions[j]) < dRing {
				return true, nil
			}
		}
	}
	return false, nil
}
