package molecule

import (
	"github.com/turtacn/RingSense/pkg/errors"
)

// infDistance stands in for "unreachable" in the distance matrix.  It is
// large enough that one triangle-update addition cannot overflow.
const infDistance = 1 << 29

// computeDistanceMatrices builds dense (n+1)x(n+1) distance and
// intermediate matrices keyed by atom input IDs, using Floyd-Warshall.
// paths[i][j] records an intermediate atom on a shortest i-j path, or 0
// when the two are directly connected (or unreachable).
func (m *Molecule) computeDistanceMatrices() {
	n := int(m.nextAtomIid) + 1

	m.dists = make([][]int, n)
	m.paths = make([][]int, n)
	for i := 0; i < n; i++ {
		m.dists[i] = make([]int, n)
		m.paths[i] = make([]int, n)
		for j := 0; j < n; j++ {
			if i != j {
				m.dists[i][j] = infDistance
			}
		}
	}

	for _, b := range m.bonds {
		m.dists[b.a1][b.a2] = 1
		m.dists[b.a2][b.a1] = 1
	}

	for k := 1; k < n; k++ {
		for i := 1; i < n; i++ {
			dik := m.dists[i][k]
			if dik >= infDistance {
				continue
			}
			for j := 1; j < n; j++ {
				if d := dik + m.dists[k][j]; d < m.dists[i][j] {
					m.dists[i][j] = d
					m.paths[i][j] = k
					m.paths[j][i] = k
				}
			}
		}
	}
}

// distanceBetween answers the graph distance, in bonds, between the two
// atoms with the given input IDs.  Answers infDistance when unreachable.
func (m *Molecule) distanceBetween(a1, a2 uint16) int {
	return m.dists[a1][a2]
}

// DistanceBetween answers the graph distance, in bonds, between the two
// atoms with the given input IDs.  The molecule must be normalised, both
// atoms must exist, and a path must exist between them.
func (m *Molecule) DistanceBetween(a1, a2 uint16) (int, error) {
	if !m.normalised {
		return 0, errors.Newf(errors.CodeStateInconsistency,
			"molecule %d: distance query before Normalise", m.id)
	}
	if m.AtomWithIid(a1) == nil || m.AtomWithIid(a2) == nil {
		return 0, errors.Newf(errors.CodeInvalidArgument,
			"molecule %d: no atom with input ID %d or %d", m.id, a1, a2)
	}
	d := m.dists[a1][a2]
	if d >= infDistance {
		return 0, errors.Newf(errors.CodeNotFound,
			"molecule %d: atoms %d and %d are disconnected", m.id, a1, a2)
	}
	return d, nil
}

// ShortestPathBetween answers the input IDs of the intermediate atoms on a
// shortest path between the two given atoms.  The list is empty when they
// are directly bonded; an error is answered when they are disconnected.
func (m *Molecule) ShortestPathBetween(a1, a2 uint16) ([]uint16, error) {
	if _, err := m.DistanceBetween(a1, a2); err != nil {
		return nil, err
	}

	var out []uint16
	m.collectPath(int(a1), int(a2), &out)
	return out, nil
}

// collectPath appends, in order, the intermediates recorded by the
// Floyd-Warshall pass for the i-j pair.
func (m *Molecule) collectPath(i, j int, out *[]uint16) {
	k := m.paths[i][j]
	if k == 0 {
		return
	}
	m.collectPath(i, k, out)
	*out = append(*out, uint16(k))
	m.collectPath(k, j, out)
}
