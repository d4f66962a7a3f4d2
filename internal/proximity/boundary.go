package proximity

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/proximity.report/internal/units"
)

// UpdateBoundaryForSector recomputes the boundary points that depend on
// the given sector's distance. Each boundary point lies on the edge shared
// by two sectors, so one sample write touches the point on the sector's
// trailing edge and the point on its leading edge (owned by the previous
// sector). Both take the shorter of the two adjacent distances; the
// trailing edge is additionally floored at MinBoundaryDistance while the
// leading edge is not. The driver must call this after every sample write;
// unaffected sectors are never recomputed.
func (m *Model) UpdateBoundaryForSector(sector int) {
	n := len(m.distances)
	if sector < 0 || sector >= n {
		return
	}

	// Lazily compute the unit vector at the sector's trailing edge. A
	// zero vector marks an uncomputed entry.
	if (m.edgeVectors[sector] == r2.Vec{}) {
		s := m.layout.sectors[sector]
		angleRad := units.Radians(s.MiddleDeg + s.WidthDeg/2.0)
		m.edgeVectors[sector] = r2.Vec{
			X: math.Cos(angleRad) * edgeVectorScale,
			Y: math.Sin(angleRad) * edgeVectorScale,
		}
	}

	next := sector + 1
	if next >= n {
		next = 0
	}
	if m.valid[sector] && m.valid[next] {
		shortest := math.Min(m.distances[sector], m.distances[next])
		if shortest < MinBoundaryDistance {
			shortest = MinBoundaryDistance
		}
		m.boundary[sector] = r2.Scale(shortest, m.edgeVectors[sector])
	}

	// Repeat for the edge shared with the previous sector. No clearance
	// floor on this side.
	prev := sector - 1
	if sector == 0 {
		prev = n - 1
	}
	if m.valid[prev] && m.valid[sector] {
		shortest := math.Min(m.distances[prev], m.distances[sector])
		m.boundary[prev] = r2.Scale(shortest, m.edgeVectors[prev])
	}
}

// BoundaryPoints returns the obstacle envelope polygon, one vertex per
// sector. The polygon is only released when status is Good and every
// sector holds a valid sample; otherwise nil is returned. This gate is
// strict all-or-nothing, unlike the partial-data tolerance of the distance
// queries.
func (m *Model) BoundaryPoints() []r2.Vec {
	if m.status != StatusGood {
		return nil
	}
	for i := range m.valid {
		if !m.valid[i] {
			return nil
		}
	}
	points := make([]r2.Vec, len(m.boundary))
	copy(points, m.boundary)
	return points
}
