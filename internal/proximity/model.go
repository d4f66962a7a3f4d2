package proximity

import "gonum.org/v1/gonum/spatial/r2"

const (
	// MinBoundaryDistance is the clearance floor applied when deriving a
	// boundary point from adjacent sector distances. It keeps the
	// avoidance polygon from collapsing onto the vehicle when an obstacle
	// is extremely close.
	MinBoundaryDistance = 0.6 // meters

	// edgeVectorScale scales the unit vector at each sector's trailing
	// edge. Boundary points are edge vector * distance, so the polygon is
	// expressed in distance * 100 units.
	edgeVectorScale = 100.0
)

// Status is the overall sensor health reported by the driver.
type Status int

const (
	StatusNotConnected Status = iota
	StatusNoData
	StatusGood
)

func (s Status) String() string {
	switch s {
	case StatusNotConnected:
		return "not_connected"
	case StatusNoData:
		return "no_data"
	case StatusGood:
		return "good"
	default:
		return "unknown"
	}
}

// Model holds the per-sector obstacle state for one sensor. It performs no
// locking: the contract is a single writer (the driver) and any number of
// readers within one control tick, or external mutual exclusion via Synced.
type Model struct {
	layout         Layout
	maxRangeMeters float64

	distances []float64
	valid     []bool

	// edgeVectors are computed lazily per sector on first boundary
	// update. A zero vector marks an uncomputed entry; a sector whose
	// trailing edge genuinely points at a zero vector cannot occur for
	// nonzero edgeVectorScale.
	edgeVectors []r2.Vec
	boundary    []r2.Vec

	zones [MaxIgnoreZones]IgnoreZone

	status Status
}

// NewModel builds a model over the given layout. maxRangeMeters is the
// sensor's maximum sensing range, used as the default value in the 8-way
// distance projection.
func NewModel(layout Layout, maxRangeMeters float64) *Model {
	n := layout.NumSectors()
	return &Model{
		layout:         layout,
		maxRangeMeters: maxRangeMeters,
		distances:      make([]float64, n),
		valid:          make([]bool, n),
		edgeVectors:    make([]r2.Vec, n),
		boundary:       make([]r2.Vec, n),
	}
}

// Layout returns the sector layout this model was built over.
func (m *Model) Layout() Layout { return m.layout }

// NumSectors returns the configured sector count.
func (m *Model) NumSectors() int { return len(m.distances) }

// MaxRangeMeters returns the configured maximum sensing range.
func (m *Model) MaxRangeMeters() float64 { return m.maxRangeMeters }

// Status returns the current sensor status.
func (m *Model) Status() Status { return m.status }

// SetStatus overwrites the sensor status. Any status may follow any other;
// there is no transition table. Validity lives in per-sector flags.
func (m *Model) SetStatus(status Status) { m.status = status }

// SetSample records a distance for a sector and marks it valid. Out of
// range sector identifiers are ignored. The caller is expected to follow a
// write with UpdateBoundaryForSector so the boundary polygon tracks the
// new distance.
func (m *Model) SetSample(sector int, distanceMeters float64) {
	if sector < 0 || sector >= len(m.distances) {
		return
	}
	m.distances[sector] = distanceMeters
	m.valid[sector] = true
}

// InvalidateSample marks a sector's distance as untrusted without clearing
// the stored value.
func (m *Model) InvalidateSample(sector int) {
	if sector < 0 || sector >= len(m.valid) {
		return
	}
	m.valid[sector] = false
}

// SampleValid reports whether a sector currently holds a trusted distance.
func (m *Model) SampleValid(sector int) bool {
	return sector >= 0 && sector < len(m.valid) && m.valid[sector]
}
