// Package proximity maintains a discretized angular model of obstacles
// around a vehicle from raw rangefinder measurements. Distances are binned
// into sectors by heading angle; queries derive the closest object, an
// 8-direction distance projection for telemetry, and a conservative
// boundary polygon for avoidance. Angles are degrees clockwise from
// forward, distances are meters.
package proximity

import (
	"math"

	"github.com/banshee-data/proximity.report/internal/units"
)

// Sector is one angular bin of the surrounding circle.
type Sector struct {
	MiddleDeg float64 // middle angle in [0, 360)
	WidthDeg  float64 // angular width, > 0
}

// Layout is the fixed sector arrangement for a sensor configuration.
// Sector identifiers are stable indices 0..NumSectors-1. Sectors need not
// tile the full circle; gaps between sectors are permitted and resolved by
// nearest-sector fallback in ResolveSector. Overlap is not expected.
type Layout struct {
	sectors []Sector
}

// NewLayout copies the given sectors into an immutable layout.
func NewLayout(sectors []Sector) Layout {
	s := make([]Sector, len(sectors))
	copy(s, sectors)
	return Layout{sectors: s}
}

// NumSectors returns the number of configured sectors.
func (l Layout) NumSectors() int { return len(l.sectors) }

// SectorAt returns the sector definition for the given identifier.
func (l Layout) SectorAt(sector int) (Sector, bool) {
	if sector < 0 || sector >= len(l.sectors) {
		return Sector{}, false
	}
	return l.sectors[sector], true
}

// ResolveSector maps a heading angle to a sector identifier. Angles are
// accepted in [-180, 360]; negative angles are normalized by adding 360.
// The first sector whose half-width contains the angle wins. If the angle
// falls in a gap between sectors, the sector whose middle angle is
// circularly nearest is returned instead; the fallback is tracked during
// the same scan. Returns false only for out-of-range angles or an empty
// layout.
func (l Layout) ResolveSector(angleDeg float64) (int, bool) {
	if angleDeg > 360.0 || angleDeg < -180.0 {
		return 0, false
	}
	if angleDeg < 0 {
		angleDeg += 360.0
	}

	closest := -1
	closestDiff := 0.0
	for i, s := range l.sectors {
		diff := math.Abs(units.Wrap180(s.MiddleDeg - angleDeg))
		if closest < 0 || diff < closestDiff {
			closest = i
			closestDiff = diff
		}
		if diff <= s.WidthDeg/2.0 {
			return i, true
		}
	}

	if closest >= 0 {
		return closest, true
	}
	return 0, false
}
