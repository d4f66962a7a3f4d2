package proximity

import (
	"fmt"
	"math"

	"github.com/banshee-data/proximity.report/internal/units"
)

// MaxIgnoreZones is the fixed capacity of the ignore-zone table.
const MaxIgnoreZones = 6

// IgnoreZone is an angular interval excluded from sensing, typically
// covering a reflective vehicle part such as a landing leg or antenna. A
// zone with zero width marks an unused table entry; the table is sparse,
// not a dense list.
type IgnoreZone struct {
	CenterDeg uint16
	WidthDeg  uint8
}

// ZoneEdge selects which boundary of an ignore zone a query refers to.
type ZoneEdge int

const (
	ZoneEdgeStart ZoneEdge = iota // counter-clockwise boundary, center - width/2
	ZoneEdgeEnd                   // clockwise boundary, center + width/2
)

// SetIgnoreZones copies externally configured zones into the fixed
// capacity table. Entries beyond the given slice are cleared. Returns an
// error if more than MaxIgnoreZones zones are supplied.
func (m *Model) SetIgnoreZones(zones []IgnoreZone) error {
	if len(zones) > MaxIgnoreZones {
		return fmt.Errorf("too many ignore zones: %d (max %d)", len(zones), MaxIgnoreZones)
	}
	var table [MaxIgnoreZones]IgnoreZone
	copy(table[:], zones)
	m.zones = table
	return nil
}

// IgnoreZoneCount returns the number of configured (nonzero-width) zones.
func (m *Model) IgnoreZoneCount() int {
	count := 0
	for i := range m.zones {
		if m.zones[i].WidthDeg != 0 {
			count++
		}
	}
	return count
}

// IgnoreZoneAt returns the raw table entry at the given index, including
// unused zero-width entries. Fails only when the index is outside the
// table capacity; callers iterating configured zones should pair this with
// IgnoreZoneCount or skip zero-width entries themselves.
func (m *Model) IgnoreZoneAt(index int) (IgnoreZone, bool) {
	if index < 0 || index >= MaxIgnoreZones {
		return IgnoreZone{}, false
	}
	return m.zones[index], true
}

// NextIgnoreBoundary returns the start or end boundary angle of the
// configured zone closest ahead (clockwise) of startDeg. Among all zones
// the candidate with the smallest non-negative forward circular distance
// wins; ties keep the first table index. Returns false if no zones are
// configured.
func (m *Model) NextIgnoreBoundary(edge ZoneEdge, startDeg float64) (float64, bool) {
	found := false
	smallestDiff := 0.0
	boundary := 0.0

	for i := range m.zones {
		if m.zones[i].WidthDeg == 0 {
			continue
		}
		offset := float64(m.zones[i].WidthDeg)
		if edge == ZoneEdgeStart {
			offset = -offset
		}
		candidate := units.Wrap360(float64(m.zones[i].CenterDeg) + offset/2.0)
		diff := units.Wrap360(candidate - startDeg)
		if !found || diff < smallestDiff {
			smallestDiff = diff
			boundary = candidate
			found = true
		}
	}

	return boundary, found
}

// Ignored reports whether a heading angle falls inside any configured
// zone. The driver consults this before accepting a raw measurement.
func (m *Model) Ignored(angleDeg float64) bool {
	for i := range m.zones {
		if m.zones[i].WidthDeg == 0 {
			continue
		}
		diff := math.Abs(units.Wrap180(angleDeg - float64(m.zones[i].CenterDeg)))
		if diff <= float64(m.zones[i].WidthDeg)/2.0 {
			return true
		}
	}
	return false
}
