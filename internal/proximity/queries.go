package proximity

// HorizontalDistance returns the measured distance in a particular
// direction (0 is forward, angles increase clockwise). Returns false if
// the angle is out of range or the resolved sector has no valid sample.
func (m *Model) HorizontalDistance(angleDeg float64) (float64, bool) {
	sector, ok := m.layout.ResolveSector(angleDeg)
	if !ok || !m.valid[sector] {
		return 0, false
	}
	return m.distances[sector], true
}

// ClosestObject returns the angle and distance of the nearest valid
// obstacle. Ties keep the lowest sector index. Returns false if no sector
// holds a valid sample.
func (m *Model) ClosestObject() (angleDeg, distanceMeters float64, ok bool) {
	found := false
	closest := 0
	for i := range m.distances {
		if m.valid[i] && (!found || m.distances[i] < m.distances[closest]) {
			closest = i
			found = true
		}
	}
	if !found {
		return 0, 0, false
	}
	return m.layout.sectors[closest].MiddleDeg, m.distances[closest], true
}

// ObjectCount returns the configured sector count. This is a capacity, not
// a count of valid samples; callers must check validity per index via
// ObjectAngleAndDistance.
func (m *Model) ObjectCount() int { return len(m.distances) }

// ObjectAngleAndDistance returns the middle angle and distance for one
// sector. Returns false if the index is out of range or the sector has no
// valid sample.
func (m *Model) ObjectAngleAndDistance(sector int) (angleDeg, distanceMeters float64, ok bool) {
	if sector < 0 || sector >= len(m.distances) || !m.valid[sector] {
		return 0, 0, false
	}
	return m.layout.sectors[sector].MiddleDeg, m.distances[sector], true
}

// EightWay is the fixed 8-direction distance projection used for
// telemetry. Orientation 0 is forward, each subsequent orientation is 45
// degrees clockwise. Distances for unset orientations hold the sensor's
// maximum range.
type EightWay struct {
	Distances [8]float64
	Set       [8]bool
}

// EightWayDistances projects all valid sectors onto the 8 fixed compass
// orientations, keeping the minimum distance when multiple sectors share
// an orientation. Orientations untouched by any sector are filled with the
// mean of their two circular neighbors when both are set; a gap whose
// neighbors are not both set stays at maximum range and unset. Returns
// false if no sector anywhere holds a valid sample.
func (m *Model) EightWayDistances() (EightWay, bool) {
	anyValid := false
	for i := range m.valid {
		if m.valid[i] {
			anyValid = true
		}
	}
	if !anyValid {
		return EightWay{}, false
	}

	var out EightWay
	for i := range out.Distances {
		out.Distances[i] = m.maxRangeMeters
	}

	for i := range m.distances {
		if !m.valid[i] {
			continue
		}
		orientation := int(m.layout.sectors[i].MiddleDeg / 45.0)
		if orientation >= 0 && orientation < 8 && m.distances[i] < out.Distances[orientation] {
			out.Distances[orientation] = m.distances[i]
			out.Set[orientation] = true
		}
	}

	// Single-neighbor gap fill only: the fill reads set orientations and
	// writes unset ones, so filling in place never propagates. A gap
	// flanked by another gap keeps the maximum-range default.
	for i := range out.Distances {
		if out.Set[i] {
			continue
		}
		before := (i + 7) % 8
		after := (i + 1) % 8
		if out.Set[before] && out.Set[after] {
			out.Distances[i] = (out.Distances[before] + out.Distances[after]) / 2.0
		}
	}
	return out, true
}
