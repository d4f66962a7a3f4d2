package proximity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetIgnoreZonesCapacity(t *testing.T) {
	m := NewModel(testLayout8(), 50)
	zones := make([]IgnoreZone, MaxIgnoreZones+1)
	for i := range zones {
		zones[i] = IgnoreZone{CenterDeg: uint16(i * 10), WidthDeg: 5}
	}
	assert.Error(t, m.SetIgnoreZones(zones))
	assert.NoError(t, m.SetIgnoreZones(zones[:MaxIgnoreZones]))
}

func TestIgnoreZoneCountSkipsZeroWidth(t *testing.T) {
	m := NewModel(testLayout8(), 50)
	require.NoError(t, m.SetIgnoreZones([]IgnoreZone{
		{CenterDeg: 90, WidthDeg: 20},
		{CenterDeg: 180, WidthDeg: 0}, // unused slot
		{CenterDeg: 270, WidthDeg: 10},
	}))
	assert.Equal(t, 2, m.IgnoreZoneCount())
}

func TestIgnoreZoneAtRawTable(t *testing.T) {
	m := NewModel(testLayout8(), 50)
	require.NoError(t, m.SetIgnoreZones([]IgnoreZone{{CenterDeg: 90, WidthDeg: 20}}))

	zone, ok := m.IgnoreZoneAt(0)
	require.True(t, ok)
	assert.Equal(t, IgnoreZone{CenterDeg: 90, WidthDeg: 20}, zone)

	// raw lookup exposes unused entries rather than filtering them
	zone, ok = m.IgnoreZoneAt(3)
	require.True(t, ok)
	assert.Equal(t, IgnoreZone{}, zone)

	_, ok = m.IgnoreZoneAt(MaxIgnoreZones)
	assert.False(t, ok)
	_, ok = m.IgnoreZoneAt(-1)
	assert.False(t, ok)
}

func TestNextIgnoreBoundary(t *testing.T) {
	m := NewModel(testLayout8(), 50)
	require.NoError(t, m.SetIgnoreZones([]IgnoreZone{{CenterDeg: 90, WidthDeg: 20}}))

	start, ok := m.NextIgnoreBoundary(ZoneEdgeStart, 0)
	require.True(t, ok)
	assert.InDelta(t, 80.0, start, 1e-9)

	end, ok := m.NextIgnoreBoundary(ZoneEdgeEnd, 0)
	require.True(t, ok)
	assert.InDelta(t, 100.0, end, 1e-9)
}

func TestNextIgnoreBoundaryWrapsForward(t *testing.T) {
	m := NewModel(testLayout8(), 50)
	require.NoError(t, m.SetIgnoreZones([]IgnoreZone{
		{CenterDeg: 10, WidthDeg: 10},
		{CenterDeg: 300, WidthDeg: 10},
	}))

	// from 310 the next start boundary ahead is the zone at 10 degrees
	// (start 5), not the zone already behind at 295
	start, ok := m.NextIgnoreBoundary(ZoneEdgeStart, 310)
	require.True(t, ok)
	assert.InDelta(t, 5.0, start, 1e-9)
}

func TestNextIgnoreBoundaryUnconfigured(t *testing.T) {
	m := NewModel(testLayout8(), 50)
	_, ok := m.NextIgnoreBoundary(ZoneEdgeStart, 0)
	assert.False(t, ok)
}

func TestIgnored(t *testing.T) {
	m := NewModel(testLayout8(), 50)
	require.NoError(t, m.SetIgnoreZones([]IgnoreZone{{CenterDeg: 90, WidthDeg: 20}}))

	assert.True(t, m.Ignored(90))
	assert.True(t, m.Ignored(80))
	assert.True(t, m.Ignored(100))
	assert.False(t, m.Ignored(79))
	assert.False(t, m.Ignored(101))
	assert.False(t, m.Ignored(270))
	assert.True(t, m.Ignored(-270), "negative alias of 90 degrees")
}
