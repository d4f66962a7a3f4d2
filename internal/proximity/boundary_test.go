package proximity

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

// fully populated model with identical distances on a 4-sector layout
func testBoundaryModel(t *testing.T, distance float64) *Model {
	t.Helper()
	layout := NewLayout([]Sector{
		{MiddleDeg: 0, WidthDeg: 90},
		{MiddleDeg: 90, WidthDeg: 90},
		{MiddleDeg: 180, WidthDeg: 90},
		{MiddleDeg: 270, WidthDeg: 90},
	})
	m := NewModel(layout, 50)
	for i := 0; i < m.NumSectors(); i++ {
		m.SetSample(i, distance)
		m.UpdateBoundaryForSector(i)
	}
	m.SetStatus(StatusGood)
	return m
}

func TestBoundaryPointsStatusGate(t *testing.T) {
	m := testBoundaryModel(t, 5)

	require.NotNil(t, m.BoundaryPoints())

	// any status other than Good withholds the polygon even though all
	// samples are valid
	m.SetStatus(StatusNoData)
	assert.Nil(t, m.BoundaryPoints())
	m.SetStatus(StatusNotConnected)
	assert.Nil(t, m.BoundaryPoints())

	m.SetStatus(StatusGood)
	m.InvalidateSample(2)
	assert.Nil(t, m.BoundaryPoints(), "one invalid sector withholds the whole polygon")
}

func TestBoundaryPointsConservative(t *testing.T) {
	m := testBoundaryModel(t, 5)
	m.SetSample(0, 2)
	m.SetSample(1, 8)
	m.UpdateBoundaryForSector(0)
	m.UpdateBoundaryForSector(1)

	points := m.BoundaryPoints()
	require.Len(t, points, 4)

	// the edge between sectors 0 and 1 takes the shorter adjacent
	// distance; edge vectors are unit * 100
	gotDist := r2.Norm(points[0]) / 100.0
	assert.InDelta(t, 2.0, gotDist, 1e-9)
	assert.LessOrEqual(t, gotDist, 2.0+1e-9)
	assert.LessOrEqual(t, gotDist, 8.0)
}

func TestBoundaryClearanceFloorAsymmetry(t *testing.T) {
	m := testBoundaryModel(t, 5)

	// drop sectors 0 and 1 well below the clearance floor
	m.SetSample(0, 0.1)
	m.SetSample(1, 0.1)
	m.UpdateBoundaryForSector(0)

	// trailing edge of sector 0 is floored
	points := m.BoundaryPoints()
	require.Len(t, points, 4)
	assert.InDelta(t, MinBoundaryDistance, r2.Norm(points[0])/100.0, 1e-9)

	// updating sector 1 rewrites the same edge through its leading-edge
	// path, which applies no floor
	m.UpdateBoundaryForSector(1)
	points = m.BoundaryPoints()
	assert.InDelta(t, 0.1, r2.Norm(points[0])/100.0, 1e-9)
}

func TestBoundaryUpdateIdempotent(t *testing.T) {
	m := testBoundaryModel(t, 3.5)
	before := m.BoundaryPoints()
	for i := 0; i < m.NumSectors(); i++ {
		m.UpdateBoundaryForSector(i)
		m.UpdateBoundaryForSector(i)
	}
	after := m.BoundaryPoints()
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("boundary changed under unchanged samples (-before +after):\n%s", diff)
	}
}

func TestBoundaryEdgeVectorDirection(t *testing.T) {
	m := testBoundaryModel(t, 5)
	points := m.BoundaryPoints()
	require.Len(t, points, 4)

	// sector 0 spans [-45, 45]; its trailing edge sits at 45 degrees
	wantAngle := math.Pi / 4
	gotAngle := math.Atan2(points[0].Y, points[0].X)
	assert.InDelta(t, wantAngle, gotAngle, 1e-9)
}

func TestUpdateBoundaryOutOfRangeIsNoop(t *testing.T) {
	m := testBoundaryModel(t, 5)
	before := m.BoundaryPoints()
	m.UpdateBoundaryForSector(-1)
	m.UpdateBoundaryForSector(4)
	if diff := cmp.Diff(before, m.BoundaryPoints()); diff != "" {
		t.Errorf("out of range update mutated boundary:\n%s", diff)
	}
}

func TestBoundarySkipsEdgesWithInvalidNeighbor(t *testing.T) {
	layout := NewLayout([]Sector{
		{MiddleDeg: 0, WidthDeg: 90},
		{MiddleDeg: 90, WidthDeg: 90},
		{MiddleDeg: 180, WidthDeg: 90},
		{MiddleDeg: 270, WidthDeg: 90},
	})
	m := NewModel(layout, 50)
	m.SetSample(0, 5)
	m.UpdateBoundaryForSector(0)

	// neither neighbor of sector 0 is valid, so no boundary point was
	// derived; the zero value remains
	assert.Equal(t, r2.Vec{}, m.boundary[0])
	assert.Equal(t, r2.Vec{}, m.boundary[3])
}
