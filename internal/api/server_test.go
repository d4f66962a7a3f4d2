package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/banshee-data/proximity.report/internal/proxdb"
	"github.com/banshee-data/proximity.report/internal/proximity"
	"github.com/banshee-data/proximity.report/internal/rangefinder"
	"github.com/banshee-data/proximity.report/internal/testutil"
)

func testServer(t *testing.T, withDB bool) (*Server, *proximity.Synced) {
	t.Helper()
	sectors := make([]proximity.Sector, 8)
	for i := range sectors {
		sectors[i] = proximity.Sector{MiddleDeg: float64(i) * 45.0, WidthDeg: 45.0}
	}
	m := proximity.NewModel(proximity.NewLayout(sectors), 50)
	if err := m.SetIgnoreZones([]proximity.IgnoreZone{{CenterDeg: 180, WidthDeg: 20}}); err != nil {
		t.Fatal(err)
	}
	model := proximity.NewSynced(m)

	var db *proxdb.DB
	if withDB {
		var err error
		db, err = proxdb.NewDB(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { db.Close() })
	}

	return NewServer(model, &rangefinder.Stats{}, db), model
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := testutil.NewTestRecorder()
	s.ServeMux().ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, path))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestHealthz(t *testing.T) {
	s, _ := testServer(t, false)
	rec := get(t, s, "/healthz")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
}

func TestStatusEndpoint(t *testing.T) {
	s, model := testServer(t, false)
	model.Write(func(m *proximity.Model) { m.SetStatus(proximity.StatusGood) })

	rec := get(t, s, "/api/proximity/status")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	body := decode(t, rec)
	if body["status"] != "good" {
		t.Errorf("status = %v", body["status"])
	}
	if body["sector_count"].(float64) != 8 {
		t.Errorf("sector_count = %v", body["sector_count"])
	}
}

func TestDistanceEndpoint(t *testing.T) {
	s, model := testServer(t, false)

	rec := get(t, s, "/api/proximity/distance?angle=90")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)

	model.Write(func(m *proximity.Model) { m.SetSample(2, 4) })

	rec = get(t, s, "/api/proximity/distance?angle=90")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	body := decode(t, rec)
	if body["distance"].(float64) != 4 {
		t.Errorf("distance = %v", body["distance"])
	}

	// unit conversion
	rec = get(t, s, "/api/proximity/distance?angle=90&units=cm")
	body = decode(t, rec)
	if body["distance"].(float64) != 400 {
		t.Errorf("distance cm = %v", body["distance"])
	}

	rec = get(t, s, "/api/proximity/distance?angle=90&units=leagues")
	testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)

	rec = get(t, s, "/api/proximity/distance")
	testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)

	rec = get(t, s, "/api/proximity/distance?angle=500")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)
}

func TestClosestEndpoint(t *testing.T) {
	s, model := testServer(t, false)

	rec := get(t, s, "/api/proximity/closest")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)

	model.Write(func(m *proximity.Model) {
		m.SetSample(1, 9)
		m.SetSample(6, 2)
	})

	rec = get(t, s, "/api/proximity/closest")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	body := decode(t, rec)
	if body["angle_deg"].(float64) != 270 {
		t.Errorf("angle = %v", body["angle_deg"])
	}
	if body["distance"].(float64) != 2 {
		t.Errorf("distance = %v", body["distance"])
	}
}

func TestObjectsEndpoint(t *testing.T) {
	s, model := testServer(t, false)
	model.Write(func(m *proximity.Model) { m.SetSample(0, 1.5) })

	rec := get(t, s, "/api/proximity/objects")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	body := decode(t, rec)
	if body["count"].(float64) != 8 {
		t.Errorf("count = %v", body["count"])
	}
	objects := body["objects"].([]any)
	first := objects[0].(map[string]any)
	if first["valid"] != true || first["distance_m"].(float64) != 1.5 {
		t.Errorf("objects[0] = %v", first)
	}
	second := objects[1].(map[string]any)
	if second["valid"] != false {
		t.Errorf("objects[1] = %v", second)
	}
}

func TestObjectsEndpointByIndex(t *testing.T) {
	s, model := testServer(t, false)
	model.Write(func(m *proximity.Model) { m.SetSample(3, 2.5) })

	rec := get(t, s, "/api/proximity/objects?index=3")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	body := decode(t, rec)
	if body["valid"] != true || body["distance_m"].(float64) != 2.5 {
		t.Errorf("object = %v", body)
	}

	rec = get(t, s, "/api/proximity/objects?index=99")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)

	rec = get(t, s, "/api/proximity/objects?index=three")
	testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)
}

func TestEightWayEndpoint(t *testing.T) {
	s, model := testServer(t, false)

	rec := get(t, s, "/api/proximity/distances")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)

	model.Write(func(m *proximity.Model) { m.SetSample(0, 3) })

	rec = get(t, s, "/api/proximity/distances")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	body := decode(t, rec)
	distances := body["distances_m"].([]any)
	if len(distances) != 8 || distances[0].(float64) != 3 {
		t.Errorf("distances = %v", distances)
	}
}

func TestBoundaryEndpoint(t *testing.T) {
	s, model := testServer(t, false)

	rec := get(t, s, "/api/proximity/boundary")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)

	model.Write(func(m *proximity.Model) {
		for i := 0; i < m.NumSectors(); i++ {
			m.SetSample(i, 5)
			m.UpdateBoundaryForSector(i)
		}
		m.SetStatus(proximity.StatusGood)
	})

	rec = get(t, s, "/api/proximity/boundary")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	body := decode(t, rec)
	if body["count"].(float64) != 8 {
		t.Errorf("count = %v", body["count"])
	}
}

func TestIgnoreZonesEndpoint(t *testing.T) {
	s, _ := testServer(t, false)
	rec := get(t, s, "/api/proximity/ignore")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	body := decode(t, rec)
	if body["count"].(float64) != 1 {
		t.Errorf("count = %v", body["count"])
	}
	zones := body["zones"].([]any)
	zone := zones[0].(map[string]any)
	if zone["center_deg"].(float64) != 180 || zone["width_deg"].(float64) != 20 {
		t.Errorf("zone = %v", zone)
	}
}

func TestEventsEndpoint(t *testing.T) {
	s, _ := testServer(t, false)
	rec := get(t, s, "/api/proximity/events")
	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)

	s, _ = testServer(t, true)
	if err := s.db.RecordEvent(proxdb.ObstacleEvent{AngleDeg: 45, DistanceMeters: 2, Status: "good"}); err != nil {
		t.Fatal(err)
	}

	rec = get(t, s, "/api/proximity/events?limit=10")
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	body := decode(t, rec)
	if body["count"].(float64) != 1 {
		t.Errorf("count = %v", body["count"])
	}

	rec = get(t, s, "/api/proximity/events?limit=bogus")
	testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := testServer(t, false)
	rec := testutil.NewTestRecorder()
	s.ServeMux().ServeHTTP(rec, testutil.NewTestRequest(http.MethodPost, "/api/proximity/status"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusMethodNotAllowed)
}
