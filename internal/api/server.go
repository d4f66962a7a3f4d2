// Package api serves the proximity model over HTTP for the owning
// system, avoidance consumers and telemetry.
package api

import (
	"net/http"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/proximity.report/internal/httputil"
	"github.com/banshee-data/proximity.report/internal/proxdb"
	"github.com/banshee-data/proximity.report/internal/proximity"
	"github.com/banshee-data/proximity.report/internal/rangefinder"
	"github.com/banshee-data/proximity.report/internal/units"
)

// Server exposes read-only views of the shared proximity model. Event
// history is served only when a database is attached.
type Server struct {
	model *proximity.Synced
	stats *rangefinder.Stats
	db    *proxdb.DB
}

// NewServer creates an API server. db may be nil when event persistence is
// disabled.
func NewServer(model *proximity.Synced, stats *rangefinder.Stats, db *proxdb.DB) *Server {
	return &Server{model: model, stats: stats, db: db}
}

// ServeMux returns the route table for the server.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/api/proximity/status", s.handleStatus)
	mux.HandleFunc("/api/proximity/distance", s.handleDistance)
	mux.HandleFunc("/api/proximity/closest", s.handleClosest)
	mux.HandleFunc("/api/proximity/objects", s.handleObjects)
	mux.HandleFunc("/api/proximity/distances", s.handleEightWay)
	mux.HandleFunc("/api/proximity/boundary", s.handleBoundary)
	mux.HandleFunc("/api/proximity/ignore", s.handleIgnoreZones)
	mux.HandleFunc("/api/proximity/events", s.handleEvents)
	return mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	type statusResponse struct {
		Status         string                    `json:"status"`
		SectorCount    int                       `json:"sector_count"`
		MaxRangeMeters float64                   `json:"max_range_m"`
		Driver         rangefinder.StatsSnapshot `json:"driver"`
	}
	var resp statusResponse
	s.model.Read(func(m *proximity.Model) {
		resp.Status = m.Status().String()
		resp.SectorCount = m.ObjectCount()
		resp.MaxRangeMeters = m.MaxRangeMeters()
	})
	resp.Driver = s.stats.Snapshot()
	httputil.WriteJSONOK(w, resp)
}

// distanceUnits resolves the optional units query parameter, defaulting to
// meters.
func distanceUnits(r *http.Request) (string, bool) {
	u := r.URL.Query().Get("units")
	if u == "" {
		return units.Meters, true
	}
	if !units.IsValid(u) {
		return "", false
	}
	return u, true
}

func (s *Server) handleDistance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	angle, err := httputil.FloatParam(r, "angle")
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	targetUnits, ok := distanceUnits(r)
	if !ok {
		httputil.BadRequest(w, "invalid units: expected "+units.GetValidUnitsString())
		return
	}

	var distance float64
	found := false
	s.model.Read(func(m *proximity.Model) {
		distance, found = m.HorizontalDistance(angle)
	})
	if !found {
		httputil.NotFound(w, "no valid distance in that direction")
		return
	}
	httputil.WriteJSONOK(w, map[string]any{
		"angle_deg": angle,
		"distance":  units.ConvertDistance(distance, targetUnits),
		"units":     targetUnits,
	})
}

func (s *Server) handleClosest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	targetUnits, ok := distanceUnits(r)
	if !ok {
		httputil.BadRequest(w, "invalid units: expected "+units.GetValidUnitsString())
		return
	}

	var angle, distance float64
	found := false
	s.model.Read(func(m *proximity.Model) {
		angle, distance, found = m.ClosestObject()
	})
	if !found {
		httputil.NotFound(w, "no valid readings")
		return
	}
	httputil.WriteJSONOK(w, map[string]any{
		"angle_deg": angle,
		"distance":  units.ConvertDistance(distance, targetUnits),
		"units":     targetUnits,
	})
}

func (s *Server) handleObjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	type object struct {
		Index          int     `json:"index"`
		AngleDeg       float64 `json:"angle_deg,omitempty"`
		DistanceMeters float64 `json:"distance_m,omitempty"`
		Valid          bool    `json:"valid"`
	}
	index, err := httputil.IntParam(r, "index", -1)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	if index >= 0 {
		var obj object
		found := false
		s.model.Read(func(m *proximity.Model) {
			if index >= m.ObjectCount() {
				return
			}
			found = true
			obj.Index = index
			angle, distance, ok := m.ObjectAngleAndDistance(index)
			if ok {
				obj.AngleDeg = angle
				obj.DistanceMeters = distance
				obj.Valid = true
			}
		})
		if !found {
			httputil.NotFound(w, "no such object index")
			return
		}
		httputil.WriteJSONOK(w, obj)
		return
	}
	var objects []object
	s.model.Read(func(m *proximity.Model) {
		objects = make([]object, m.ObjectCount())
		for i := range objects {
			objects[i].Index = i
			angle, distance, ok := m.ObjectAngleAndDistance(i)
			if ok {
				objects[i].AngleDeg = angle
				objects[i].DistanceMeters = distance
				objects[i].Valid = true
			}
		}
	})
	httputil.WriteJSONOK(w, map[string]any{
		"count":   len(objects),
		"objects": objects,
	})
}

func (s *Server) handleEightWay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	var eightWay proximity.EightWay
	found := false
	s.model.Read(func(m *proximity.Model) {
		eightWay, found = m.EightWayDistances()
	})
	if !found {
		httputil.NotFound(w, "no valid readings")
		return
	}
	httputil.WriteJSONOK(w, map[string]any{
		"distances_m": eightWay.Distances,
		"set":         eightWay.Set,
	})
}

func (s *Server) handleBoundary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	var points []r2.Vec
	s.model.Read(func(m *proximity.Model) {
		points = m.BoundaryPoints()
	})
	if points == nil {
		httputil.NotFound(w, "boundary unavailable")
		return
	}
	type point struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	out := make([]point, len(points))
	for i, p := range points {
		out[i] = point{X: p.X, Y: p.Y}
	}
	httputil.WriteJSONOK(w, map[string]any{
		"count":  len(out),
		"points": out,
	})
}

func (s *Server) handleIgnoreZones(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	type zone struct {
		Index     int    `json:"index"`
		CenterDeg uint16 `json:"center_deg"`
		WidthDeg  uint8  `json:"width_deg"`
	}
	var count int
	var zones []zone
	s.model.Read(func(m *proximity.Model) {
		count = m.IgnoreZoneCount()
		for i := 0; i < proximity.MaxIgnoreZones; i++ {
			z, ok := m.IgnoreZoneAt(i)
			if !ok || z.WidthDeg == 0 {
				continue
			}
			zones = append(zones, zone{Index: i, CenterDeg: z.CenterDeg, WidthDeg: z.WidthDeg})
		}
	})
	httputil.WriteJSONOK(w, map[string]any{
		"count": count,
		"zones": zones,
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.db == nil {
		httputil.NotFound(w, "event persistence disabled")
		return
	}
	limit, err := httputil.IntParam(r, "limit", 100)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	events, err := s.db.RecentEvents(limit)
	if err != nil {
		httputil.InternalServerError(w, "failed to load events")
		return
	}
	httputil.WriteJSONOK(w, map[string]any{
		"count":  len(events),
		"events": events,
	})
}
