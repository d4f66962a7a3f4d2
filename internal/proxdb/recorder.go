package proxdb

import (
	"context"
	"time"

	"github.com/banshee-data/proximity.report/internal/monitoring"
	"github.com/banshee-data/proximity.report/internal/proximity"
)

// Recorder periodically samples the shared model and persists closest
// object events. It only writes while at least one sector holds a valid
// sample.
type Recorder struct {
	db       *DB
	model    *proximity.Synced
	interval time.Duration
}

// NewRecorder builds a recorder writing to db every interval.
func NewRecorder(db *DB, model *proximity.Synced, interval time.Duration) *Recorder {
	return &Recorder{db: db, model: model, interval: interval}
}

// Run records until the context is cancelled.
func (r *Recorder) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if event, ok := r.sample(); ok {
				if err := r.db.RecordEvent(event); err != nil {
					monitoring.Logf("proxdb: failed to record event: %v", err)
				}
			}
		}
	}
}

func (r *Recorder) sample() (ObstacleEvent, bool) {
	var event ObstacleEvent
	ok := false
	r.model.Read(func(m *proximity.Model) {
		angle, distance, found := m.ClosestObject()
		if !found {
			return
		}
		event.AngleDeg = angle
		event.DistanceMeters = distance
		event.Status = m.Status().String()
		if eightWay, valid := m.EightWayDistances(); valid {
			event.EightWay = eightWay.Distances[:]
		}
		ok = true
	})
	return event, ok
}
