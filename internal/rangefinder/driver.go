// Package rangefinder drives a scanning serial rangefinder and feeds its
// measurements into the proximity model. The device streams one distance
// sample per line; the driver suppresses samples inside configured ignore
// zones, bins the rest into sectors and keeps the avoidance boundary
// current after every write.
package rangefinder

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/banshee-data/proximity.report/internal/monitoring"
	"github.com/banshee-data/proximity.report/internal/proximity"
	"github.com/banshee-data/proximity.report/internal/serialmux"
)

// DefaultDataTimeout is how long the driver waits without a distance frame
// before declaring the sensor NoData.
const DefaultDataTimeout = 3 * time.Second

// Stats tracks driver counters for the API and periodic logging.
type Stats struct {
	Frames      monitoring.Counter
	ParseErrors monitoring.Counter
	Suppressed  monitoring.Counter
	OutOfRange  monitoring.Counter
}

// StatsSnapshot is the JSON shape served by the API.
type StatsSnapshot struct {
	Frames      int64 `json:"frames"`
	ParseErrors int64 `json:"parse_errors"`
	Suppressed  int64 `json:"suppressed"`
	OutOfRange  int64 `json:"out_of_range"`
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Frames:      s.Frames.Value(),
		ParseErrors: s.ParseErrors.Value(),
		Suppressed:  s.Suppressed.Value(),
		OutOfRange:  s.OutOfRange.Value(),
	}
}

// Driver consumes line events from the serial mux and writes samples into
// the shared proximity model. Run owns all driver state on one goroutine;
// only Stats is read concurrently.
type Driver struct {
	mux         serialmux.SerialMuxInterface
	model       *proximity.Synced
	dataTimeout time.Duration

	stats Stats

	// per-revolution bookkeeping, touched only by Run
	painted   []bool
	lastFrame time.Time
}

// New creates a driver over the given mux and shared model. dataTimeout of
// zero selects DefaultDataTimeout.
func New(mux serialmux.SerialMuxInterface, model *proximity.Synced, dataTimeout time.Duration) *Driver {
	if dataTimeout <= 0 {
		dataTimeout = DefaultDataTimeout
	}
	d := &Driver{
		mux:         mux,
		model:       model,
		dataTimeout: dataTimeout,
	}
	model.Read(func(m *proximity.Model) {
		d.painted = make([]bool, m.NumSectors())
	})
	return d
}

// Stats returns the driver's counters for concurrent reading.
func (d *Driver) Stats() *Stats { return &d.stats }

// Initialize configures the device for streaming: sets the scan motor
// speed and enables unsolicited distance output.
func (d *Driver) Initialize() error {
	for _, command := range []string{
		"MS,5", // motor speed setting 5 (~4.5 Hz scan rate)
		"US",   // enable unsolicited distance streaming
	} {
		if err := d.mux.SendCommand(command); err != nil {
			return fmt.Errorf("failed to send start command %q: %w", command, err)
		}
	}
	return nil
}

// Run subscribes to the mux and processes events until the context is
// cancelled. The sensor starts NotConnected, moves to NoData on the first
// frame and to Good once every sector has been painted; a data timeout
// drops it back to NoData.
func (d *Driver) Run(ctx context.Context) error {
	id, lines := d.mux.Subscribe()
	defer d.mux.Unsubscribe(id)

	d.model.Write(func(m *proximity.Model) {
		m.SetStatus(proximity.StatusNotConnected)
	})

	ticker := time.NewTicker(d.dataTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			d.checkTimeout()

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			d.handleLine(line)
		}
	}
}

func (d *Driver) handleLine(line string) {
	switch serialmux.ClassifyPayload(line) {
	case serialmux.EventTypeDistance:
		d.handleDistance(line)
	case serialmux.EventTypeState:
		// informational; state transitions are derived from data flow
	case serialmux.EventTypeError:
		monitoring.Logf("rangefinder fault: %s", line)
	default:
		d.stats.ParseErrors.Inc()
	}
}

func (d *Driver) handleDistance(line string) {
	angleDeg, distanceMeters, err := ParseDistance(line)
	if err != nil {
		d.stats.ParseErrors.Inc()
		return
	}
	d.stats.Frames.Inc()
	d.lastFrame = time.Now()

	d.model.Write(func(m *proximity.Model) {
		if m.Status() == proximity.StatusNotConnected {
			m.SetStatus(proximity.StatusNoData)
		}

		if m.Ignored(angleDeg) {
			d.stats.Suppressed.Inc()
			return
		}

		sector, ok := m.Layout().ResolveSector(angleDeg)
		if !ok {
			d.stats.OutOfRange.Inc()
			return
		}

		// beyond maximum range means no obstacle in this sector
		if distanceMeters > m.MaxRangeMeters() {
			m.InvalidateSample(sector)
		} else {
			m.SetSample(sector, distanceMeters)
		}
		m.UpdateBoundaryForSector(sector)

		d.painted[sector] = true
		if d.allPainted() {
			m.SetStatus(proximity.StatusGood)
		}
	})
}

func (d *Driver) allPainted() bool {
	for _, p := range d.painted {
		if !p {
			return false
		}
	}
	return len(d.painted) > 0
}

func (d *Driver) checkTimeout() {
	if d.lastFrame.IsZero() || time.Since(d.lastFrame) < d.dataTimeout {
		return
	}
	for i := range d.painted {
		d.painted[i] = false
	}
	d.model.Write(func(m *proximity.Model) {
		if m.Status() == proximity.StatusGood {
			monitoring.Logf("rangefinder: no data for %s, dropping to no_data", d.dataTimeout)
		}
		m.SetStatus(proximity.StatusNoData)
	})
}

// ParseDistance parses a "DS,<angle_deg>,<distance_m>" payload. Angles
// outside [0,360) are rejected here rather than normalized; the device
// reports absolute scan angles. NaN and negative distances are rejected.
func ParseDistance(line string) (angleDeg, distanceMeters float64, err error) {
	var a, dist float64
	n, err := fmt.Sscanf(line, "DS,%f,%f", &a, &dist)
	if err != nil || n != 2 {
		return 0, 0, fmt.Errorf("malformed distance payload %q", line)
	}
	if a < 0 || a >= 360 || math.IsNaN(a) {
		return 0, 0, fmt.Errorf("distance payload angle %v out of range", a)
	}
	if dist < 0 || math.IsNaN(dist) || math.IsInf(dist, 0) {
		return 0, 0, fmt.Errorf("distance payload range %v invalid", dist)
	}
	return a, dist, nil
}
