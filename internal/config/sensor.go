// Package config loads the sensor configuration file: sector layout,
// ignore zones, sensing range and serial parameters.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/proximity.report/internal/proximity"
	"github.com/banshee-data/proximity.report/internal/serialmux"
)

// DefaultConfigPath is the path to the canonical sensor defaults file.
const DefaultConfigPath = "config/sensor.defaults.json"

// SectorConfig describes one angular bin of the layout.
type SectorConfig struct {
	MiddleDeg float64 `json:"middle_deg"`
	WidthDeg  float64 `json:"width_deg"`
}

// IgnoreZoneConfig describes one excluded angular interval, typically a
// reflective vehicle part in the sensor's view.
type IgnoreZoneConfig struct {
	CenterDeg uint16 `json:"center_deg"`
	WidthDeg  uint8  `json:"width_deg"`
}

// SensorConfig is the root configuration. Absent fields keep their
// defaults, so partial config files are safe. The schema matches the
// /api/proximity/config endpoint.
type SensorConfig struct {
	MaxRangeMeters *float64 `json:"max_range_meters,omitempty"`
	DataTimeout    *string  `json:"data_timeout,omitempty"`    // duration string like "3s"
	EventInterval  *string  `json:"event_interval,omitempty"`  // duration string like "1s"; "" disables recording

	Sectors     []SectorConfig     `json:"sectors,omitempty"`
	IgnoreZones []IgnoreZoneConfig `json:"ignore_zones,omitempty"`

	Serial *serialmux.PortOptions `json:"serial,omitempty"`
}

// EmptySensorConfig returns a SensorConfig with all fields unset.
func EmptySensorConfig() *SensorConfig {
	return &SensorConfig{}
}

// LoadSensorConfig loads a SensorConfig from a JSON file. The file must
// have a .json extension and stay under the max file size.
func LoadSensorConfig(path string) (*SensorConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySensorConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *SensorConfig) Validate() error {
	if c.MaxRangeMeters != nil && *c.MaxRangeMeters <= 0 {
		return fmt.Errorf("max_range_meters must be positive, got %f", *c.MaxRangeMeters)
	}

	if c.DataTimeout != nil && *c.DataTimeout != "" {
		if _, err := time.ParseDuration(*c.DataTimeout); err != nil {
			return fmt.Errorf("invalid data_timeout '%s': %w", *c.DataTimeout, err)
		}
	}

	if c.EventInterval != nil && *c.EventInterval != "" {
		if _, err := time.ParseDuration(*c.EventInterval); err != nil {
			return fmt.Errorf("invalid event_interval '%s': %w", *c.EventInterval, err)
		}
	}

	for i, s := range c.Sectors {
		if s.MiddleDeg < 0 || s.MiddleDeg >= 360 {
			return fmt.Errorf("sector %d middle_deg must be in [0,360), got %f", i, s.MiddleDeg)
		}
		if s.WidthDeg <= 0 {
			return fmt.Errorf("sector %d width_deg must be positive, got %f", i, s.WidthDeg)
		}
	}

	if len(c.IgnoreZones) > proximity.MaxIgnoreZones {
		return fmt.Errorf("too many ignore_zones: %d (max %d)", len(c.IgnoreZones), proximity.MaxIgnoreZones)
	}
	for i, z := range c.IgnoreZones {
		if z.CenterDeg >= 360 {
			return fmt.Errorf("ignore zone %d center_deg must be below 360, got %d", i, z.CenterDeg)
		}
	}

	if c.Serial != nil {
		if _, err := c.Serial.Normalize(); err != nil {
			return fmt.Errorf("invalid serial options: %w", err)
		}
	}

	return nil
}

// GetMaxRangeMeters returns the max_range_meters value or the default.
func (c *SensorConfig) GetMaxRangeMeters() float64 {
	if c.MaxRangeMeters == nil {
		return 50.0 // SF40-class maximum range
	}
	return *c.MaxRangeMeters
}

// GetDataTimeout parses and returns the DataTimeout as a time.Duration.
func (c *SensorConfig) GetDataTimeout() time.Duration {
	if c.DataTimeout == nil || *c.DataTimeout == "" {
		return 3 * time.Second // default
	}
	d, err := time.ParseDuration(*c.DataTimeout)
	if err != nil {
		return 3 * time.Second // default on parse error
	}
	return d
}

// GetEventInterval parses and returns the EventInterval as a
// time.Duration. Zero disables event recording.
func (c *SensorConfig) GetEventInterval() time.Duration {
	if c.EventInterval == nil {
		return time.Second // default
	}
	if *c.EventInterval == "" {
		return 0
	}
	d, err := time.ParseDuration(*c.EventInterval)
	if err != nil {
		return time.Second // default on parse error
	}
	return d
}

// GetSerial returns the serial options or an empty set whose defaults are
// applied by Normalize.
func (c *SensorConfig) GetSerial() serialmux.PortOptions {
	if c.Serial == nil {
		return serialmux.PortOptions{}
	}
	return *c.Serial
}

// Layout builds the proximity layout from the configured sectors, falling
// back to eight 45-degree sectors tiling the circle.
func (c *SensorConfig) Layout() proximity.Layout {
	if len(c.Sectors) == 0 {
		sectors := make([]proximity.Sector, 8)
		for i := range sectors {
			sectors[i] = proximity.Sector{MiddleDeg: float64(i) * 45.0, WidthDeg: 45.0}
		}
		return proximity.NewLayout(sectors)
	}
	sectors := make([]proximity.Sector, len(c.Sectors))
	for i, s := range c.Sectors {
		sectors[i] = proximity.Sector{MiddleDeg: s.MiddleDeg, WidthDeg: s.WidthDeg}
	}
	return proximity.NewLayout(sectors)
}

// Zones converts the configured ignore zones for the model.
func (c *SensorConfig) Zones() []proximity.IgnoreZone {
	zones := make([]proximity.IgnoreZone, len(c.IgnoreZones))
	for i, z := range c.IgnoreZones {
		zones[i] = proximity.IgnoreZone{CenterDeg: z.CenterDeg, WidthDeg: z.WidthDeg}
	}
	return zones
}
