// Package units provides shared constants and conversion helpers for
// distance units and circular angle arithmetic.
package units

// Unit constants
const (
	Meters      = "m"
	Centimeters = "cm"
	Feet        = "ft"
)

// ValidUnits contains all valid distance unit values
var ValidUnits = []string{Meters, Centimeters, Feet}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "m, cm, ft"
}

// ConvertDistance converts a distance from meters to the target units.
// Sensors report ranges in meters; meters is the storage unit throughout.
func ConvertDistance(distanceMeters float64, targetUnits string) float64 {
	switch targetUnits {
	case Meters:
		return distanceMeters
	case Centimeters:
		return distanceMeters * 100.0
	case Feet:
		return distanceMeters * 3.2808398950131
	default:
		return distanceMeters
	}
}
