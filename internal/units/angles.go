package units

import "math"

// Wrap360 wraps an angle in degrees into [0, 360).
func Wrap360(angleDeg float64) float64 {
	wrapped := math.Mod(angleDeg, 360.0)
	if wrapped < 0 {
		wrapped += 360.0
	}
	return wrapped
}

// Wrap180 wraps an angle in degrees into [-180, 180].
func Wrap180(angleDeg float64) float64 {
	wrapped := Wrap360(angleDeg)
	if wrapped > 180.0 {
		wrapped -= 360.0
	}
	return wrapped
}

// Radians converts degrees to radians.
func Radians(angleDeg float64) float64 {
	return angleDeg * math.Pi / 180.0
}

// Degrees converts radians to degrees.
func Degrees(angleRad float64) float64 {
	return angleRad * 180.0 / math.Pi
}
