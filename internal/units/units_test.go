package units

import (
	"math"
	"testing"
)

func TestConvertDistance(t *testing.T) {
	tests := []struct {
		name           string
		distanceMeters float64
		units          string
		expected       float64
	}{
		{"10 m to cm", 10.0, Centimeters, 1000.0},
		{"10 m to ft", 10.0, Feet, 32.8084},
		{"10 m to m", 10.0, Meters, 10.0},
		{"unknown units default to meters", 10.0, "unknown", 10.0},
		{"0 m to ft", 0.0, Feet, 0.0},
		{"sensor max range 100 m to ft", 100.0, Feet, 328.084},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertDistance(tt.distanceMeters, tt.units)
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("ConvertDistance(%f, %s) = %f, want %f", tt.distanceMeters, tt.units, result, tt.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	for _, unit := range ValidUnits {
		if !IsValid(unit) {
			t.Errorf("IsValid(%q) = false, want true", unit)
		}
	}
	if IsValid("furlongs") {
		t.Error("IsValid(furlongs) = true, want false")
	}
}

func TestWrap360(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{450, 90},
		{-360, 0},
		{-540, 180},
		{359.5, 359.5},
	}
	for _, tt := range tests {
		if got := Wrap360(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Wrap360(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWrap180(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{180, 180},
		{181, -179},
		{-180, 180},
		{270, -90},
		{-90, -90},
		{720, 0},
	}
	for _, tt := range tests {
		if got := Wrap180(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Wrap180(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRadiansDegreesRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 45, 90, 135.5, 359} {
		if got := Degrees(Radians(deg)); math.Abs(got-deg) > 1e-9 {
			t.Errorf("Degrees(Radians(%v)) = %v", deg, got)
		}
	}
}
