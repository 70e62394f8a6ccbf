package measurement

import (
	"fmt"
	"math"
	"strings"
)

// UnitSystem selects how scalars are scaled and suffixed
type UnitSystem uint8

const (
	UnitsNone UnitSystem = iota
	UnitsMetric
	UnitsMeters
	UnitsCentimeters
	UnitsMillimeters
	UnitsImperial
	UnitsFeet
	UnitsInches
)

var unitNames = []string{"none", "metric", "m", "cm", "mm", "imperial", "ft", "in"}

func (u UnitSystem) String() string {
	if int(u) < len(unitNames) {
		return unitNames[u]
	}
	return fmt.Sprintf("units(%d)", uint8(u))
}

// MarshalText implements encoding.TextMarshaler
func (u UnitSystem) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (u *UnitSystem) UnmarshalText(text []byte) error {
	for i, name := range unitNames {
		if strings.EqualFold(name, string(text)) {
			*u = UnitSystem(i)
			return nil
		}
	}
	return fmt.Errorf("unknown unit system %q", text)
}

// Units is the scene unit system with the scene-unit to meter scale factor
type Units struct {
	System UnitSystem `yaml:"system" toml:"system"`
	Scale  float64    `yaml:"scale" toml:"scale"`
}

// DefaultUnits returns automatic metric units at scale 1
func DefaultUnits() Units {
	return Units{System: UnitsMetric, Scale: 1}
}

const (
	metersPerFoot = 0.3048
	metersPerInch = 0.0254
)

// pick returns the conversion factor from meters and the suffix for a length in meters
func (u Units) pick(meters float64) (float64, string) {
	abs := math.Abs(meters)
	switch u.System {
	case UnitsMetric:
		switch {
		case abs >= 1:
			return 1, "m"
		case abs >= 0.01:
			return 100, "cm"
		default:
			return 1000, "mm"
		}
	case UnitsMeters:
		return 1, "m"
	case UnitsCentimeters:
		return 100, "cm"
	case UnitsMillimeters:
		return 1000, "mm"
	case UnitsImperial:
		if abs >= metersPerFoot {
			return 1 / metersPerFoot, "'"
		}
		return 1 / metersPerInch, "\""
	case UnitsFeet:
		return 1 / metersPerFoot, "'"
	case UnitsInches:
		return 1 / metersPerInch, "\""
	}
	return 1, ""
}

// Factor returns the scene-unit to meter scale, treating a non-positive scale as 1
func (u Units) Factor() float64 {
	if u.Scale <= 0 {
		return 1
	}
	return u.Scale
}

// FormatDistance renders a length in scene units with precision fractional digits
func FormatDistance(value float64, u Units, precision int, hideSuffix bool) string {
	meters := value * u.Factor()
	factor, suffix := u.pick(meters)
	text := fmt.Sprintf("%.*f", clampPrecision(precision), meters*factor)
	if hideSuffix || suffix == "" {
		return text
	}
	if suffix == "'" || suffix == "\"" {
		return text + suffix
	}
	return text + " " + suffix
}

// FormatArea renders an area in squared scene units
func FormatArea(value float64, u Units, precision int, hideSuffix bool) string {
	s := u.Factor()
	sqMeters := value * s * s
	// Pick the unit from the side length so 0.5 m² stays in cm² rather than m²
	factor, suffix := u.pick(math.Sqrt(math.Abs(sqMeters)))
	text := fmt.Sprintf("%.*f", clampPrecision(precision), sqMeters*factor*factor)
	if hideSuffix || suffix == "" {
		return text
	}
	switch suffix {
	case "'":
		return text + " ft²"
	case "\"":
		return text + " in²"
	}
	return text + " " + suffix + "²"
}

// FormatAngle renders an angle given in radians as degrees
func FormatAngle(radians float64, precision int, hideSuffix bool) string {
	text := fmt.Sprintf("%.*f", clampPrecision(precision), radians*180/math.Pi)
	if hideSuffix {
		return text
	}
	return text + "°"
}

// SplitLines breaks label text at pipe characters
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "|")
}

func clampPrecision(p int) int {
	if p < 0 {
		return 0
	}
	if p > 6 {
		return 6
	}
	return p
}
