// Package units converts lengths between display units and the internal unit.
//
// The internal unit is the decimal foot, the convention of the host modeling
// application. All geometry in footprint is computed in internal units; user
// facing inputs (configuration, CLI flags, API requests) are in millimeters.
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/footprint/pkg/errors"
)

// Unit identifies a length unit.
type Unit string

// Supported units.
const (
	Millimeters Unit = "mm"
	Centimeters Unit = "cm"
	Meters      Unit = "m"
	Feet        Unit = "ft"
	Inches      Unit = "in"
)

// Internal is the unit all geometry is expressed in.
const Internal = Feet

// perFoot is how many of each unit make up one internal unit.
var perFoot = map[Unit]float64{
	Millimeters: 304.8,
	Centimeters: 30.48,
	Meters:      0.3048,
	Feet:        1,
	Inches:      12,
}

// Parse resolves a unit name such as "mm" or "Meters".
func Parse(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mm", "millimeter", "millimeters":
		return Millimeters, nil
	case "cm", "centimeter", "centimeters":
		return Centimeters, nil
	case "m", "meter", "meters":
		return Meters, nil
	case "ft", "foot", "feet":
		return Feet, nil
	case "in", "inch", "inches":
		return Inches, nil
	}
	return "", errors.InvalidArgument("unknown unit %q", s)
}

// ToInternal converts v from unit u to internal units.
func ToInternal(v float64, u Unit) (float64, error) {
	f, ok := perFoot[u]
	if !ok {
		return 0, errors.InvalidArgument("unknown unit %q", string(u))
	}
	return v / f, nil
}

// FromInternal converts v from internal units to unit u.
func FromInternal(v float64, u Unit) (float64, error) {
	f, ok := perFoot[u]
	if !ok {
		return 0, errors.InvalidArgument("unknown unit %q", string(u))
	}
	return v * f, nil
}

// MM converts millimeters to internal units.
func MM(v float64) float64 { return v / perFoot[Millimeters] }

// ToMM converts internal units to millimeters.
func ToMM(v float64) float64 { return v * perFoot[Millimeters] }

// Format renders an internal length in unit u, e.g. "5000 mm".
func Format(v float64, u Unit) string {
	out, err := FromInternal(v, u)
	if err != nil {
		return fmt.Sprintf("%g ft", v)
	}
	return strconv.FormatFloat(math.Round(out*100)/100, 'f', -1, 64) + " " + string(u)
}
