package schedule

import (
	"fmt"
	"math"
	"strings"
)

// Unit is the unit weights are entered and displayed in. Storage is always kg.
type Unit string

const (
	Kilograms Unit = "kg"
	Pounds    Unit = "lb"
)

const (
	lbToKg = 0.453592
	kgToLb = 2.20462
)

// ParseUnit accepts "kg" or "lb" (case-insensitive). Empty means kg.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "kg", "kgs":
		return Kilograms, nil
	case "lb", "lbs":
		return Pounds, nil
	default:
		return "", fmt.Errorf("unknown weight unit %q", s)
	}
}

// ToKilograms converts a weight entered in u to the storage unit.
// Pound values are rounded to one decimal.
func ToKilograms(v float64, u Unit) float64 {
	if u == Pounds {
		return round1(v * lbToKg)
	}
	return v
}

// FromKilograms converts a stored weight to u for display.
func FromKilograms(kg float64, u Unit) float64 {
	if u == Pounds {
		return round1(kg * kgToLb)
	}
	return kg
}

// FormatWeight renders a stored weight in u, e.g. "99.2 lb".
func FormatWeight(kg float64, u Unit) string {
	if u == "" {
		u = Kilograms
	}
	return fmt.Sprintf("%.1f %s", FromKilograms(kg, u), u)
}

// round1 rounds to one decimal. Magnitudes past 1e15 have no fractional
// precision left and are returned as is.
func round1(v float64) float64 {
	if math.Abs(v) >= 1e15 {
		return v
	}
	return math.Round(v*10) / 10
}
